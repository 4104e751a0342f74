// internal/models/common.go
package models

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "Pending"
	RequestStatusConfirmed RequestStatus = "Confirmed"
	RequestStatusRejected  RequestStatus = "Rejected"
	RequestStatusShipped   RequestStatus = "Shipped"
)

// Valid reports whether s is one of the four lifecycle states.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusConfirmed, RequestStatusRejected, RequestStatusShipped:
		return true
	}
	return false
}

// Placeholder contact fields for accounts created through federated login.
const (
	PlaceholderPhoneNumber = "0000000000"
	PlaceholderAddress     = "Not Provided"
	PlaceholderGender      = "Not Provided"
)

// All returns every persisted model, in dependency order, for migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Product{},
		&Request{},
		&Message{},
		&Session{},
	}
}
