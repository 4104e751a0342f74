// internal/services/status_policy.go
package services

import (
	"fmt"

	"github.com/javajoker/agrimarket-backend/internal/config"
	"github.com/javajoker/agrimarket-backend/internal/models"
)

// StatusPolicy decides which request status changes a seller may make.
type StatusPolicy interface {
	Allow(from, to models.RequestStatus) bool
}

// LenientPolicy accepts any seller-settable status from any state.
type LenientPolicy struct{}

func (LenientPolicy) Allow(_, to models.RequestStatus) bool {
	return sellerSettable(to)
}

// ForwardOnlyPolicy allows Pending->Confirmed, Pending->Rejected and
// Confirmed->Shipped only.
type ForwardOnlyPolicy struct{}

func (ForwardOnlyPolicy) Allow(from, to models.RequestStatus) bool {
	switch from {
	case models.RequestStatusPending:
		return to == models.RequestStatusConfirmed || to == models.RequestStatusRejected
	case models.RequestStatusConfirmed:
		return to == models.RequestStatusShipped
	}
	return false
}

func sellerSettable(s models.RequestStatus) bool {
	return s.Valid() && s != models.RequestStatusPending
}

func NewStatusPolicy(name string) (StatusPolicy, error) {
	switch name {
	case config.StatusPolicyLenient:
		return LenientPolicy{}, nil
	case config.StatusPolicyForwardOnly:
		return ForwardOnlyPolicy{}, nil
	default:
		return nil, fmt.Errorf("unsupported request status policy %q", name)
	}
}
