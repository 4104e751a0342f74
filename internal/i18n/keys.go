// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthForbidden          = "auth.forbidden"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthInvalidGoogleToken = "auth.invalid_google_token"
	KeyAuthEmailRegistered    = "auth.email_registered"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthGoogleLoginSuccess = "auth.google_login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"

	// Users
	KeyUserNotFound       = "user.not_found"
	KeyUserProfileUpdated = "user.profile_updated"

	// Products
	KeyProductAdded        = "product.added"
	KeyProductUpdated      = "product.updated"
	KeyProductDeleted      = "product.deleted"
	KeyProductNotFound     = "product.not_found"
	KeyProductInvalidPrice = "product.invalid_price"

	// Purchase requests
	KeyRequestCreated           = "request.created"
	KeyRequestUpdated           = "request.updated"
	KeyRequestNotFound          = "request.not_found"
	KeyRequestInvalidStatus     = "request.invalid_status"
	KeyRequestTransitionBlocked = "request.transition_not_allowed"

	// Messages
	KeyMessageSent = "message.sent"

	// Validation
	KeyValidationMissingData = "validation.missing_data"
	KeyValidationInvalid     = "validation.invalid"

	// File Upload
	KeyFileMissingPart  = "file.missing_part"
	KeyFileNoSelection  = "file.no_selection"
	KeyFileInvalidType  = "file.invalid_type"
	KeyFileInvalidName  = "file.invalid_name"
	KeyFileUploadFailed = "file.upload_failed"
	KeyFileNotFound     = "file.not_found"
	KeyFileTooLarge     = "file.too_large"

	KeyInternalError = "internal_error"
)
