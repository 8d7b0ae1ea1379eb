// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Access control
	KeyAccessDenied     = "access.denied"
	KeyBuyerRequired    = "access.buyer_required"
	KeySupplierRequired = "access.supplier_required"

	// RFPs
	KeyRFPCreated       = "rfp.created"
	KeyRFPUpdated       = "rfp.updated"
	KeyRFPDeleted       = "rfp.deleted"
	KeyRFPNotFound      = "rfp.not_found"
	KeyRFPPublished     = "rfp.published"
	KeyRFPUnderReview   = "rfp.under_review"

	// Responses
	KeyResponseSubmitted = "response.submitted"
	KeyResponseApproved  = "response.approved"
	KeyResponseRejected  = "response.rejected"
	KeyResponseNotFound  = "response.not_found"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
