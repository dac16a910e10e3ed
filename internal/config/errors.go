package config

const (
	// Database errors
	ErrInitializeDatabaseFmt = "Failed to initialize database: %v"

	// Auth errors
	ErrCreateProviderFmt      = "Failed to create provider: %v"
	ErrAuthHeaderRequired     = "Authorization header required"
	ErrInvalidSignatureFormat = "Invalid signature format"
	ErrInvalidSignature       = "Invalid signature"
	ErrInternalServerError    = "Internal server error"
	ErrUnauthorized           = "Unauthorized"

	// Editor errors
	ErrNotEditing       = "Edit mode is off"
	ErrUnknownVariant   = "Unknown block type"
	ErrUnknownDirection = "Unknown direction"
	ErrInvalidField     = "Field does not belong to this block"
	ErrUploadTooLarge   = "Upload too large"
	ErrInvalidUpload    = "Invalid upload"

	// Theme errors
	ErrUnknownSyntaxTheme = "Unknown syntax theme"

	// Form errors
	ErrInvalidForm = "Invalid form data"

	// Challenge errors
	ErrRefreshChallengeFmt = "Failed to refresh challenge"
)
