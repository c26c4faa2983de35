package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderUserAgent     = "User-Agent"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"
)

// HTTP Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Common HTTP Error Messages
const (
	MsgUnauthorized      = "Unauthorized"
	MsgInvalidCreds      = "invalid credentials"
	MsgValidationFailed  = "The given data was invalid"
	MsgInternalError     = "Something went wrong, please try again"
	MsgRegistrationError = "Registration failed, please try again"
)

// HTTP Success Messages
const (
	MsgRegistered = "Registration successful"
	MsgLoggedIn   = "Login successful"
	MsgLoggedOut  = "Logout successful"
)
