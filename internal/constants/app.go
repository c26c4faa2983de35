package constants

// Application Information
const (
	AppName    = "Auth Service"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8080"
	DefaultEnvironment = EnvDevelopment
)

// Default device type recorded when a client does not identify itself
const DefaultDeviceType = "unknown"

// Cache Key Prefixes
const (
	CacheKeyPrefix  = "auth:"
	CacheKeySession = CacheKeyPrefix + "session:"
	CacheKeyUser    = CacheKeyPrefix + "user:"
)

// Audit Event Names
const (
	AuditEventRegistered = "user.registered"
	AuditEventLoggedIn   = "user.logged_in"
	AuditEventLoggedOut  = "user.logged_out"
)

// Log Levels
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
	LogLevelFatal = "fatal"
)
