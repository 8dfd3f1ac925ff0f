package constants

// Application Information
const (
	AppName    = "Hospital Registry"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Cache Key Prefixes
const (
	CacheKeyPrefix        = "registry:"
	CacheKeyRevokedToken  = CacheKeyPrefix + "revoked:"
	CacheKeyLoginAttempts = CacheKeyPrefix + "login:"
)

// Account kinds double as token roles.
const (
	RoleAdmin    = "admin"
	RoleHospital = "hospital"
)

// Audit log vocabulary
const (
	AuditActionRegister        = "register"
	AuditActionApproveHospital = "approve_hospital"
	AuditActionRejectHospital  = "reject_hospital"

	AuditEntityAdmin    = "admin"
	AuditEntityHospital = "hospital"
)

// Gin context keys set by middleware
const (
	GinKeyClaims      = "claims"
	GinKeyUserID      = "user_id"
	GinKeyUserType    = "user_type"
	GinKeyEmail       = "email"
	GinKeyRequestID   = "request_id"
	GinKeyRequestBody = "request_body"
)
