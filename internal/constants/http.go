package constants

// HTTP Header Names
const (
	HeaderContentType    = "Content-Type"
	HeaderAuthorization  = "Authorization"
	HeaderUserAgent      = "User-Agent"
	HeaderXRequestID     = "X-Request-ID"
	HeaderXCorrelationID = "X-Correlation-ID"
	HeaderOrigin         = "Origin"
	HeaderRetryAfter     = "Retry-After"
)

const BearerPrefix = "Bearer"

// HTTP Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeHTML = "text/html"
)

// Common HTTP Error Messages
const (
	MsgUnauthenticated    = "Authentication required"
	MsgForbidden          = "Insufficient permissions"
	MsgNotFound           = "Resource not found"
	MsgInvalidPayload     = "Invalid JSON payload"
	MsgValidationFailed   = "Validation failed"
	MsgInternalError      = "Internal server error"
	MsgServiceUnavailable = "Service temporarily unavailable, please try again later"
	MsgRateLimited        = "Too many requests, please slow down"
	MsgTimeout            = "Request timeout"
)

// HTTP Success Messages
const (
	MsgAdminRegistered    = "Administrator registered successfully"
	MsgHospitalRegistered = "Hospital registered successfully. Your application is pending approval."
	MsgLoginSuccessful    = "Login successful"
	MsgLogoutSuccessful   = "Logout successful"
	MsgHospitalApproved   = "Hospital approved successfully"
	MsgHospitalRejected   = "Hospital rejected successfully"
	MsgPendingRetrieved   = "Pending hospitals retrieved successfully"
	MsgHospitalsRetrieved = "Hospitals retrieved successfully"
	MsgHospitalRetrieved  = "Hospital retrieved successfully"
	MsgAuditRetrieved     = "Audit trail retrieved successfully"
	MsgProfileRetrieved   = "Profile retrieved successfully"
	MsgStatusRetrieved    = "System status retrieved successfully"
)
