package constants

// Field Length Limits
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MinNameLength     = 3
	MaxNameLength     = 255
	MinAddressLength  = 10
	MinPhoneDigits    = 10
	MaxPhoneDigits    = 15
	MaxEmailLength    = 255
	MaxReasonLength   = 1000
)

// Custom validator tags registered in pkg/validation
const (
	TagStrongPassword = "strongpassword"
	TagPhone          = "phone"
)
