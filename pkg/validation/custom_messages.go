package validation

// CustomMessage returns per-field overrides keyed by validator tag.
// Fields are named by their JSON key.
func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"email": {
			"required": "email is required",
			"email":    "email must be a valid email address",
		},
		"password": {
			"required":       "password is required",
			"strongpassword": "password must be at least 8 characters and contain an uppercase letter, a lowercase letter, a number and a special character",
			"max":            "password must not exceed 128 characters",
		},
		"phone_number": {
			"required": "phone number is required",
			"phone":    "phone number must contain 10 to 15 digits",
		},
		"hospital_address": {
			"required": "hospital address is required",
			"min":      "hospital address must be at least 10 characters",
		},
		"full_name": {
			"required": "full name is required",
			"min":      "full name must be at least 3 characters",
		},
		"hospital_name": {
			"required": "hospital name is required",
			"min":      "hospital name must be at least 3 characters",
		},
		"reason": {
			"max": "reason must not exceed 1000 characters",
		},
	}
	return customValidationMessages[field]
}
