package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type registerForm struct {
	FullName string `json:"full_name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone_number" validate:"required,phone"`
	Password string `json:"password" validate:"required,strongpassword"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := RegisterValidators(v); err != nil {
		t.Fatalf("RegisterValidators: %v", err)
	}
	return v
}

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Secret123!", true},
		{"Aa1!aaaa", true},
		{"Aa1!aaa", false},
		{"secret123!", false},
		{"SECRET123!", false},
		{"Secret!!!!", false},
		{"Secret1234", false},
		{"Sécret123€", true},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			if got := IsStrongPassword(tt.password); got != tt.want {
				t.Errorf("IsStrongPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestIsPhoneNumber(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"08123456789", true},
		{"+62 812-3456-789", true},
		{"+1 (555) 010-0100", true},
		{"123456789", false},
		{"1234567890123456", false},
		{"0812345678x", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			if got := IsPhoneNumber(tt.phone); got != tt.want {
				t.Errorf("IsPhoneNumber(%q) = %v, want %v", tt.phone, got, tt.want)
			}
		})
	}
}

func TestFormatErrorsUsesJSONNames(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(registerForm{
		FullName: "Al",
		Email:    "not-an-email",
		Phone:    "12",
		Password: "weak",
	})
	if err == nil {
		t.Fatal("expected validation errors")
	}

	got := FormatErrors(err)
	want := map[string]string{
		"full_name":    "full name must be at least 3 characters",
		"email":        "email must be a valid email address",
		"phone_number": "phone number must contain 10 to 15 digits",
		"password":     "password must be at least 8 characters and contain an uppercase letter, a lowercase letter, a number and a special character",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d fields, want %d: %v", len(got), len(want), got)
	}
	for field, msg := range want {
		if len(got[field]) != 1 || got[field][0] != msg {
			t.Errorf("%s: got %v, want [%q]", field, got[field], msg)
		}
	}
}

func TestFormatErrorsIgnoresOtherErrors(t *testing.T) {
	if got := FormatErrors(nil); got != nil {
		t.Errorf("FormatErrors(nil) = %v", got)
	}
	if got := FormatErrors(validator.New().Var("x", "required")); got != nil {
		t.Errorf("expected nil for a valid value, got %v", got)
	}
}

func TestDefaultMessage(t *testing.T) {
	tests := []struct {
		field, tag, param, want string
	}{
		{"status", "oneof", "pending approved rejected", "status must be one of: pending, approved, rejected"},
		{"hospital_name", "max", "255", "hospital name must not exceed 255 characters"},
		{"x", "uuid", "", "x is invalid"},
	}
	for _, tt := range tests {
		if got := DefaultMessage(tt.field, tt.tag, tt.param); got != tt.want {
			t.Errorf("DefaultMessage(%q, %q) = %q, want %q", tt.field, tt.tag, got, tt.want)
		}
	}
}
