package domain

import (
	"fmt"
	"strings"
)

// ValidPhone reports whether s is exactly ten ASCII digits.
func ValidPhone(s string) bool {
	if len(s) != PhoneLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ValidKey reports whether s has the width of a generated record key.
func ValidKey(s string) bool {
	return len(s) == KeyLength
}

func ValidProtocol(s string) bool {
	return s == "http" || s == "https"
}

func ValidMethod(s string) bool {
	switch s {
	case "get", "post", "put", "delete":
		return true
	}
	return false
}

func ValidTimeout(seconds int) bool {
	return seconds >= 1 && seconds <= 5
}

func validSuccessCodes(codes []int) bool {
	return len(codes) > 0
}

// ValidateSpec checks every user-supplied field of a check spec.
// Fields are trimmed in place before validation.
func ValidateSpec(spec *CheckSpec) error {
	spec.Protocol = strings.TrimSpace(spec.Protocol)
	spec.URL = strings.TrimSpace(spec.URL)
	spec.Method = strings.TrimSpace(spec.Method)

	if !ValidProtocol(spec.Protocol) {
		return fmt.Errorf("protocol must be http or https, got %q", spec.Protocol)
	}
	if spec.URL == "" {
		return fmt.Errorf("url must not be empty")
	}
	if !ValidMethod(spec.Method) {
		return fmt.Errorf("method must be one of get, post, put, delete, got %q", spec.Method)
	}
	if !validSuccessCodes(spec.SuccessCodes) {
		return fmt.Errorf("successCodes must be a non-empty list")
	}
	if !ValidTimeout(spec.TimeoutSeconds) {
		return fmt.Errorf("timeoutSeconds must be in [1,5], got %d", spec.TimeoutSeconds)
	}
	return nil
}

// NormalizeCheck re-derives every field of a stored check record. It defends
// against externally edited or partially written files, not just repository
// input: any missing or invalid required field rejects the record. State and
// LastChecked describe prior engine state, so they are the only fields that
// may be filled in (down / never) instead of rejected.
func NormalizeCheck(raw Check) (Check, error) {
	c := raw
	c.ID = strings.TrimSpace(c.ID)
	c.UserPhone = strings.TrimSpace(c.UserPhone)
	c.Protocol = strings.TrimSpace(c.Protocol)
	c.URL = strings.TrimSpace(c.URL)
	c.Method = strings.TrimSpace(c.Method)

	if !ValidKey(c.ID) {
		return Check{}, fmt.Errorf("check id %q is not %d characters", c.ID, KeyLength)
	}
	if !ValidPhone(c.UserPhone) {
		return Check{}, fmt.Errorf("check %s: userPhone %q is not %d digits", c.ID, c.UserPhone, PhoneLength)
	}
	if !ValidProtocol(c.Protocol) {
		return Check{}, fmt.Errorf("check %s: bad protocol %q", c.ID, c.Protocol)
	}
	if c.URL == "" {
		return Check{}, fmt.Errorf("check %s: empty url", c.ID)
	}
	if !ValidMethod(c.Method) {
		return Check{}, fmt.Errorf("check %s: bad method %q", c.ID, c.Method)
	}
	if !validSuccessCodes(c.SuccessCodes) {
		return Check{}, fmt.Errorf("check %s: empty successCodes", c.ID)
	}
	if !ValidTimeout(c.TimeoutSeconds) {
		return Check{}, fmt.Errorf("check %s: timeoutSeconds %d out of range", c.ID, c.TimeoutSeconds)
	}

	if c.State != StateUp && c.State != StateDown {
		c.State = StateDown
	}
	return c, nil
}
