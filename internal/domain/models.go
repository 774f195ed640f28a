package domain

import "time"

// Collection names, one directory each under the data dir.
const (
	CollUsers  = "users"
	CollTokens = "tokens"
	CollChecks = "checks"
)

const (
	// KeyLength is the width of generated record keys (token and check ids).
	KeyLength = 20
	// PhoneLength is the width of a user phone number, the users key.
	PhoneLength = 10
)

type State string

const (
	StateUp   State = "up"
	StateDown State = "down"
)

// User is keyed by phone. Checks holds the ids of the checks this user owns
// and is kept in lockstep with the checks collection by the repository.
type User struct {
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Phone          string   `json:"phone"`
	HashedPassword string   `json:"hashedPassword,omitempty"`
	Checks         []string `json:"checks,omitempty"`
}

// Token is a bearer credential bound to one phone. Expiry is the only
// termination mechanism; there is no revocation list.
type Token struct {
	ID      string    `json:"id"`
	Phone   string    `json:"phone"`
	Expires time.Time `json:"expires"`
}

// Check is a monitored endpoint. State and LastChecked belong to the
// engine, not the user; LastChecked is nil until the first probe.
type Check struct {
	ID             string     `json:"id"`
	UserPhone      string     `json:"userPhone"`
	Protocol       string     `json:"protocol"`
	URL            string     `json:"url"`
	Method         string     `json:"method"`
	SuccessCodes   []int      `json:"successCodes"`
	TimeoutSeconds int        `json:"timeoutSeconds"`
	State          State      `json:"state,omitempty"`
	LastChecked    *time.Time `json:"lastChecked,omitempty"` // pointer to allow nil
}

// CheckSpec is the user-supplied part of a check.
type CheckSpec struct {
	Protocol       string `json:"protocol"`
	URL            string `json:"url"`
	Method         string `json:"method"`
	SuccessCodes   []int  `json:"successCodes"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// CheckPatch carries the fields of a partial update; nil means "leave as is".
type CheckPatch struct {
	Protocol       *string `json:"protocol"`
	URL            *string `json:"url"`
	Method         *string `json:"method"`
	SuccessCodes   []int   `json:"successCodes"`
	TimeoutSeconds *int    `json:"timeoutSeconds"`
}

// Empty reports whether the patch carries no updatable field.
func (p CheckPatch) Empty() bool {
	return p.Protocol == nil && p.URL == nil && p.Method == nil &&
		p.SuccessCodes == nil && p.TimeoutSeconds == nil
}
