package entity

import "time"

// OTPCode is the single active one-time code for an email.
// CodeHash is a bcrypt hash of the six digit code.
type OTPCode struct {
	ID        int64
	Email     string
	CodeHash  string
	ExpiresAt time.Time
	Attempts  int
	CreatedAt time.Time
}

func (o *OTPCode) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

// OTPAction is what a store applies to the active code after a verification
// decision, while still holding the per-email lock.
type OTPAction int

const (
	OTPKeep OTPAction = iota
	OTPIncrementAttempts
	OTPDelete
)

// OTPMode selects the signup or login branch of a code request.
type OTPMode string

const (
	ModeSignup OTPMode = "signup"
	ModeLogin  OTPMode = "login"
)
