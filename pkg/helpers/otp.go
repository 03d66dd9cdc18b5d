package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// OTP helpers

const otpSpace = 1000000

var otpMax = big.NewInt(otpSpace)

// GenOTPCode generates a secure random 6-digit OTP code as a zero-padded string.
// The value is uniform over 000000-999999.
func GenOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// IsOTPCode reports whether s looks like a code GenOTPCode could produce.
func IsOTPCode(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
