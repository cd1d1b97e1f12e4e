package auth

import (
	"crypto/rand"
	"fmt"
)

// GenerateOTP returns a random numeric verification code of the given length.
func GenerateOTP(length int) (string, error) {
	const digits = "0123456789"
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = digits[int(b)%len(digits)]
	}
	return string(buf), nil
}
