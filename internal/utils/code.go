package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// EmailCodeTTL is how long an emailed verification code stays valid.
const EmailCodeTTL = 10 * time.Minute

// NewEmailCode returns a zero-padded 6-digit verification code and its
// expiry. The code comes from crypto/rand so it cannot be predicted.
func NewEmailCode() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", time.Time{}, err
	}
	code := fmt.Sprintf("%06d", n.Int64())
	return code, time.Now().UTC().Add(EmailCodeTTL), nil
}
