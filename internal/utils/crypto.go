// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateRandomString returns a hex string of the given length.
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, (length+1)/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes)[:length], nil
}

// GenerateOrderNumber builds a unique order reference like ORD-1735689600000-A3F9.
func GenerateOrderNumber() (string, error) {
	suffix, err := GenerateRandomString(4)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), strings.ToUpper(suffix)), nil
}
