package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// ResetCodeLength is the number of digits mailed to a user resetting their password.
const ResetCodeLength = 6

// GenerateResetCode returns a uniformly random numeric code of ResetCodeLength digits.
func GenerateResetCode() (string, error) {
	limit := big.NewInt(10)
	var b strings.Builder
	for i := 0; i < ResetCodeLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate reset code: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// HashResetCode returns the hex SHA-256 digest stored in place of the code.
func HashResetCode(code string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(code)))
	return hex.EncodeToString(sum[:])
}
