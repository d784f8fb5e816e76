package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// PasswordAlphabet leaves out characters that are easy to misread.
	PasswordAlphabet      = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	InitialPasswordLength = 12
	minPasswordLength     = 8
	maxPasswordAttempts   = 64
)

// GeneratePassword returns a random password for handing out once, such as a
// new client login or an admin reset. The result always mixes upper case,
// lower case and digits so it passes the account password rules.
func GeneratePassword(length int) (string, error) {
	if length < minPasswordLength {
		length = minPasswordLength
	}
	for attempt := 0; attempt < maxPasswordAttempts; attempt++ {
		password, err := randomString(length, PasswordAlphabet)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		if mixesCharacterClasses(password) {
			return password, nil
		}
	}
	return "", fmt.Errorf("generate password: no mixed candidate after %d attempts", maxPasswordAttempts)
}

func randomString(length int, alphabet string) (string, error) {
	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}
	return string(value), nil
}

func mixesCharacterClasses(password string) bool {
	return strings.ContainsAny(password, "ABCDEFGHJKLMNPQRSTUVWXYZ") &&
		strings.ContainsAny(password, "abcdefghijkmnopqrstuvwxyz") &&
		strings.ContainsAny(password, "23456789")
}
