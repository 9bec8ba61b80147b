package randcode

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"
)

var digits = []rune("0123456789")

// GenerateNumericCode returns a code of length decimal digits,
// drawn from crypto/rand. Leading zeros are allowed.
func GenerateNumericCode(length int) (string, error) {
	b := make([]rune, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}

		b[i] = digits[n.Int64()]
	}

	return string(b), nil
}

// GenerateURLSafeToken returns a URL-safe base64 token built from
// numBytes random bytes.
func GenerateURLSafeToken(numBytes int) (string, error) {
	raw := make([]byte, numBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}
