package store

import (
	crand "crypto/rand"
	"math/big"
	"math/rand"
	"strings"
)

const (
	CodeLength = 6
	// no 0/O or 1/I
	CodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// GenerateCode creates a random session code
func GenerateCode() string {
	code := make([]byte, CodeLength)
	for i := 0; i < CodeLength; i++ {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(CodeChars))))
		if err != nil {
			code[i] = CodeChars[rand.Intn(len(CodeChars))]
			continue
		}
		code[i] = CodeChars[n.Int64()]
	}
	return string(code)
}

// NormalizeCode upper-cases and trims user-typed codes
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCode reports whether code could have come from GenerateCode
func ValidCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(CodeChars, code[i]) < 0 {
			return false
		}
	}
	return true
}
