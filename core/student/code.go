package student

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
)

const (
	codeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var alphabetLen = big.NewInt(int64(len(codeAlphabet)))

// generateCode returns a new random access code: codeLength characters
// drawn uniformly from codeAlphabet. Uniqueness is enforced by the caller.
func generateCode() (string, error) {
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", errors.Wrap(err, "generating access code")
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
