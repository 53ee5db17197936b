package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// codeAlphabet excludes visually ambiguous characters (0/O, 1/I/l) so codes
// survive being read aloud or copied by hand.
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz"

// GenerateCode returns a random code of length n drawn from the restricted
// alphabet.
func GenerateCode(n int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < n; i++ {
		x, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random code: %w", err)
		}
		b.WriteByte(codeAlphabet[x.Int64()])
	}
	return b.String(), nil
}
