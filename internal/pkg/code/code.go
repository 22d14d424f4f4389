package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

// Bounds of a verification code: always exactly five decimal digits.
const (
	Min    = 10000
	Max    = 99999
	Length = 5
)

var span = big.NewInt(Max - Min + 1)

// Generate returns a uniformly random code in [Min, Max] drawn from crypto/rand.
func Generate() (int, error) {
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, fmt.Errorf("generate verification code: %w", err)
	}
	return Min + int(n.Int64()), nil
}

// Parse converts a code presented by a caller back to its integer form.
// Anything that is not five ASCII digits in range is rejected.
func Parse(s string) (int, bool) {
	if len(s) != Length {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < Min || n > Max {
		return 0, false
	}
	return n, true
}
