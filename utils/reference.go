package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const referenceCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const referenceSuffixLength = 5

// NewBookingReference builds a human-readable booking reference of the form
// BK-YYYYMMDD-XXXXX with a random base36 suffix. Uniqueness is the caller's
// problem: regenerate on collision, with a bounded number of attempts.
func NewBookingReference(on time.Time) (string, error) {
	suffix := make([]byte, referenceSuffixLength)
	max := big.NewInt(int64(len(referenceCharset)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		suffix[i] = referenceCharset[n.Int64()]
	}
	return fmt.Sprintf("BK-%s-%s", on.UTC().Format("20060102"), string(suffix)), nil
}
