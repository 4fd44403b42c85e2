package invoicing

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const receiptLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateReceiptID produces a receipt identifier of the form
// RCPT-XX########## with two random uppercase letters and a ten digit number.
func GenerateReceiptID() string {
	prefix := make([]byte, 2)
	for i := range prefix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(receiptLetters))))
		if err != nil {
			prefix[i] = receiptLetters[0]
			continue
		}
		prefix[i] = receiptLetters[n.Int64()]
	}

	// 10 digits, never leading-zero padded below 10 digits
	span := big.NewInt(9000000000)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		n = big.NewInt(0)
	}
	number := n.Int64() + 1000000000

	return fmt.Sprintf("RCPT-%s%d", string(prefix), number)
}
