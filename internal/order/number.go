package order

import (
	"fmt"
	"strconv"
	"strings"
)

// fallbackPrefix is used when a company name has no usable characters.
const fallbackPrefix = "MEDX"

// NumberPrefix derives the 4-character order-number prefix from a company
// name: uppercase, A-Z0-9 only, first 4 characters, right-padded with X.
func NumberPrefix(companyName string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(companyName) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == 4 {
				break
			}
		}
	}
	prefix := b.String()
	if prefix == "" {
		return fallbackPrefix
	}
	for len(prefix) < 4 {
		prefix += "X"
	}
	return prefix
}

// FormatOrderNumber renders a tenant-scoped order number, e.g.
// ORD-ACME-000007.
func FormatOrderNumber(prefix string, sequence int) string {
	return fmt.Sprintf("ORD-%s-%06d", prefix, sequence)
}

// SequenceFromNumber extracts the numeric suffix of an order number.
// Numbers without a numeric suffix count as 0 so they never win a max
// computation.
func SequenceFromNumber(orderNumber string) int {
	idx := strings.LastIndex(orderNumber, "-")
	if idx < 0 || idx+1 >= len(orderNumber) {
		return 0
	}
	seq, err := strconv.Atoi(orderNumber[idx+1:])
	if err != nil || seq < 0 {
		return 0
	}
	return seq
}
