package order

import (
	"regexp"
	"strconv"
)

// offerPattern recognizes "buy+free" rules such as "5+1" or "6 + 2" anywhere
// in the offer text. Text without the pattern has no offer effect.
var offerPattern = regexp.MustCompile(`(\d+)\s*\+\s*(\d+)`)

// ComputeBonus parses a free-form offer text and returns the bonus quantity
// earned for purchasedQty units. Bonuses scale with every full multiple of
// the buy threshold: "5+1" with 12 bought grants 2 free units. Malformed
// text, a zero buy threshold or a quantity below the threshold grant
// nothing.
func ComputeBonus(offerText string, purchasedQty int) int {
	match := offerPattern.FindStringSubmatch(offerText)
	if match == nil {
		return 0
	}
	buyQty, _ := strconv.Atoi(match[1])
	freeQty, _ := strconv.Atoi(match[2])
	if buyQty <= 0 || purchasedQty < buyQty {
		return 0
	}
	return purchasedQty / buyQty * freeQty
}
