package parser

import (
	"regexp"
	"strconv"
	"strings"

	"payment-offers-service/internal/model"
)

// The upstream API does not document its offer text format, so these patterns
// are best-effort heuristics. Each rule is an independent compiled regexp with
// fixed precedence; a miss yields the stated default, never an error.
var (
	// "10%", "7.5 %"
	percentValuePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

	// "₹500", "₹ 1,500"
	rupeeValuePattern = regexp.MustCompile(`₹\s*(\d+(?:,\d+)?)`)

	// "Min order value ₹999", "minimum ₹1,000" — qualifier words are optional
	minAmountPattern = regexp.MustCompile(`(?i)min(?:imum)?\s*(?:order)?\s*(?:value)?\s*₹?\s*(\d+(?:,\d+)?)`)

	// "up to ₹150", "upto ₹150", "maximum ₹1,000"
	maxDiscountPattern = regexp.MustCompile(`(?i)(?:up\s*to|upto|max(?:imum)?)\s*₹\s*(\d+(?:,\d+)?)`)
)

// ClassifyDiscountType infers the discount type from an offer's short text.
// Rules are checked in fixed order: a percent sign wins over the word
// "cashback", which wins over a rupee sign. Anything else is UNKNOWN.
func ClassifyDiscountType(offerText string) model.DiscountType {
	text := strings.ToLower(offerText)

	switch {
	case strings.Contains(text, "%"):
		return model.DiscountPercentage
	case strings.Contains(text, "cashback"):
		return model.DiscountCashback
	case strings.Contains(text, "₹"):
		return model.DiscountFlat
	default:
		return model.DiscountUnknown
	}
}

// ExtractDiscountValue pulls the discount value out of the offer's short text
// and long description. A percentage match takes priority over a rupee amount
// regardless of position. Returns 0 when neither pattern matches.
func ExtractDiscountValue(offerText, offerDescription string) float64 {
	text := strings.ToLower(offerText + " " + offerDescription)

	if m := percentValuePattern.FindStringSubmatch(text); m != nil {
		return parseAmount(m[1])
	}
	if m := rupeeValuePattern.FindStringSubmatch(text); m != nil {
		return parseAmount(m[1])
	}
	return 0
}

// ExtractMinAmount pulls the minimum spend threshold out of an offer
// description. Returns 0 when the description states no minimum.
func ExtractMinAmount(description string) float64 {
	if m := minAmountPattern.FindStringSubmatch(description); m != nil {
		return parseAmount(m[1])
	}
	return 0
}

// ExtractMaxDiscount pulls the discount cap out of an offer description.
// Returns nil when the description states no cap.
func ExtractMaxDiscount(description string) *float64 {
	if m := maxDiscountPattern.FindStringSubmatch(description); m != nil {
		v := parseAmount(m[1])
		return &v
	}
	return nil
}

// parseAmount converts a matched numeric group to a float64, stripping
// thousands separators. Matches are digit-only by construction, so a parse
// failure degrades to 0.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}
