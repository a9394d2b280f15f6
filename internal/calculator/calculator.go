// Package calculator computes the discount an offer yields for a payment
// amount and selects the best offer from a candidate set. All functions are
// pure and deterministic for a given input sequence.
package calculator

import (
	"math"

	"payment-offers-service/internal/model"
)

// BestOffer is the result of a best-offer search. Offer is nil when no
// candidate yields a discount greater than zero.
type BestOffer struct {
	Amount float64
	Offer  *model.Offer
}

// ComputeDiscount returns the discount the offer yields for amountToPay,
// rounded half-away-from-zero to 2 decimal places. An amount below the
// offer's minimum spend yields 0. The computed discount is clamped to the
// offer's cap when one is set.
//
// Offers with an UNKNOWN discount type fall back to a compatibility
// heuristic: a value strictly between 0 and 100 is treated as a percentage,
// anything else as a flat amount. This can misread a small flat offer
// (e.g. ₹50 off) as a percentage; kept as-is to match upstream behavior.
func ComputeDiscount(offer model.Offer, amountToPay float64) float64 {
	if amountToPay < offer.MinAmount {
		return 0
	}

	var discount float64
	switch offer.DiscountType {
	case model.DiscountPercentage:
		discount = amountToPay * offer.DiscountValue / 100
	case model.DiscountFlat, model.DiscountCashback:
		discount = offer.DiscountValue
	default:
		if offer.DiscountValue > 0 && offer.DiscountValue < 100 {
			discount = amountToPay * offer.DiscountValue / 100
		} else {
			discount = offer.DiscountValue
		}
	}

	if offer.MaxDiscount != nil && discount > *offer.MaxDiscount {
		discount = *offer.MaxDiscount
	}

	return math.Round(discount*100) / 100
}

// FindBestOffer computes the discount for every offer and returns the
// maximum. Comparison is strictly greater-than, so the first offer in input
// order wins ties.
func FindBestOffer(offers []model.Offer, amountToPay float64) BestOffer {
	best := BestOffer{}
	for i := range offers {
		discount := ComputeDiscount(offers[i], amountToPay)
		if discount > best.Amount {
			best.Amount = discount
			best.Offer = &offers[i]
		}
	}
	return best
}
