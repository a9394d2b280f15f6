// Package parser extracts normalized offers from the upstream payment-options
// API response. The payload is untrusted and only partially documented, so
// navigation is a nil-safe tree walk with defaulting at every step: a missing
// or malformed sub-structure yields an empty result at that point and never
// aborts extraction of well-formed siblings.
package parser

import (
	"payment-offers-service/internal/model"
)

const (
	itemTypeOfferList     = "OFFER_LIST"
	itemTypePaymentOption = "PAYMENT_OPTION"
)

// ExtractOffers walks the full payment-options response and returns every
// offer that could be normalized, in payload order, with applicable payment
// instruments attached. A payload without a recognizable offer list yields an
// empty slice, not an error.
func ExtractOffers(payload map[string]any) []model.Offer {
	items := asSlice(asMap(payload["paymentOptions"])["items"])

	offers := []model.Offer{}
	for _, raw := range asSlice(offerListOf(items)) {
		if offer := normalizeOffer(asMap(raw)); offer != nil {
			offers = append(offers, *offer)
		}
	}

	instruments := collectInstrumentInfos(items)
	for i := range offers {
		offers[i].PaymentInstruments = ClassifyInstruments(offers[i], instruments)
	}

	return offers
}

// offerListOf locates the OFFER_LIST item and returns its nested offer array,
// or nil when absent at any level.
func offerListOf(items []any) any {
	for _, item := range items {
		m := asMap(item)
		if stringField(m, "type") != itemTypeOfferList {
			continue
		}
		return asMap(asMap(asMap(m["data"])["offers"]))["offerList"]
	}
	return nil
}

// normalizeOffer converts one raw offer node into a normalized Offer.
// The offer identifier lives in the nested offerDescription blob; a node
// without one is unrepresentable and returns nil. Every other field defaults
// when absent.
func normalizeOffer(raw map[string]any) *model.Offer {
	description := asMap(raw["offerDescription"])

	offerID := stringField(description, "id")
	if offerID == "" {
		return nil
	}

	offerText := stringField(asMap(raw["offerText"]), "text")
	descriptionText := stringField(description, "text")

	return &model.Offer{
		OfferID:            offerID,
		Providers:          stringSlice(raw["provider"]),
		Logo:               stringField(raw, "logo"),
		OfferText:          offerText,
		OfferDescription:   descriptionText,
		OfferTerms:         stringField(description, "tncText"),
		DiscountType:       ClassifyDiscountType(offerText),
		DiscountValue:      ExtractDiscountValue(offerText, descriptionText),
		MinAmount:          ExtractMinAmount(descriptionText),
		MaxDiscount:        ExtractMaxDiscount(descriptionText),
		PaymentInstruments: []model.PaymentInstrument{},
	}
}

// collectInstrumentInfos scans the item list for PAYMENT_OPTION entries and
// extracts their instrument metadata. Malformed entries are skipped
// individually.
func collectInstrumentInfos(items []any) []model.PaymentInstrumentInfo {
	infos := []model.PaymentInstrumentInfo{}
	for _, item := range items {
		m := asMap(item)
		if stringField(m, "type") != itemTypePaymentOption {
			continue
		}

		data := asMap(m["data"])
		instrumentType := stringField(data, "instrumentType")
		if instrumentType == "" {
			continue
		}

		infos = append(infos, model.PaymentInstrumentInfo{
			Type:       instrumentType,
			Applicable: boolField(data, "applicable"),
			BankCodes:  collectBankCodes(data),
		})
	}
	return infos
}

// collectBankCodes pulls bank codes from a payment option's content.options.
func collectBankCodes(data map[string]any) []string {
	codes := []string{}
	for _, option := range asSlice(asMap(data["content"])["options"]) {
		if code := stringField(asMap(option), "bankCode"); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// Nil-safe accessors: reading from a nil map is legal in Go, so chained
// lookups like asMap(asMap(v)["a"])["b"] stay total on malformed input.

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// stringSlice converts an untyped array to its string members, dropping
// anything that is not a string.
func stringSlice(v any) []string {
	out := []string{}
	for _, el := range asSlice(v) {
		if s, ok := el.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
