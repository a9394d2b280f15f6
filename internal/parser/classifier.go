package parser

import (
	"strings"

	"payment-offers-service/internal/model"
)

// ClassifyInstruments determines which payment instruments an offer applies
// to, given the payment-option metadata collected from the same payload.
//
// This mirrors the upstream eligibility rules only approximately; real
// eligibility is more involved than provider-name matching, and the upstream
// acknowledges as much. Rules, in order:
//
//  1. An offer with no providers is a generic offer and applies to UPI collect
//     only.
//  2. A provider naming a "BANK" or "CARD" makes the offer card-applicable.
//  3. EMI applies when the payload advertises an applicable EMI_OPTIONS
//     instrument and the offer names a "BANK" provider.
func ClassifyInstruments(offer model.Offer, infos []model.PaymentInstrumentInfo) []model.PaymentInstrument {
	if len(offer.Providers) == 0 {
		return []model.PaymentInstrument{model.InstrumentUPICollect}
	}

	instruments := []model.PaymentInstrument{}

	if anyProviderContains(offer.Providers, "BANK") || anyProviderContains(offer.Providers, "CARD") {
		instruments = append(instruments, model.InstrumentCredit)
	}

	if hasApplicableEMI(infos) && anyProviderContains(offer.Providers, "BANK") {
		instruments = append(instruments, model.InstrumentEMI)
	}

	return instruments
}

// anyProviderContains reports whether any provider name contains the given
// substring. Provider codes are upper-case upstream, so matching is
// case-sensitive on purpose.
func anyProviderContains(providers []string, substr string) bool {
	for _, p := range providers {
		if strings.Contains(p, substr) {
			return true
		}
	}
	return false
}

func hasApplicableEMI(infos []model.PaymentInstrumentInfo) bool {
	for _, info := range infos {
		if info.Type == string(model.InstrumentEMI) && info.Applicable {
			return true
		}
	}
	return false
}
