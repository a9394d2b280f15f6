package model

// DiscountType classifies how an offer's discount is computed.
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFlat       DiscountType = "FLAT"
	DiscountCashback   DiscountType = "CASHBACK"
	DiscountUnknown    DiscountType = "UNKNOWN"
)

// PaymentInstrument is the payment method category an offer applies to.
type PaymentInstrument string

const (
	InstrumentCredit     PaymentInstrument = "CREDIT"
	InstrumentEMI        PaymentInstrument = "EMI_OPTIONS"
	InstrumentUPICollect PaymentInstrument = "UPI_COLLECT"
)

// Offer is a normalized promotional offer extracted from the upstream
// payment-options response. Offers are immutable once created; the store
// deduplicates them by OfferID.
type Offer struct {
	OfferID            string              `json:"offerId"`
	Providers          []string            `json:"providers"`
	Logo               string              `json:"logo"`
	OfferText          string              `json:"offerText"`
	OfferDescription   string              `json:"offerDescription"`
	OfferTerms         string              `json:"offerTerms"`
	DiscountType       DiscountType        `json:"discountType"`
	DiscountValue      float64             `json:"discountValue"`
	MinAmount          float64             `json:"minAmount"`
	MaxDiscount        *float64            `json:"maxDiscount,omitempty"` // nil = uncapped
	PaymentInstruments []PaymentInstrument `json:"paymentInstruments"`
}

// PaymentInstrumentInfo is payment-option metadata collected from the upstream
// payload during a single extraction pass. It is never persisted; it only
// informs instrument classification.
type PaymentInstrumentInfo struct {
	Type       string
	Applicable bool
	BankCodes  []string
}

// CreateOffersRequest is the DTO for POST /offer.
type CreateOffersRequest struct {
	FlipkartOfferAPIResponse map[string]any `json:"flipkartOfferApiResponse"`
}

// CreateOffersResponse reports how many offers the payload contained and how
// many were not already stored.
type CreateOffersResponse struct {
	NoOfOffersIdentified int `json:"noOfOffersIdentified"`
	NoOfNewOffersCreated int `json:"noOfNewOffersCreated"`
}

// HighestDiscountQuery is the query DTO for GET /highest-discount.
// PaymentInstrument is optional; when set it must be a valid instrument code.
type HighestDiscountQuery struct {
	AmountToPay       float64 `query:"amountToPay" validate:"required,gt=0"`
	BankName          string  `query:"bankName" validate:"required,notblank,max=255"`
	PaymentInstrument string  `query:"paymentInstrument" validate:"omitempty,oneof=CREDIT EMI_OPTIONS UPI_COLLECT"`
}

// HighestDiscountResponse is the response DTO for GET /highest-discount.
type HighestDiscountResponse struct {
	HighestDiscountAmount float64 `json:"highestDiscountAmount"`
}

// ListOffersResponse is the response DTO for GET /offers.
type ListOffersResponse struct {
	Count  int     `json:"count"`
	Offers []Offer `json:"offers"`
}
