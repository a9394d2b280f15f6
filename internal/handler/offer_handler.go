package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"payment-offers-service/internal/model"
	"payment-offers-service/internal/service"
)

// OfferServiceInterface defines the interface for offer business logic.
type OfferServiceInterface interface {
	IngestOffers(ctx context.Context, payload map[string]any) (*model.CreateOffersResponse, error)
	HighestDiscount(ctx context.Context, amountToPay float64, bankName string, instrument model.PaymentInstrument) (float64, error)
	ListOffers(ctx context.Context) ([]model.Offer, error)
}

// OfferHandler handles HTTP requests for offer operations.
type OfferHandler struct {
	service   OfferServiceInterface
	validator *validator.Validate
}

// NewOfferHandler creates a new OfferHandler with the given service and validator.
func NewOfferHandler(svc OfferServiceInterface, v *validator.Validate) *OfferHandler {
	return &OfferHandler{service: svc, validator: v}
}

// formatValidationError converts validator errors to descriptive messages
// matching the query parameter names clients see.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := fe.Field()
			tag := fe.Tag()

			switch field {
			case "AmountToPay":
				if tag == "required" {
					return "invalid request: amountToPay is required"
				}
				return "invalid request: amountToPay must be a positive number"
			case "BankName":
				if tag == "required" || tag == "notblank" {
					return "invalid request: bankName is required"
				}
				return "invalid request: bankName is invalid"
			case "PaymentInstrument":
				return "invalid request: paymentInstrument must be one of CREDIT, EMI_OPTIONS, UPI_COLLECT"
			default:
				if tag == "required" {
					return "invalid request: " + field + " is required"
				}
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}

// CreateOffers handles POST /offer requests. It accepts a raw upstream
// payment-options response and responds with counts of offers identified in
// the payload and offers newly stored.
func (h *OfferHandler) CreateOffers(c *fiber.Ctx) error {
	var req model.CreateOffersRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.FlipkartOfferAPIResponse == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "flipkartOfferApiResponse is required",
		})
	}

	result, err := h.service.IngestOffers(c.Context(), req.FlipkartOfferAPIResponse)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Msg("failed to ingest offers")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(result)
}

// HighestDiscount handles GET /highest-discount requests. The payment
// instrument filter is optional; amount and bank name are required.
func (h *OfferHandler) HighestDiscount(c *fiber.Ctx) error {
	var query model.HighestDiscountQuery

	if err := c.QueryParser(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid query parameters"})
	}

	if err := h.validator.Struct(query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	amount, err := h.service.HighestDiscount(
		c.Context(),
		query.AmountToPay,
		query.BankName,
		model.PaymentInstrument(query.PaymentInstrument),
	)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) || errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		log.Error().Err(err).Str("bank_name", query.BankName).Msg("failed to compute highest discount")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(model.HighestDiscountResponse{HighestDiscountAmount: amount})
}

// ListOffers handles GET /offers requests, returning every stored offer.
func (h *OfferHandler) ListOffers(c *fiber.Ctx) error {
	offers, err := h.service.ListOffers(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list offers")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(model.ListOffersResponse{Count: len(offers), Offers: offers})
}
