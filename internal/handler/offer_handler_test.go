package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-offers-service/internal/model"
	"payment-offers-service/internal/service"
	"payment-offers-service/internal/validator"
)

// mockOfferService is a mock implementation of OfferServiceInterface.
type mockOfferService struct {
	ingestOffersFn    func(ctx context.Context, payload map[string]any) (*model.CreateOffersResponse, error)
	highestDiscountFn func(ctx context.Context, amountToPay float64, bankName string, instrument model.PaymentInstrument) (float64, error)
	listOffersFn      func(ctx context.Context) ([]model.Offer, error)
}

func (m *mockOfferService) IngestOffers(ctx context.Context, payload map[string]any) (*model.CreateOffersResponse, error) {
	if m.ingestOffersFn != nil {
		return m.ingestOffersFn(ctx, payload)
	}
	return &model.CreateOffersResponse{}, nil
}

func (m *mockOfferService) HighestDiscount(ctx context.Context, amountToPay float64, bankName string, instrument model.PaymentInstrument) (float64, error) {
	if m.highestDiscountFn != nil {
		return m.highestDiscountFn(ctx, amountToPay, bankName, instrument)
	}
	return 0, nil
}

func (m *mockOfferService) ListOffers(ctx context.Context) ([]model.Offer, error) {
	if m.listOffersFn != nil {
		return m.listOffersFn(ctx)
	}
	return []model.Offer{}, nil
}

func setupTestApp(mockSvc *mockOfferService) *fiber.App {
	app := fiber.New()
	h := NewOfferHandler(mockSvc, validator.New())
	app.Post("/offer", h.CreateOffers)
	app.Get("/highest-discount", h.HighestDiscount)
	app.Get("/offers", h.ListOffers)
	return app
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result["error"]
}

func TestCreateOffers_Success(t *testing.T) {
	var capturedPayload map[string]any
	mockSvc := &mockOfferService{
		ingestOffersFn: func(ctx context.Context, payload map[string]any) (*model.CreateOffersResponse, error) {
			capturedPayload = payload
			return &model.CreateOffersResponse{NoOfOffersIdentified: 3, NoOfNewOffersCreated: 2}, nil
		},
	}
	app := setupTestApp(mockSvc)

	body := `{"flipkartOfferApiResponse": {"paymentOptions": {"items": []}}}`
	req := httptest.NewRequest(http.MethodPost, "/offer", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, capturedPayload)
	assert.Contains(t, capturedPayload, "paymentOptions")

	var result model.CreateOffersResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 3, result.NoOfOffersIdentified)
	assert.Equal(t, 2, result.NoOfNewOffersCreated)
}

func TestCreateOffers_InvalidJSONBody(t *testing.T) {
	app := setupTestApp(&mockOfferService{})

	req := httptest.NewRequest(http.MethodPost, "/offer", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request body", decodeError(t, resp))
}

func TestCreateOffers_MissingPayload(t *testing.T) {
	app := setupTestApp(&mockOfferService{})

	req := httptest.NewRequest(http.MethodPost, "/offer", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "flipkartOfferApiResponse is required", decodeError(t, resp))
}

func TestCreateOffers_ServiceError(t *testing.T) {
	mockSvc := &mockOfferService{
		ingestOffersFn: func(ctx context.Context, payload map[string]any) (*model.CreateOffersResponse, error) {
			return nil, errors.New("database connection failed")
		},
	}
	app := setupTestApp(mockSvc)

	body := `{"flipkartOfferApiResponse": {}}`
	req := httptest.NewRequest(http.MethodPost, "/offer", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal server error", decodeError(t, resp))
}

func TestHighestDiscount_Success(t *testing.T) {
	mockSvc := &mockOfferService{
		highestDiscountFn: func(ctx context.Context, amountToPay float64, bankName string, instrument model.PaymentInstrument) (float64, error) {
			assert.Equal(t, float64(10000), amountToPay)
			assert.Equal(t, "AXIS", bankName)
			assert.Equal(t, model.PaymentInstrument(""), instrument)
			return 500, nil
		},
	}
	app := setupTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/highest-discount?amountToPay=10000&bankName=AXIS", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result model.HighestDiscountResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, float64(500), result.HighestDiscountAmount)
}

func TestHighestDiscount_WithInstrumentFilter(t *testing.T) {
	var capturedInstrument model.PaymentInstrument
	mockSvc := &mockOfferService{
		highestDiscountFn: func(ctx context.Context, amountToPay float64, bankName string, instrument model.PaymentInstrument) (float64, error) {
			capturedInstrument = instrument
			return 120.5, nil
		},
	}
	app := setupTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/highest-discount?amountToPay=5000&bankName=AXIS&paymentInstrument=CREDIT", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, model.InstrumentCredit, capturedInstrument)
}

func TestHighestDiscount_MissingAmount(t *testing.T) {
	app := setupTestApp(&mockOfferService{})

	req := httptest.NewRequest(http.MethodGet, "/highest-discount?bankName=AXIS", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: amountToPay is required", decodeError(t, resp))
}

func TestHighestDiscount_NegativeAmount(t *testing.T) {
	app := setupTestApp(&mockOfferService{})

	req := httptest.NewRequest(http.MethodGet, "/highest-discount?amountToPay=-10&bankName=AXIS", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: amountToPay must be a positive number", decodeError(t, resp))
}

func TestHighestDiscount_NonNumericAmount(t *testing.T) {
	app := setupTestApp(&mockOfferService{})

	req := httptest.NewRequest(http.MethodGet, "/highest-discount?amountToPay=abc&bankName=AXIS", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid query parameters", decodeError(t, resp))
}

func TestHighestDiscount_MissingBankName(t *testing.T) {
	app := setupTestApp(&mockOfferService{})

	req := httptest.NewRequest(http.MethodGet, "/highest-discount?amountToPay=1000", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: bankName is required", decodeError(t, resp))
}

func TestHighestDiscount_InvalidInstrument(t *testing.T) {
	app := setupTestApp(&mockOfferService{})

	req := httptest.NewRequest(http.MethodGet, "/highest-discount?amountToPay=1000&bankName=AXIS&paymentInstrument=CHEQUE", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: paymentInstrument must be one of CREDIT, EMI_OPTIONS, UPI_COLLECT", decodeError(t, resp))
}

func TestHighestDiscount_ServiceRejectsAmount(t *testing.T) {
	// Defense-in-depth path: the service re-validates even when the handler
	// let a value through.
	mockSvc := &mockOfferService{
		highestDiscountFn: func(ctx context.Context, amountToPay float64, bankName string, instrument model.PaymentInstrument) (float64, error) {
			return 0, service.ErrInvalidAmount
		},
	}
	app := setupTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/highest-discount?amountToPay=1000&bankName=AXIS", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, service.ErrInvalidAmount.Error(), decodeError(t, resp))
}

func TestHighestDiscount_ServiceError(t *testing.T) {
	mockSvc := &mockOfferService{
		highestDiscountFn: func(ctx context.Context, amountToPay float64, bankName string, instrument model.PaymentInstrument) (float64, error) {
			return 0, errors.New("database connection failed")
		},
	}
	app := setupTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/highest-discount?amountToPay=1000&bankName=AXIS", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestListOffers_Success(t *testing.T) {
	mockSvc := &mockOfferService{
		listOffersFn: func(ctx context.Context) ([]model.Offer, error) {
			return []model.Offer{
				{OfferID: "AXIS10", DiscountType: model.DiscountPercentage, DiscountValue: 10},
				{OfferID: "UPI50", DiscountType: model.DiscountCashback, DiscountValue: 50},
			}, nil
		},
	}
	app := setupTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/offers", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result model.ListOffersResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Offers, 2)
	assert.Equal(t, "AXIS10", result.Offers[0].OfferID)
}

func TestListOffers_Empty(t *testing.T) {
	app := setupTestApp(&mockOfferService{})

	req := httptest.NewRequest(http.MethodGet, "/offers", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result model.ListOffersResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Zero(t, result.Count)
}

func TestListOffers_ServiceError(t *testing.T) {
	mockSvc := &mockOfferService{
		listOffersFn: func(ctx context.Context) ([]model.Offer, error) {
			return nil, errors.New("database connection failed")
		},
	}
	app := setupTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/offers", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal server error", decodeError(t, resp))
}
