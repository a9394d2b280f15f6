package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"payment-offers-service/internal/calculator"
	"payment-offers-service/internal/model"
	"payment-offers-service/internal/parser"
)

// OfferRepositoryInterface defines the interface for offer data access.
type OfferRepositoryInterface interface {
	Exists(ctx context.Context, offerID string) (bool, error)
	Insert(ctx context.Context, offer *model.Offer) error
	GetAll(ctx context.Context) ([]model.Offer, error)
	GetByBank(ctx context.Context, bankName string) ([]model.Offer, error)
	GetByBankAndInstrument(ctx context.Context, bankName string, instrument model.PaymentInstrument) ([]model.Offer, error)
}

// OfferService provides business logic for offer ingestion and discount
// queries. Parsing and discount math are pure functions; the service only
// adds store coordination around them.
type OfferService struct {
	repo OfferRepositoryInterface
}

// NewOfferService creates a new OfferService with the given repository.
func NewOfferService(repo OfferRepositoryInterface) *OfferService {
	return &OfferService{repo: repo}
}

// IngestOffers extracts offers from a raw payment-options payload and stores
// the ones not already present, deduplicated by offerId. It reports how many
// offers the payload contained and how many were newly stored.
// Returns ErrInvalidRequest when the payload is absent.
func (s *OfferService) IngestOffers(ctx context.Context, payload map[string]any) (*model.CreateOffersResponse, error) {
	if payload == nil {
		return nil, ErrInvalidRequest
	}

	offers := parser.ExtractOffers(payload)

	created := 0
	for i := range offers {
		exists, err := s.repo.Exists(ctx, offers[i].OfferID)
		if err != nil {
			return nil, fmt.Errorf("check offer exists: %w", err)
		}
		if exists {
			continue
		}

		err = s.repo.Insert(ctx, &offers[i])
		if errors.Is(err, ErrOfferExists) {
			// Lost a race with a concurrent ingest; the offer is stored either way.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("insert offer: %w", err)
		}
		created++
	}

	log.Info().
		Int("offers_identified", len(offers)).
		Int("offers_created", created).
		Msg("payload ingested")

	return &model.CreateOffersResponse{
		NoOfOffersIdentified: len(offers),
		NoOfNewOffersCreated: created,
	}, nil
}

// HighestDiscount returns the largest discount any stored offer yields for
// the given amount, bank, and optional payment instrument. No matching offer
// yields 0.
// Returns ErrInvalidAmount for a non-positive amount and ErrInvalidRequest
// for a blank bank name.
func (s *OfferService) HighestDiscount(ctx context.Context, amountToPay float64, bankName string, instrument model.PaymentInstrument) (float64, error) {
	// Defense-in-depth: the handler validates, but the core rejects bad
	// query input explicitly rather than coercing it.
	if amountToPay <= 0 {
		return 0, ErrInvalidAmount
	}
	if strings.TrimSpace(bankName) == "" {
		return 0, ErrInvalidRequest
	}

	var offers []model.Offer
	var err error
	if instrument != "" {
		offers, err = s.repo.GetByBankAndInstrument(ctx, bankName, instrument)
	} else {
		offers, err = s.repo.GetByBank(ctx, bankName)
	}
	if err != nil {
		return 0, fmt.Errorf("get offers: %w", err)
	}

	best := calculator.FindBestOffer(offers, amountToPay)

	event := log.Info().
		Str("bank_name", bankName).
		Float64("amount_to_pay", amountToPay).
		Int("candidate_offers", len(offers)).
		Float64("highest_discount", best.Amount)
	if best.Offer != nil {
		event = event.Str("offer_id", best.Offer.OfferID)
	}
	event.Msg("highest discount computed")

	return best.Amount, nil
}

// ListOffers retrieves every stored offer.
func (s *OfferService) ListOffers(ctx context.Context) ([]model.Offer, error) {
	offers, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get offers: %w", err)
	}
	return offers, nil
}
