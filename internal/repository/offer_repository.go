package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"payment-offers-service/internal/model"
	"payment-offers-service/internal/service"
)

// PoolInterface defines the database operations needed by the repository.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// OfferRepository provides data access for normalized offers using pgx.
type OfferRepository struct {
	pool PoolInterface
}

// NewOfferRepository creates a new OfferRepository with the given pool.
func NewOfferRepository(pool *pgxpool.Pool) *OfferRepository {
	return &OfferRepository{pool: pool}
}

// NewOfferRepositoryWithPool creates a new OfferRepository with a custom pool
// interface. This is primarily used for testing.
func NewOfferRepositoryWithPool(pool PoolInterface) *OfferRepository {
	return &OfferRepository{pool: pool}
}

const offerColumns = `offer_id, providers, logo, offer_text, offer_description, offer_terms,
	discount_type, discount_value, min_amount, max_discount, payment_instruments`

// Exists reports whether an offer with the given id is already stored.
func (r *OfferRepository) Exists(ctx context.Context, offerID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM offers WHERE offer_id = $1)`, offerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check offer %s exists: %w", offerID, err)
	}
	return exists, nil
}

// Insert inserts a new offer. Offers are append-only; the offer_id primary
// key makes the store the last line of deduplication.
// Returns service.ErrOfferExists when the offer is already stored.
func (r *OfferRepository) Insert(ctx context.Context, offer *model.Offer) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO offers (`+offerColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		offer.OfferID,
		offer.Providers,
		offer.Logo,
		offer.OfferText,
		offer.OfferDescription,
		offer.OfferTerms,
		string(offer.DiscountType),
		offer.DiscountValue,
		offer.MinAmount,
		offer.MaxDiscount,
		instrumentsToStrings(offer.PaymentInstruments),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrOfferExists
		}
		return fmt.Errorf("insert offer %s: %w", offer.OfferID, err)
	}
	return nil
}

// GetAll retrieves every stored offer in insertion order.
func (r *OfferRepository) GetAll(ctx context.Context) ([]model.Offer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+offerColumns+` FROM offers ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("get all offers: %w", err)
	}
	return scanOffers(rows)
}

// GetByBank retrieves offers whose providers contain bankName as a
// case-insensitive substring. Offers with no providers (generic offers)
// never match a bank filter.
func (r *OfferRepository) GetByBank(ctx context.Context, bankName string) ([]model.Offer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+offerColumns+` FROM offers
		 WHERE EXISTS (
			SELECT 1 FROM unnest(providers) AS p WHERE p ILIKE '%' || $1 || '%'
		 )
		 ORDER BY created_at`, bankName)
	if err != nil {
		return nil, fmt.Errorf("get offers for bank %s: %w", bankName, err)
	}
	return scanOffers(rows)
}

// GetByBankAndInstrument retrieves offers matching the bank filter that also
// apply to the given payment instrument.
func (r *OfferRepository) GetByBankAndInstrument(ctx context.Context, bankName string, instrument model.PaymentInstrument) ([]model.Offer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+offerColumns+` FROM offers
		 WHERE EXISTS (
			SELECT 1 FROM unnest(providers) AS p WHERE p ILIKE '%' || $1 || '%'
		 )
		 AND $2 = ANY(payment_instruments)
		 ORDER BY created_at`, bankName, string(instrument))
	if err != nil {
		return nil, fmt.Errorf("get offers for bank %s instrument %s: %w", bankName, instrument, err)
	}
	return scanOffers(rows)
}

// scanOffers drains rows into offers. On success, returns an empty slice
// (not nil) when no offers match.
func scanOffers(rows pgx.Rows) ([]model.Offer, error) {
	defer rows.Close()

	offers := []model.Offer{}
	for rows.Next() {
		var offer model.Offer
		var discountType string
		var instruments []string
		err := rows.Scan(
			&offer.OfferID,
			&offer.Providers,
			&offer.Logo,
			&offer.OfferText,
			&offer.OfferDescription,
			&offer.OfferTerms,
			&discountType,
			&offer.DiscountValue,
			&offer.MinAmount,
			&offer.MaxDiscount,
			&instruments,
		)
		if err != nil {
			return nil, fmt.Errorf("scan offer row: %w", err)
		}
		offer.DiscountType = model.DiscountType(discountType)
		offer.PaymentInstruments = stringsToInstruments(instruments)
		offers = append(offers, offer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offer rows: %w", err)
	}
	return offers, nil
}

func instrumentsToStrings(instruments []model.PaymentInstrument) []string {
	out := make([]string, len(instruments))
	for i, instrument := range instruments {
		out[i] = string(instrument)
	}
	return out
}

func stringsToInstruments(values []string) []model.PaymentInstrument {
	out := make([]model.PaymentInstrument, len(values))
	for i, v := range values {
		out[i] = model.PaymentInstrument(v)
	}
	return out
}
