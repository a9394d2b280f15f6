package service

import "errors"

var (
	// ErrOfferExists is returned when inserting an offer whose offerId is already stored
	ErrOfferExists = errors.New("offer already exists")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidAmount is returned when a discount query carries a non-positive amount
	ErrInvalidAmount = errors.New("amount must be a positive number")
)
