package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrNoData              = errors.New("no price data returned")
	ErrInsufficientHistory = errors.New("insufficient history for rolling window")
	ErrDegenerateStats     = errors.New("rolling standard deviation is zero")
	ErrInvalidFormula      = errors.New("invalid spread formula")
	ErrStoreUnavailable    = errors.New("transaction log store unavailable")
	ErrFeedUnavailable     = errors.New("price feed unavailable")
)
