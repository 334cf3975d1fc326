package domain

import "errors"

var (
	ErrInvalidAmount       = errors.New("bid amount must be greater than zero")
	ErrInvalidStatus       = errors.New("invalid product status")
	ErrInvalidReservePrice = errors.New("reserve price cannot be negative")
	ErrInvalidProductName  = errors.New("product name cannot be empty")
	ErrProductNotFound     = errors.New("product not found")
	ErrBidNotFound         = errors.New("bid not found")
	ErrNoBidsForProduct    = errors.New("no bids for this product")
	ErrNoEligibleBids      = errors.New("no bids meet the reserve price")
	ErrProductNotAvailable = errors.New("product is not available for bidding")
)

var knownErrors = []error{
	ErrInvalidAmount,
	ErrInvalidStatus,
	ErrInvalidReservePrice,
	ErrInvalidProductName,
	ErrProductNotFound,
	ErrBidNotFound,
	ErrNoBidsForProduct,
	ErrNoEligibleBids,
	ErrProductNotAvailable,
}

// Cause returns the domain error wrapped somewhere in err's chain, or nil if
// err is not a domain failure (db outage, bad wiring, etc).
func Cause(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return known
		}
	}
	return nil
}
