package application

import (
	"errors"

	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
	userdomain "github.com/cristianortiz/auctionSettlement/internal/user/domain"
)

var errorCodes = map[error]string{
	domain.ErrInvalidAmount:       "invalid_amount",
	domain.ErrInvalidStatus:       "invalid_status",
	domain.ErrInvalidReservePrice: "invalid_reserve_price",
	domain.ErrInvalidProductName:  "invalid_product_name",
	domain.ErrProductNotFound:     "product_not_found",
	domain.ErrBidNotFound:         "bid_not_found",
	domain.ErrNoBidsForProduct:    "no_bids",
	domain.ErrNoEligibleBids:      "no_eligible_bids",
	domain.ErrProductNotAvailable: "product_not_available",
	userdomain.ErrInvalidUserID:   "invalid_user_id",
	userdomain.ErrUserNotFound:    "user_not_found",
}

// Cause returns the expected failure wrapped in err (auction or user module),
// or nil for infrastructure errors.
func Cause(err error) error {
	if cause := domain.Cause(err); cause != nil {
		return cause
	}
	for _, known := range []error{userdomain.ErrInvalidUserID, userdomain.ErrUserNotFound} {
		if errors.Is(err, known) {
			return known
		}
	}
	return nil
}

// ErrorCode is the stable machine-readable name of err's cause, or "internal".
func ErrorCode(err error) string {
	if code, ok := errorCodes[Cause(err)]; ok {
		return code
	}
	return "internal"
}
