package domain

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// AuctionOutcome is the result of settling a sealed-bid auction.
type AuctionOutcome struct {
	Winner        *Bid
	ClearingPrice decimal.Decimal
}

// DetermineWinner settles a second-price sealed-bid auction with a reserve.
//
// Bids below the reserve are discarded; if nothing is left it fails with
// ErrNoEligibleBids. The rest are ranked by amount (highest first) and then by
// id (lowest first, unassigned ids last). The top bid wins. The winner pays the
// amount of the best bid placed by a different party, or the reserve price when
// the winner's party holds every eligible bid. The winner's own lower bids never
// set the price.
//
// The function has no side effects: neither the slice nor the bids are modified.
func DetermineWinner(bids []*Bid, product *Product) (*AuctionOutcome, error) {
	reserve := product.ReservePrice

	eligible := make([]*Bid, 0, len(bids))
	for _, bid := range bids {
		if bid != nil && bid.Amount().GreaterThanOrEqual(reserve) {
			eligible = append(eligible, bid)
		}
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligibleBids
	}

	slices.SortStableFunc(eligible, rankBids)
	winner := eligible[0]

	clearingPrice := reserve
	for _, bid := range eligible {
		if bid.UserID != winner.UserID {
			clearingPrice = bid.Amount()
			break
		}
	}

	return &AuctionOutcome{Winner: winner, ClearingPrice: clearingPrice}, nil
}

// rankBids orders by amount desc, then id asc with unassigned ids last.
func rankBids(a, b *Bid) int {
	if c := b.Amount().Cmp(a.Amount()); c != 0 {
		return c
	}
	switch {
	case a.HasID() && b.HasID():
		return cmp.Compare(a.ID, b.ID)
	case a.HasID():
		return -1
	case b.HasID():
		return 1
	}
	return 0
}
