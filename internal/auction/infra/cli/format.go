package cli

import (
	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(domain.MonetaryPrecision)
}
