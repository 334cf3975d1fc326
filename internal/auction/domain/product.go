package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/cristianortiz/auctionSettlement/internal/shared/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// ProductStatus is the lifecycle state of an auctioned product.
type ProductStatus string

const (
	StatusAvailable ProductStatus = "available"
	StatusReserved  ProductStatus = "reserved"
	StatusSold      ProductStatus = "sold"
	StatusExpired   ProductStatus = "expired"
)

// AllowedStatuses lists every valid ProductStatus.
func AllowedStatuses() []ProductStatus {
	return []ProductStatus{StatusAvailable, StatusReserved, StatusSold, StatusExpired}
}

// Validate returns ErrInvalidStatus unless s is one of AllowedStatuses.
func (s ProductStatus) Validate() error {
	return validateStatus(s)
}

// ParseProductStatus converts user input into a ProductStatus. An empty string
// means the default, available.
func ParseProductStatus(raw string) (ProductStatus, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return StatusAvailable, nil
	}
	status := ProductStatus(raw)
	if err := validateStatus(status); err != nil {
		return "", err
	}
	return status, nil
}

// Product is the auctioned item. Status and winning bid are only changed
// through SetStatus and ApplyWinningBid so the enum invariant always holds.
type Product struct {
	ID           int64 // zero until persisted
	Name         string
	ReservePrice decimal.Decimal
	ExpiresAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	status     ProductStatus
	winningBid *Bid
}

func NewProduct(name string, reservePrice decimal.Decimal, status ProductStatus) (*Product, error) {
	return RestoreProduct(0, name, reservePrice, status, nil, nil, time.Time{}, time.Time{})
}

// RestoreProduct rebuilds a stored product with the same checks NewProduct applies.
func RestoreProduct(
	id int64,
	name string,
	reservePrice decimal.Decimal,
	status ProductStatus,
	expiresAt *time.Time,
	winningBid *Bid,
	createdAt, updatedAt time.Time,
) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidProductName
	}
	reserve, err := validateReservePrice(reservePrice)
	if err != nil {
		return nil, err
	}
	if err := validateStatus(status); err != nil {
		return nil, err
	}
	return &Product{
		ID:           id,
		Name:         name,
		ReservePrice: reserve,
		ExpiresAt:    expiresAt,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		status:       status,
		winningBid:   winningBid,
	}, nil
}

func (p *Product) Status() ProductStatus {
	return p.status
}

func (p *Product) WinningBid() *Bid {
	return p.winningBid
}

func (p *Product) IsAvailable() bool {
	return p.status == StatusAvailable
}

// SetStatus changes the status, rejecting anything outside the enumeration.
func (p *Product) SetStatus(status ProductStatus) error {
	if err := validateStatus(status); err != nil {
		log.Warn("Rejected product status change",
			zap.Int64("productID", p.ID),
			zap.String("status", string(status)),
		)
		return err
	}
	p.status = status
	return nil
}

// SetExpiration sets or clears the auction expiration time.
func (p *Product) SetExpiration(expiresAt *time.Time) {
	p.ExpiresAt = expiresAt
}

// ApplyWinningBid records the winner and marks the product sold. It trusts the
// caller already ran DetermineWinner; applying the same bid twice is a no-op.
func (p *Product) ApplyWinningBid(bid *Bid) {
	p.winningBid = bid
	p.status = StatusSold

	log.Info("Product sold",
		zap.Int64("productID", p.ID),
		zap.Int64("winningBidID", bid.ID),
		zap.Int64("winnerUserID", bid.UserID),
	)
}

// Clone returns a copy that shares no mutable state with p.
func (p *Product) Clone() *Product {
	c := *p
	if p.ExpiresAt != nil {
		t := *p.ExpiresAt
		c.ExpiresAt = &t
	}
	if p.winningBid != nil {
		b := *p.winningBid
		c.winningBid = &b
	}
	return &c
}

func validateStatus(status ProductStatus) error {
	for _, allowed := range AllowedStatuses() {
		if status == allowed {
			return nil
		}
	}
	return ErrInvalidStatus
}

func validateReservePrice(price decimal.Decimal) (decimal.Decimal, error) {
	normalized := NormalizeAmount(price)
	if normalized.IsNegative() {
		return decimal.Zero, ErrInvalidReservePrice
	}
	if exceedsMax(normalized) {
		return decimal.Zero, fmt.Errorf("%w: at most %s", ErrInvalidReservePrice, MaxAmount.StringFixed(MonetaryPrecision))
	}
	return normalized, nil
}
