package http

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/cristianortiz/auctionSettlement/internal/auction/application"
	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
	"github.com/cristianortiz/auctionSettlement/internal/shared/logger"
	userdomain "github.com/cristianortiz/auctionSettlement/internal/user/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Notifier is told about changes so live subscribers can be updated.
type Notifier interface {
	ProductUpdated(ctx context.Context, productID int64)
	AuctionSettled(result *application.FinishAuctionResult)
}

type noopNotifier struct{}

func (noopNotifier) ProductUpdated(context.Context, int64)           {}
func (noopNotifier) AuctionSettled(*application.FinishAuctionResult) {}

// AuctionHandler exposes the auction use cases over REST.
type AuctionHandler struct {
	auctionService application.AuctionService
	notifier       Notifier
}

// NewAuctionHandler builds the handler; notifier may be nil.
func NewAuctionHandler(auctionService application.AuctionService, notifier Notifier) *AuctionHandler {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &AuctionHandler{auctionService: auctionService, notifier: notifier}
}

func (h *AuctionHandler) RegisterRoutes(router fiber.Router) {
	products := router.Group("/products")
	products.Get("/", h.listProducts)
	products.Post("/", h.createProduct)
	products.Get("/:id", h.getProduct)
	products.Patch("/:id/status", h.updateStatus)
	products.Post("/:id/bids", h.placeBid)
	products.Get("/:id/bids/:bidId", h.getBid)
	products.Post("/:id/settlement", h.finishAuction)
}

type createProductRequest struct {
	Name         string          `json:"name"`
	ReservePrice decimal.Decimal `json:"reserve_price"`
	Status       string          `json:"status"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type placeBidRequest struct {
	UserID int64           `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// bidResponse leaves the amount out; bids stay sealed until settlement.
type bidResponse struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	UserID    int64     `json:"user_id"`
	PlacedAt  time.Time `json:"placed_at"`
}

type settlementResponse struct {
	SettlementID  uuid.UUID       `json:"settlement_id"`
	ProductID     int64           `json:"product_id"`
	Status        string          `json:"status"`
	WinningBidID  int64           `json:"winning_bid_id"`
	WinnerUserID  int64           `json:"winner_user_id"`
	WinningAmount decimal.Decimal `json:"winning_amount"`
	ClearingPrice decimal.Decimal `json:"clearing_price"`
	SettledAt     time.Time       `json:"settled_at"`
}

func (h *AuctionHandler) listProducts(c *fiber.Ctx) error {
	products, err := h.auctionService.ListAvailableProducts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(products)
}

func (h *AuctionHandler) createProduct(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	status, err := domain.ParseProductStatus(req.Status)
	if err != nil {
		return writeError(c, err)
	}
	product, err := h.auctionService.CreateProduct(c.UserContext(), application.CreateProductDTO{
		Name:         req.Name,
		ReservePrice: req.ReservePrice,
		Status:       status,
	})
	if err != nil {
		return writeError(c, err)
	}
	state, err := h.auctionService.GetProduct(c.UserContext(), product.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(state)
}

func (h *AuctionHandler) getProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	state, err := h.auctionService.GetProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(state)
}

func (h *AuctionHandler) updateStatus(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return badRequest(c, "status is required")
	}
	status, err := domain.ParseProductStatus(req.Status)
	if err != nil {
		return writeError(c, err)
	}
	if _, err := h.auctionService.UpdateProductStatus(c.UserContext(), id, status); err != nil {
		return writeError(c, err)
	}
	h.notifier.ProductUpdated(c.UserContext(), id)

	state, err := h.auctionService.GetProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(state)
}

func (h *AuctionHandler) placeBid(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req placeBidRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	bid, err := h.auctionService.PlaceBid(c.UserContext(), application.PlaceBidDTO{
		ProductID: id,
		UserID:    req.UserID,
		Amount:    req.Amount,
	})
	if err != nil {
		return writeError(c, err)
	}
	h.notifier.ProductUpdated(c.UserContext(), id)

	return c.Status(fiber.StatusCreated).JSON(bidResponse{
		ID:        bid.ID,
		ProductID: bid.ProductID,
		UserID:    bid.UserID,
		PlacedAt:  bid.PlacedAt,
	})
}

func (h *AuctionHandler) getBid(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	bidID, err := strconv.ParseInt(c.Params("bidId"), 10, 64)
	if err != nil || bidID <= 0 {
		return badRequest(c, "bid id must be a positive integer")
	}
	receipt, err := h.auctionService.GetBid(c.UserContext(), id, bidID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(receipt)
}

func (h *AuctionHandler) finishAuction(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	result, err := h.auctionService.FinishAuction(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	h.notifier.AuctionSettled(result)

	return c.JSON(settlementResponse{
		SettlementID:  result.Settlement.ID,
		ProductID:     result.Product.ID,
		Status:        string(result.Product.Status()),
		WinningBidID:  result.Winner.ID,
		WinnerUserID:  result.Winner.UserID,
		WinningAmount: result.Winner.Amount(),
		ClearingPrice: result.ClearingPrice,
		SettledAt:     result.Settlement.SettledAt,
	})
}

var errInvalidProductID = errors.New("product id must be a positive integer")

func productID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidProductID
	}
	return id, nil
}

func statusFor(cause error) int {
	switch cause {
	case domain.ErrProductNotFound, domain.ErrBidNotFound, userdomain.ErrUserNotFound:
		return fiber.StatusNotFound
	case domain.ErrNoBidsForProduct, domain.ErrNoEligibleBids, domain.ErrProductNotAvailable:
		return fiber.StatusConflict
	default:
		return fiber.StatusUnprocessableEntity
	}
}

// writeError renders expected failures as JSON; anything else goes to the
// server's error handler as a 500.
func writeError(c *fiber.Ctx, err error) error {
	cause := application.Cause(err)
	if cause == nil {
		log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return err
	}
	return c.Status(statusFor(cause)).JSON(fiber.Map{
		"error":   application.ErrorCode(cause),
		"message": cause.Error(),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": message})
}
