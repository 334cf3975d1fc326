package websocket

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/cristianortiz/auctionSettlement/internal/auction/application"
	"github.com/cristianortiz/auctionSettlement/internal/shared/logger"
	"github.com/cristianortiz/auctionSettlement/internal/shared/websocket"
	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// AuctionWSHandler serves the auction module's websocket traffic: it places
// bids received from clients and pushes product updates to subscribers.
type AuctionWSHandler struct {
	ctx            context.Context
	auctionService application.AuctionService
	hub            *websocket.Hub
}

// NewAuctionWSHandler binds the handler to ctx; connections and the inbound
// listener stop when it is cancelled.
func NewAuctionWSHandler(ctx context.Context, auctionService application.AuctionService, hub *websocket.Hub) *AuctionWSHandler {
	return &AuctionWSHandler{
		ctx:            ctx,
		auctionService: auctionService,
		hub:            hub,
	}
}

func topic(productID int64) string {
	return strconv.FormatInt(productID, 10)
}

// RegisterRoutes mounts GET /ws/products/:id.
func (h *AuctionWSHandler) RegisterRoutes(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws/products/:id", func(c *fiber.Ctx) error {
		productID, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil || productID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}
		// 404 before upgrading
		if _, err := h.auctionService.GetProduct(c.UserContext(), productID); err != nil {
			if application.Cause(err) != nil {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return err
		}
		c.Locals("productID", productID)
		return c.Next()
	}, fiberws.New(h.serveConn))
}

func (h *AuctionWSHandler) serveConn(conn *fiberws.Conn) {
	productID, _ := conn.Locals("productID").(int64)
	client := websocket.NewClient(h.hub, conn, topic(productID), uuid.NewString())
	h.hub.RegisterClient(client)

	state, err := h.auctionService.GetProduct(h.ctx, productID)
	if err != nil {
		h.sendError(client, err)
	} else {
		h.send(client, ServerInitialStateMessage{
			BaseMessage: BaseMessage{Type: MessageTypeServerInitialState},
			Payload:     state,
		})
	}

	go client.WritePump(h.ctx)
	// the fiber handler must not return while the connection is in use
	client.ReadPump(h.ctx)
}

// ListenForMessages consumes the hub's inbound queue until ctx is done.
func (h *AuctionWSHandler) ListenForMessages(ctx context.Context) {
	log.Info("AuctionWSHandler listening for inbound messages")
	for {
		select {
		case <-ctx.Done():
			log.Info("AuctionWSHandler stopped listening for inbound messages")
			return
		case msg := <-h.hub.InboundMessages:
			go h.processMessage(ctx, msg.Client, msg.Data)
		}
	}
}

func (h *AuctionWSHandler) processMessage(ctx context.Context, client *websocket.Client, data []byte) {
	var base BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		h.sendErrorCode(client, "invalid_message", "invalid message format")
		return
	}
	switch base.Type {
	case MessageTypeClientBid:
		h.handleClientBid(ctx, client, data)
	default:
		h.sendErrorCode(client, "invalid_message", "unknown message type")
	}
}

func (h *AuctionWSHandler) handleClientBid(ctx context.Context, client *websocket.Client, data []byte) {
	var msg ClientBidMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.sendErrorCode(client, "invalid_message", "invalid bid message format")
		return
	}
	if topic(msg.Payload.ProductID) != client.Topic {
		h.sendErrorCode(client, "invalid_message", "product id does not match this connection")
		return
	}

	bid, err := h.auctionService.PlaceBid(ctx, application.PlaceBidDTO{
		ProductID: msg.Payload.ProductID,
		UserID:    msg.Payload.UserID,
		Amount:    msg.Payload.Amount,
	})
	if err != nil {
		h.sendError(client, err)
		return
	}

	ack := ServerBidAcceptedMessage{BaseMessage: BaseMessage{Type: MessageTypeServerBidAccepted}}
	ack.Payload.BidID = bid.ID
	ack.Payload.ProductID = bid.ProductID
	h.send(client, ack)

	h.ProductUpdated(ctx, bid.ProductID)
}

// ProductUpdated broadcasts the product's status and bid count to its subscribers.
func (h *AuctionWSHandler) ProductUpdated(ctx context.Context, productID int64) {
	state, err := h.auctionService.GetProduct(ctx, productID)
	if err != nil {
		log.Warn("failed to load product for broadcast", zap.Int64("productID", productID), zap.Error(err))
		return
	}
	msg := ServerProductUpdateMessage{BaseMessage: BaseMessage{Type: MessageTypeServerProductUpdate}}
	msg.Payload.ProductID = state.ID
	msg.Payload.Status = state.Status
	msg.Payload.BidCount = state.BidCount
	h.broadcast(productID, msg)
}

// AuctionSettled announces the outcome of a finished auction.
func (h *AuctionWSHandler) AuctionSettled(result *application.FinishAuctionResult) {
	msg := ServerAuctionSettledMessage{BaseMessage: BaseMessage{Type: MessageTypeServerAuctionSettled}}
	msg.Payload.ProductID = result.Product.ID
	msg.Payload.SettlementID = result.Settlement.ID
	msg.Payload.WinningBidID = result.Winner.ID
	msg.Payload.WinnerUserID = result.Winner.UserID
	msg.Payload.WinningAmount = result.Winner.Amount()
	msg.Payload.ClearingPrice = result.ClearingPrice
	h.broadcast(result.Product.ID, msg)
}

func (h *AuctionWSHandler) broadcast(productID int64, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal ws message", zap.Error(err))
		return
	}
	h.hub.Broadcast(topic(productID), data)
}

func (h *AuctionWSHandler) sendError(client *websocket.Client, err error) {
	code := application.ErrorCode(err)
	message := "internal error"
	if cause := application.Cause(err); cause != nil {
		message = cause.Error()
	} else {
		log.Error("ws request failed", zap.String("clientID", client.ID), zap.Error(err))
	}
	h.sendErrorCode(client, code, message)
}

func (h *AuctionWSHandler) sendErrorCode(client *websocket.Client, code, message string) {
	msg := ServerErrorMessage{BaseMessage: BaseMessage{Type: MessageTypeServerError}}
	msg.Payload.Error = code
	msg.Payload.Message = message
	h.send(client, msg)
}

func (h *AuctionWSHandler) send(client *websocket.Client, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal ws message", zap.Error(err))
		return
	}
	if !client.Deliver(data) {
		log.Warn("client gone or send queue full, dropping reply", zap.String("clientID", client.ID))
	}
}
