package websocket

import (
	"github.com/cristianortiz/auctionSettlement/internal/auction/application"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MessageType defines ws type message
type MessageType string

const (
	MessageTypeClientBid            MessageType = "client_bid"             // client places a sealed bid
	MessageTypeServerInitialState   MessageType = "server_initial_state"   // product state sent on connect
	MessageTypeServerBidAccepted    MessageType = "server_bid_accepted"    // sent to the bidder only
	MessageTypeServerProductUpdate  MessageType = "server_product_update"  // status and bid count, never amounts
	MessageTypeServerAuctionSettled MessageType = "server_auction_settled" // winner and clearing price
	MessageTypeServerError          MessageType = "server_error"
)

// BaseMessage is embedded by every ws message; Type selects the payload.
type BaseMessage struct {
	Type MessageType `json:"type"`
}

type ClientBidMessage struct {
	BaseMessage
	Payload struct {
		ProductID int64           `json:"product_id"`
		UserID    int64           `json:"user_id"`
		Amount    decimal.Decimal `json:"amount"`
	} `json:"payload"`
}

type ServerInitialStateMessage struct {
	BaseMessage
	Payload *application.ProductStateDTO `json:"payload"`
}

type ServerBidAcceptedMessage struct {
	BaseMessage
	Payload struct {
		BidID     int64 `json:"bid_id"`
		ProductID int64 `json:"product_id"`
	} `json:"payload"`
}

type ServerProductUpdateMessage struct {
	BaseMessage
	Payload struct {
		ProductID int64  `json:"product_id"`
		Status    string `json:"status"`
		BidCount  int    `json:"bid_count"`
	} `json:"payload"`
}

type ServerAuctionSettledMessage struct {
	BaseMessage
	Payload struct {
		ProductID     int64           `json:"product_id"`
		SettlementID  uuid.UUID       `json:"settlement_id"`
		WinningBidID  int64           `json:"winning_bid_id"`
		WinnerUserID  int64           `json:"winner_user_id"`
		WinningAmount decimal.Decimal `json:"winning_amount"`
		ClearingPrice decimal.Decimal `json:"clearing_price"`
	} `json:"payload"`
}

type ServerErrorMessage struct {
	BaseMessage
	Payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	} `json:"payload"`
}
