package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/cristianortiz/auctionSettlement/internal/auction/application"
	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
	"github.com/cristianortiz/auctionSettlement/internal/shared/logger"
	userdomain "github.com/cristianortiz/auctionSettlement/internal/user/domain"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Exit codes, one per failure kind.
const (
	ExitOK                  = 0
	ExitInternal            = 1
	ExitUsage               = 2
	ExitInvalidAmount       = 3
	ExitInvalidStatus       = 4
	ExitProductNotFound     = 5
	ExitBidNotFound         = 6
	ExitNoBids              = 7
	ExitNoEligibleBids      = 8
	ExitProductNotAvailable = 9
	ExitInvalidProduct      = 10
)

var exitCodes = map[error]int{
	domain.ErrInvalidAmount:       ExitInvalidAmount,
	domain.ErrInvalidStatus:       ExitInvalidStatus,
	domain.ErrProductNotFound:     ExitProductNotFound,
	domain.ErrBidNotFound:         ExitBidNotFound,
	domain.ErrNoBidsForProduct:    ExitNoBids,
	domain.ErrNoEligibleBids:      ExitNoEligibleBids,
	domain.ErrProductNotAvailable: ExitProductNotAvailable,
	domain.ErrInvalidProductName:  ExitInvalidProduct,
	domain.ErrInvalidReservePrice: ExitInvalidProduct,
	userdomain.ErrInvalidUserID:   ExitUsage,
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ue usageError
	if errors.As(err, &ue) {
		return ExitUsage
	}
	if code, ok := exitCodes[application.Cause(err)]; ok {
		return code
	}
	return ExitInternal
}

// inputError is a malformed argument of a known failure kind; msg is shown
// instead of the kind's generic message.
type inputError struct {
	kind error
	msg  string
}

func (e inputError) Error() string { return e.msg }
func (e inputError) Unwrap() error { return e.kind }

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// Commands runs the auction subcommands against an AuctionService.
type Commands struct {
	svc    application.AuctionService
	out    io.Writer
	errOut io.Writer
}

func New(svc application.AuctionService, out, errOut io.Writer) *Commands {
	return &Commands{svc: svc, out: out, errOut: errOut}
}

// Names lists the subcommands Run understands.
func Names() []string {
	return []string{"create-product", "place-bid", "show-bid", "finish-auction", "list-products", "update-status"}
}

// Run executes the subcommand in args[0] and returns the exit code. Failures
// are reported on errOut as a single line.
func (c *Commands) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(c.errOut, "Error: missing command")
		return ExitUsage
	}
	var err error
	switch args[0] {
	case "create-product":
		err = c.createProduct(ctx, args[1:])
	case "place-bid":
		err = c.placeBid(ctx, args[1:])
	case "show-bid":
		err = c.showBid(ctx, args[1:])
	case "finish-auction":
		err = c.finishAuction(ctx, args[1:])
	case "list-products":
		err = c.listProducts(ctx, args[1:])
	case "update-status":
		err = c.updateStatus(ctx, args[1:])
	default:
		err = usagef("unknown command %q", args[0])
	}
	code := ExitCode(err)
	if err != nil {
		c.report(err, code)
	}
	return code
}

func (c *Commands) report(err error, code int) {
	if code == ExitInternal {
		log.Error("command failed", zap.Error(err))
		fmt.Fprintln(c.errOut, "Error: internal error, see logs")
		return
	}
	msg := err.Error()
	var ie inputError
	if errors.As(err, &ie) {
		msg = ie.msg
	} else if cause := application.Cause(err); cause != nil {
		msg = cause.Error()
	}
	fmt.Fprintf(c.errOut, "Error: %s\n", msg)
}

func (c *Commands) flagSet(name, usage string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(c.errOut)
	// negative numbers are arguments, not flags
	fs.SetInterspersed(false)
	fs.Usage = func() {
		fmt.Fprintf(c.errOut, "Usage: auction %s\n", usage)
		fs.PrintDefaults()
	}
	return fs
}

func parseArgs(fs *pflag.FlagSet, args []string, minArgs, maxArgs int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, usagef("%v", err)
	}
	rest := fs.Args()
	if len(rest) < minArgs || len(rest) > maxArgs {
		fs.Usage()
		return nil, usagef("%s: wrong number of arguments", fs.Name())
	}
	return rest, nil
}

func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, usagef("%s must be a positive integer, got %q", kind, raw)
	}
	return id, nil
}

func (c *Commands) createProduct(ctx context.Context, args []string) error {
	fs := c.flagSet("create-product", "create-product <name> <reservePrice> [status]")
	rest, err := parseArgs(fs, args, 2, 3)
	if err != nil {
		return err
	}
	reserve, err := domain.ParseMoney(rest[1])
	if err != nil {
		return inputError{kind: domain.ErrInvalidReservePrice, msg: "reserve price: " + err.Error()}
	}
	var rawStatus string
	if len(rest) == 3 {
		rawStatus = rest[2]
	}
	status, err := domain.ParseProductStatus(rawStatus)
	if err != nil {
		return err
	}

	product, err := c.svc.CreateProduct(ctx, application.CreateProductDTO{
		Name:         rest[0],
		ReservePrice: reserve,
		Status:       status,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Product created: ID %d, Name: %s, Reserve Price: %s, Status: %s\n",
		product.ID, product.Name, money(product.ReservePrice), product.Status())
	return nil
}

func (c *Commands) placeBid(ctx context.Context, args []string) error {
	fs := c.flagSet("place-bid", "place-bid <userId> <productId> <amount>")
	rest, err := parseArgs(fs, args, 3, 3)
	if err != nil {
		return err
	}
	userID, err := parseID("userId", rest[0])
	if err != nil {
		return err
	}
	productID, err := parseID("productId", rest[1])
	if err != nil {
		return err
	}
	amount, err := domain.ParseMoney(rest[2])
	if err != nil {
		return inputError{kind: domain.ErrInvalidAmount, msg: "amount: " + err.Error()}
	}

	bid, err := c.svc.PlaceBid(ctx, application.PlaceBidDTO{ProductID: productID, UserID: userID, Amount: amount})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Bid placed: ID %d, Product: %d, User: %d, Amount: %s\n",
		bid.ID, bid.ProductID, bid.UserID, money(bid.Amount()))
	return nil
}

func (c *Commands) showBid(ctx context.Context, args []string) error {
	fs := c.flagSet("show-bid", "show-bid <productId> <bidId>")
	rest, err := parseArgs(fs, args, 2, 2)
	if err != nil {
		return err
	}
	productID, err := parseID("productId", rest[0])
	if err != nil {
		return err
	}
	bidID, err := parseID("bidId", rest[1])
	if err != nil {
		return err
	}

	receipt, err := c.svc.GetBid(ctx, productID, bidID)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Bid %d on product %d by user %d, placed %s.\n",
		receipt.ID, receipt.ProductID, receipt.UserID, receipt.PlacedAt.Format("2006-01-02 15:04"))
	switch {
	case !receipt.Settled:
		fmt.Fprintln(c.out, "Amount sealed until the auction is settled.")
	case receipt.Winning:
		fmt.Fprintf(c.out, "Amount: %s (winning bid).\n", money(*receipt.Amount))
	default:
		fmt.Fprintf(c.out, "Amount: %s.\n", money(*receipt.Amount))
	}
	return nil
}

func (c *Commands) finishAuction(ctx context.Context, args []string) error {
	fs := c.flagSet("finish-auction", "finish-auction <productId>")
	rest, err := parseArgs(fs, args, 1, 1)
	if err != nil {
		return err
	}
	productID, err := parseID("productId", rest[0])
	if err != nil {
		return err
	}

	result, err := c.svc.FinishAuction(ctx, productID)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Auction for product '%s' (ID %d) has finished.\n", result.Product.Name, result.Product.ID)
	fmt.Fprintf(c.out, "Winning bid: %s by user %d (bid ID %d).\n",
		money(result.Winner.Amount()), result.Winner.UserID, result.Winner.ID)
	fmt.Fprintf(c.out, "Clearing price: %s.\n", money(result.ClearingPrice))
	return nil
}

func (c *Commands) listProducts(ctx context.Context, args []string) error {
	fs := c.flagSet("list-products", "list-products [--json]")
	asJSON := fs.Bool("json", false, "print products as JSON")
	if _, err := parseArgs(fs, args, 0, 0); err != nil {
		return err
	}

	products, err := c.svc.ListAvailableProducts(ctx)
	if err != nil {
		return err
	}
	if *asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(products)
	}
	if len(products) == 0 {
		fmt.Fprintln(c.out, "No products available for auction.")
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tRESERVE PRICE\tBIDS\tEXPIRES AT")
	for _, p := range products {
		expires := "-"
		if p.ExpiresAt != nil {
			expires = p.ExpiresAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Status, money(p.ReservePrice), p.BidCount, expires)
	}
	return tw.Flush()
}

func (c *Commands) updateStatus(ctx context.Context, args []string) error {
	fs := c.flagSet("update-status", "update-status <productId> <status>")
	rest, err := parseArgs(fs, args, 2, 2)
	if err != nil {
		return err
	}
	productID, err := parseID("productId", rest[0])
	if err != nil {
		return err
	}
	if rest[1] == "" {
		return domain.ErrInvalidStatus
	}
	status, err := domain.ParseProductStatus(rest[1])
	if err != nil {
		return err
	}

	product, err := c.svc.UpdateProductStatus(ctx, productID, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Product %d status: %s\n", product.ID, product.Status())
	return nil
}
