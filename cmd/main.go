package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/cristianortiz/auctionSettlement/internal/auction/application"
	"github.com/cristianortiz/auctionSettlement/internal/auction/domain"
	"github.com/cristianortiz/auctionSettlement/internal/auction/infra/cli"
	auctionhttp "github.com/cristianortiz/auctionSettlement/internal/auction/infra/http"
	auctionmemory "github.com/cristianortiz/auctionSettlement/internal/auction/infra/repository/memory"
	auctionpostgres "github.com/cristianortiz/auctionSettlement/internal/auction/infra/repository/postgres"
	auctionws "github.com/cristianortiz/auctionSettlement/internal/auction/infra/websocket"
	"github.com/cristianortiz/auctionSettlement/internal/shared/config"
	"github.com/cristianortiz/auctionSettlement/internal/shared/db"
	"github.com/cristianortiz/auctionSettlement/internal/shared/db/migrations"
	"github.com/cristianortiz/auctionSettlement/internal/shared/httpserver"
	"github.com/cristianortiz/auctionSettlement/internal/shared/logger"
	"github.com/cristianortiz/auctionSettlement/internal/shared/websocket"
	usermemory "github.com/cristianortiz/auctionSettlement/internal/user/infra/repository/memory"
	userpostgres "github.com/cristianortiz/auctionSettlement/internal/user/infra/repository/postgres"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

func main() {
	code := run(os.Args[1:], os.Stdout, os.Stderr)
	_ = log.Sync()
	os.Exit(code)
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(stderr)
		if len(args) == 0 {
			return cli.ExitUsage
		}
		return cli.ExitOK
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cli.ExitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "serve":
		return serve(ctx, cfg, args[1:], stderr)
	case "migrate":
		return migrate(cfg, args[1:], stderr)
	}

	if !slices.Contains(cli.Names(), args[0]) {
		fmt.Fprintf(stderr, "Error: unknown command %q\n", args[0])
		printUsage(stderr)
		return cli.ExitUsage
	}

	stores, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		log.Error("Failed to open stores", zap.Error(err))
		fmt.Fprintln(stderr, "Error: could not connect to the database")
		return cli.ExitInternal
	}
	defer closeStores()

	svc := application.NewAuctionService(stores, cfg.AuctionDuration)
	return cli.New(svc, stdout, stderr).Run(ctx, args)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: auction <command> [arguments]")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve [--addr :9000] [--migrate=true]")
	fmt.Fprintln(w, "  migrate [up|down]")
	fmt.Fprintln(w, "  create-product <name> <reservePrice> [status]")
	fmt.Fprintln(w, "  place-bid <userId> <productId> <amount>")
	fmt.Fprintln(w, "  show-bid <productId> <bidId>")
	fmt.Fprintln(w, "  finish-auction <productId>")
	fmt.Fprintln(w, "  list-products [--json]")
	fmt.Fprintln(w, "  update-status <productId> <status>")
	statuses := make([]string, 0, len(domain.AllowedStatuses()))
	for _, s := range domain.AllowedStatuses() {
		statuses = append(statuses, string(s))
	}
	fmt.Fprintf(w, "Statuses: %s\n", strings.Join(statuses, ", "))
}

// openStores wires the repositories selected by STORE.
func openStores(ctx context.Context, cfg *config.Config) (application.Stores, func(), error) {
	if cfg.Store == config.StoreMemory {
		log.Warn("Using in-memory store; data is lost on exit")
		products, bids := auctionmemory.NewProductRepository(), auctionmemory.NewBidRepository()
		settlements, users := auctionmemory.NewSettlementRepository(), usermemory.NewUserRepository()
		return application.Stores{
			Products:    products,
			Bids:        bids,
			Settlements: settlements,
			Users:       users,
			Tx:          auctionmemory.NewTxManager(products, bids, settlements, users),
		}, func() {}, nil
	}

	pool, err := db.GetPostgresDBPool(ctx, cfg.DB.DSN(), cfg.DB.MaxConns, cfg.DB.MinConns)
	if err != nil {
		return application.Stores{}, nil, err
	}
	return application.Stores{
		Products:    auctionpostgres.NewProductRepository(pool),
		Bids:        auctionpostgres.NewBidRepository(pool),
		Settlements: auctionpostgres.NewSettlementRepository(pool),
		Users:       userpostgres.NewUserRepository(pool),
		Tx:          db.NewTxManager(pool),
	}, pool.Close, nil
}

func serve(ctx context.Context, cfg *config.Config, args []string, stderr io.Writer) int {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", cfg.HTTPAddr, "HTTP listen address")
	runMigrations := fs.Bool("migrate", true, "apply database migrations before serving (postgres only)")
	if err := fs.Parse(args); err != nil {
		return cli.ExitUsage
	}

	log.Info("Starting auction settlement server...", zap.String("store", cfg.Store))

	if cfg.Store == config.StorePostgres && *runMigrations {
		log.Info("Running database migrations...")
		if err := migrations.RunMigrations(cfg.DB.DSN()); err != nil {
			log.Error("Database migration failed", zap.Error(err))
			return cli.ExitInternal
		}
	}

	stores, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		log.Error("Failed to open stores", zap.Error(err))
		return cli.ExitInternal
	}
	defer closeStores()

	svc := application.NewAuctionService(stores, cfg.AuctionDuration)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	wsHandler := auctionws.NewAuctionWSHandler(ctx, svc, hub)
	go wsHandler.ListenForMessages(ctx)

	server := httpserver.NewServer()
	wsHandler.RegisterRoutes(server.App())
	auctionhttp.NewAuctionHandler(svc, wsHandler).RegisterRoutes(server.App())

	if err := server.Start(ctx, *addr); err != nil {
		log.Error("HTTP server failed", zap.Error(err))
		return cli.ExitInternal
	}
	log.Info("Server stopped")
	return cli.ExitOK
}

func migrate(cfg *config.Config, args []string, stderr io.Writer) int {
	direction := "up"
	if len(args) > 1 {
		fmt.Fprintln(stderr, "Usage: auction migrate [up|down]")
		return cli.ExitUsage
	}
	if len(args) == 1 {
		direction = args[0]
	}
	if cfg.Store != config.StorePostgres {
		fmt.Fprintln(stderr, "Error: migrate requires STORE=postgres")
		return cli.ExitUsage
	}

	var err error
	switch direction {
	case "up":
		err = migrations.RunMigrations(cfg.DB.DSN())
	case "down":
		err = migrations.RollbackMigrations(cfg.DB.DSN())
	default:
		fmt.Fprintf(stderr, "Error: unknown migrate direction %q\n", direction)
		return cli.ExitUsage
	}
	if err != nil {
		log.Error("Migration failed", zap.String("direction", direction), zap.Error(err))
		fmt.Fprintln(stderr, "Error: migration failed, see logs")
		return cli.ExitInternal
	}
	return cli.ExitOK
}
