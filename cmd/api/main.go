package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-factory-ledger/internal/auth"
	"github.com/ariefcatur/go-factory-ledger/internal/checkout"
	"github.com/ariefcatur/go-factory-ledger/internal/config"
	"github.com/ariefcatur/go-factory-ledger/internal/events"
	"github.com/ariefcatur/go-factory-ledger/internal/httpx"
	kafkax "github.com/ariefcatur/go-factory-ledger/internal/kafka"
	"github.com/ariefcatur/go-factory-ledger/internal/logx"
	"github.com/ariefcatur/go-factory-ledger/internal/orders"
	"github.com/ariefcatur/go-factory-ledger/internal/postgres"
	"github.com/ariefcatur/go-factory-ledger/internal/redisx"
	"github.com/ariefcatur/go-factory-ledger/internal/summary"
	"github.com/ariefcatur/go-factory-ledger/internal/transactions"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := logx.New(cfg.Env, cfg.ServiceName)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Production() && cfg.JWTSecret == config.DefaultJWTSecret {
		logger.Fatal("JWT_SECRET must be set in production")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stores
	var (
		orderStore orders.Store       = orders.NewMemoryStore()
		txStore    transactions.Store = transactions.NewMemoryStore()
		sessions   checkout.Store     = checkout.NewMemoryStore(cfg.CheckoutTTL)
		dashboard  httpx.DashboardSource
	)
	if cfg.LedgerStore == "postgres" {
		if cfg.Migrations {
			if err := postgres.Migrate(postgres.DefaultMigrations, cfg.PostgresDSN); err != nil {
				logger.Fatal("migrate", zap.Error(err))
			}
			logger.Info("migrations applied")
		}
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer db.Close()
		orderStore = &orders.Repo{DB: db}
		txStore = &transactions.Repo{DB: db}
	}

	var rdb *redis.Client
	if cfg.CheckoutStore == "redis" || cfg.Events == "kafka" {
		rdb = redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		if err := redisx.Ping(ctx, rdb); err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
	}
	if cfg.CheckoutStore == "redis" {
		sessions = &checkout.RedisStore{Redis: rdb, TTL: cfg.CheckoutTTL}
	}

	// Events
	var pub events.Publisher = events.Nop{}
	var prod *kafkax.Producer
	if cfg.Events == "kafka" {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, 1024, logger.Named("kafka"))
		prod.Start(ctx)
		pub = prod
		// totals are projected from the event stream
		dashboard = &summary.Reader{Redis: rdb}
	}

	// Users
	udb, err := auth.Open(cfg.UsersDSN)
	if err != nil {
		logger.Fatal("users db", zap.Error(err))
	}
	users := &auth.Users{DB: udb, Log: logger}
	if err := users.Migrate(); err != nil {
		logger.Fatal("users migrate", zap.Error(err))
	}
	if err := users.Seed(ctx, map[auth.Role]string{
		auth.RoleAdmin:      cfg.SeedAdminPassword,
		auth.RoleCashier:    cfg.SeedCashierPassword,
		auth.RoleProduction: cfg.SeedProductionPassword,
	}); err != nil {
		logger.Fatal("seed users", zap.Error(err))
	}

	// Services & handlers
	ledger := orders.NewLedger(orderStore, pub, logger.Named("ledger"), cfg.ServiceName)
	txs := transactions.NewService(txStore, pub, logger.Named("transactions"), cfg.ServiceName)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	router := httpx.NewRouter()
	api := &httpx.API{
		Issuer:       issuer,
		Auth:         &httpx.AuthHandler{Users: users, Issuer: issuer, Log: logger},
		Ledger:       &httpx.LedgerHandler{Ledger: ledger, Log: logger},
		Checkout:     &httpx.CheckoutHandler{Service: &checkout.Service{Sessions: sessions, Ledger: ledger, Log: logger.Named("checkout")}, Log: logger},
		Transactions: &httpx.TransactionsHandler{Service: txs, Log: logger},
	}
	if dashboard != nil {
		api.Dashboard = &httpx.DashboardHandler{Source: dashboard, Log: logger}
	}
	api.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("http listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("ledger_store", cfg.LedgerStore),
			zap.String("checkout_store", cfg.CheckoutStore),
			zap.String("events", cfg.Events),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close()      // close inbox -> flush & close writer
		prod.WaitClosed() // drain
	}
	cancel()
}
