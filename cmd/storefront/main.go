package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/handlers"
	"storefront-service/internal/auth"
	"storefront-service/internal/cart"
	"storefront-service/internal/checkout"
	"storefront-service/internal/config"
	"storefront-service/internal/consul"
	"storefront-service/internal/notify"
	"storefront-service/internal/orders"
	"storefront-service/internal/payments"
	"storefront-service/internal/products"
	"storefront-service/internal/stores/kafka"
	"storefront-service/internal/stores/postgres"
	"storefront-service/internal/stores/redis"

	"github.com/gin-gonic/gin"
)

func main() {
	setupSlog()
	err := startApp()
	if err != nil {
		slog.Error("application stopped", slog.String("ERROR", err.Error()))
		os.Exit(1)
	}
}

func startApp() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.LogSummary()

	ctx := context.Background()
	deps := handlers.Deps{PaymentCredentials: cfg.PaymentCredentials()}
	var (
		store       checkout.OrderStore
		gatewayOpts []checkout.Option
	)

	/*
		//------------------------------------------------------//
		//  Postgres: orders, audit log, catalogue
		//------------------------------------------------------//
	*/
	if cfg.DatabaseURL != "" {
		db, err := postgres.OpenDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Migrate(db); err != nil {
			return err
		}
		o, err := orders.NewConf(db)
		if err != nil {
			return err
		}
		p, err := products.NewConf(db)
		if err != nil {
			return err
		}
		store = o
		deps.Admin = o
		deps.Catalogue = p
	} else {
		slog.Warn("DATABASE_URL not set, orders and catalogue are unavailable")
	}

	/*
		//------------------------------------------------------//
		//  Redis: cart sessions
		//------------------------------------------------------//
	*/
	if cfg.RedisAddr != "" {
		client, err := redis.OpenClient(ctx, cfg.RedisAddr, redis.WithPassword(cfg.RedisPassword))
		if err != nil {
			return err
		}
		defer client.Close()
		carts, err := cart.NewRedisStore(client, cfg.CartTTL)
		if err != nil {
			return err
		}
		deps.Carts = carts
	} else {
		slog.Warn("REDIS_ADDR not set, carts are kept in memory")
	}

	/*
		//------------------------------------------------------//
		//  Kafka: order events
		//------------------------------------------------------//
	*/
	if len(cfg.KafkaBrokers) > 0 {
		k, err := kafka.NewConf(cfg.KafkaBrokers)
		if err != nil {
			return err
		}
		defer k.Close()
		deps.Publisher = k
		gatewayOpts = append(gatewayOpts, checkout.WithPublisher(k))
	}

	if cfg.SendGridAPIKey != "" {
		n, err := notify.NewConf(cfg.SendGridAPIKey, cfg.MailFrom, notify.WithStoreOwner(cfg.StoreOwnerEmail))
		if err != nil {
			return fmt.Errorf("configuring mail: %w", err)
		}
		gatewayOpts = append(gatewayOpts, checkout.WithNotifier(n))
	}

	processor, err := newProcessor(cfg)
	if err != nil {
		return err
	}
	deps.Gateway = checkout.NewGateway(store, processor, gatewayOpts...)

	if cfg.JWTSecret != "" {
		keys, err := auth.NewKeys(cfg.JWTSecret)
		if err != nil {
			return err
		}
		deps.Keys = keys
	} else {
		slog.Warn("JWT_SECRET not set, admin endpoints are disabled")
	}
	if cfg.AdminEmail != "" && cfg.AdminPasswordHash != "" {
		deps.Admins = auth.NewAdmins(cfg.AdminEmail, cfg.AdminPasswordHash)
	}

	h := handlers.NewHandler(deps)

	/*
		//------------------------------------------------------//
		//  HTTP + gRPC health servers
		//------------------------------------------------------//
	*/
	api := http.Server{
		Addr:         ":" + cfg.Port,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		Handler:      handlers.API(cfg.EndpointPrefix, h),
	}

	grpcServer, healthServer := handlers.NewGRPCServer(h)
	listener, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("listening on grpc port: %w", err)
	}

	if cfg.ConsulAddr != "" {
		client, err := consul.NewClient(cfg.ConsulAddr)
		if err != nil {
			return err
		}
		serviceID, err := consul.RegisterService(client, cfg.ServiceName, cfg.Port)
		if err != nil {
			return err
		}
		defer func() {
			if err := consul.DeregisterService(client, serviceID); err != nil {
				slog.Error("consul deregistration failed", slog.String("ERROR", err.Error()))
			}
		}()
	}

	serverErrors := make(chan error, 2)
	go func() {
		slog.Info("main: API listening", slog.String("Port", cfg.Port))
		serverErrors <- api.ListenAndServe()
	}()
	go func() {
		slog.Info("main: gRPC listening", slog.String("Port", cfg.GRPCPort))
		serverErrors <- grpcServer.Serve(listener)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		slog.Info("main: start shutdown", slog.String("Signal", sig.String()))
		healthServer.Shutdown()
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		grpcServer.GracefulStop()
		if err := api.Shutdown(ctx); err != nil {
			_ = api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}
	return nil
}

// newProcessor returns the configured payment processor, or nil when its
// credentials are absent.
func newProcessor(cfg config.Config) (payments.Processor, error) {
	var (
		p   payments.Processor
		err error
	)
	switch cfg.PaymentProvider {
	case "stripe":
		var s *payments.Stripe
		s, err = payments.NewStripe(cfg.StripeSecretKey, nil)
		if err == nil {
			p = s
		}
	default:
		baseURL := cfg.PayPalBaseURL
		if baseURL == "" && cfg.GinMode == gin.ReleaseMode {
			baseURL = payments.PayPalProductionURL
		}
		ppCfg := payments.PayPalConfig{
			ClientID:     cfg.PayPalClientID,
			ClientSecret: cfg.PayPalClientSecret,
			BaseURL:      baseURL,
			BrandName:    "'900 Music",
		}
		if cfg.PublicURL != "" {
			ppCfg.ReturnURL = cfg.PublicURL + "/confirmation"
			ppCfg.CancelURL = cfg.PublicURL + "/checkout"
		}
		var pp *payments.PayPal
		pp, err = payments.NewPayPal(ppCfg)
		if err == nil {
			p = pp
		}
	}
	if errors.Is(err, payments.ErrNotConfigured) {
		slog.Warn("payment credentials missing, payment checkout disabled", slog.String("Provider", cfg.PaymentProvider))
		return nil, nil
	}
	return p, err
}

func setupSlog() {
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		// AddSource: true: include the file name and line number in the log output.
		AddSource: true,
		Level:     slog.LevelInfo,
	})

	logger := slog.New(logHandler)
	slog.SetDefault(logger)
}
