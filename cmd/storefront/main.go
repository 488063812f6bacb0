package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/yeo0314/JEPK-creation/internal/admin"
	"github.com/yeo0314/JEPK-creation/internal/cart"
	"github.com/yeo0314/JEPK-creation/internal/catalog"
	"github.com/yeo0314/JEPK-creation/internal/checkout"
	"github.com/yeo0314/JEPK-creation/internal/config"
	"github.com/yeo0314/JEPK-creation/internal/events"
	"github.com/yeo0314/JEPK-creation/internal/health"
	h "github.com/yeo0314/JEPK-creation/internal/http"
	"github.com/yeo0314/JEPK-creation/internal/logger"
	"github.com/yeo0314/JEPK-creation/internal/notification"
	"github.com/yeo0314/JEPK-creation/internal/payment"
	"github.com/yeo0314/JEPK-creation/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Order store
	orders, err := openOrderRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open order store", zap.String("store", cfg.OrderStore), zap.Error(err))
	}

	// Cart persistence
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	carts := cart.NewRedisPersister(redisClient, cart.DefaultSessionTTL)
	if err := carts.Ping(ctx); err != nil {
		log.Fatal("Redis connection failed", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	log.Info("Redis ping succeeded", zap.String("addr", cfg.Redis.Addr))
	sessions := cart.NewSessions(carts, log, cfg.Checkout.SessionTTL)

	// Order events
	var publisher events.Publisher = events.NewNoop(log)
	var outbox *events.Outbox
	if len(cfg.Kafka.Brokers) > 0 {
		outbox = events.NewKafkaOutbox(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		publisher = outbox
		log.Info("Publishing order events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// Email
	var gateway notification.Gateway = notification.NewLogGateway(log)
	if cfg.Email.Enabled() {
		gateway = notification.NewRelayClient(notification.RelayConfig{
			BaseURL:    cfg.Email.RelayURL,
			ServiceID:  cfg.Email.ServiceID,
			PublicKey:  cfg.Email.PublicKey,
			PrivateKey: cfg.Email.PrivateKey,
			Templates: map[notification.Kind]string{
				notification.KindOrderConfirmation: cfg.Email.Templates.Confirmation,
				notification.KindAdminAlert:        cfg.Email.Templates.Admin,
				notification.KindStatusUpdate:      cfg.Email.Templates.Status,
				notification.KindContactMessage:    cfg.Email.Templates.Contact,
			},
		}, log)
	} else {
		log.Warn("Email relay not configured, notifications are only logged")
	}

	// Payments and checkout
	var outcome payment.Outcome = payment.AlwaysApprove{}
	if cfg.Checkout.PaymentFailureRate > 0 {
		outcome = payment.RandomOutcome{FailureRate: cfg.Checkout.PaymentFailureRate}
	}
	dispatcher := payment.NewDispatcher(payment.DefaultRegistry(cfg.Checkout.PaymentDelay, outcome), log)

	orchestrator := checkout.NewOrchestrator(dispatcher, orders, gateway, publisher, checkout.Options{
		ShippingFee: cfg.Checkout.ShippingFee,
		AdminEmail:  cfg.Email.AdminEmail,
		SessionTTL:  cfg.Checkout.SessionTTL,
	}, log)
	adminService := admin.NewService(orders, gateway, publisher, log)

	// Health
	checker := health.NewChecker(15*time.Second, log)
	checker.Add("orders", orders)
	checker.Add("carts", carts)

	// HTTP
	validate := validator.New()
	products := catalog.Default()
	router := h.NewRouter(h.Handlers{
		Products: h.NewProductHandler(products),
		Cart:     h.NewCartHandler(sessions, products, validate, cfg.Checkout.ShippingFee, cfg.RequestTimeout, log),
		Checkout: h.NewCheckoutHandler(orchestrator, sessions, validate, cfg.RequestTimeout, log),
		Payments: h.NewPaymentHandler(dispatcher, cfg.RequestTimeout),
		Orders:   h.NewOrdersHandler(adminService, validate, cfg.RequestTimeout, log),
		Contact:  h.NewContactHandler(gateway, cfg.Email.AdminEmail, cfg.ContactRatePerMinute, validate, cfg.RequestTimeout, log),
		Health:   checker,
	}, h.RouterConfig{
		RequestTimeout: cfg.RequestTimeout,
		AdminKeyHash:   cfg.Admin.KeyHash,
		MaxBodyBytes:   1 << 20, // 1MB
	}, log)
	srv := h.NewServer(":"+cfg.Port, router)

	// gRPC health
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatal("Failed to listen", zap.String("port", cfg.GRPCPort), zap.Error(err))
	}
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	checker.Register(grpcServer)
	// Enable reflection for grpcurl/grpcui
	reflection.Register(grpcServer)

	var wg sync.WaitGroup
	bgCtx, cancelBackground := context.WithCancel(context.Background())

	wg.Add(1)
	go func() {
		defer wg.Done()
		checker.Run(bgCtx)
	}()

	if outbox != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outbox.Run(bgCtx)
		}()
	}

	go func() {
		log.Info("gRPC health listening", zap.String("port", cfg.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("gRPC server error", zap.Error(err))
		}
	}()

	go func() {
		log.Info("Storefront starting", zap.String("port", cfg.Port), zap.String("order_store", cfg.OrderStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down storefront...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()

	// Stop background workers after the servers so in-flight requests can still enqueue events.
	cancelBackground()
	wg.Wait()

	if outbox != nil {
		if err := outbox.Close(); err != nil {
			log.Error("Failed to close kafka writer", zap.Error(err))
		}
	}
	_ = orchestrator.Close()
	_ = sessions.Close()
	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close redis", zap.Error(err))
	}
	if err := orders.Close(shutdownCtx); err != nil {
		log.Error("Failed to close order store", zap.Error(err))
	}

	log.Info("Storefront stopped")
}

func openOrderRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.OrderRepository, error) {
	switch cfg.OrderStore {
	case config.OrderStorePostgres:
		creds := &repository.Credentials{
			Host:              cfg.Database.Host,
			Port:              cfg.Database.Port,
			User:              cfg.Database.User,
			Password:          cfg.Database.Password,
			DBName:            cfg.Database.DBName,
			SSLMode:           cfg.Database.SSLMode,
			MigrationsDirPath: cfg.Database.MigrationsPath,
		}
		repo, err := repository.NewPostgresRepository(creds)
		if err != nil {
			return nil, err
		}
		if err := repo.RunMigrations(creds); err != nil {
			_ = repo.Close(ctx)
			return nil, err
		}
		log.Info("Database migrations completed", zap.String("host", cfg.Database.Host))
		return repo, nil

	default:
		db, err := repository.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		repo := repository.NewMongoRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = repo.Close(ctx)
			return nil, err
		}
		log.Info("Connected to MongoDB", zap.String("database", cfg.Mongo.Database))
		return repo, nil
	}
}
