package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/handlers"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/auth"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/cart"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/categories"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/config"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/consul"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/orders"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/products"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/reviews"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/stores/kafka"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/stores/postgres"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
)

func main() {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	var logHandler slog.Handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	if os.Getenv("GIN_MODE") == gin.ReleaseMode {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(logHandler))

	if err := run(); err != nil {
		slog.Error("storefront stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// the storefront keeps serving without a database, reads come back empty
	var db *sql.DB
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, catalog reads will be empty and orders refused")
	} else if db, err = postgres.OpenDB(ctx, cfg.DatabaseURL); err != nil {
		slog.Warn("database not available, continuing without it", slog.String("error", err.Error()))
		db = nil
	} else {
		defer db.Close()
		if err := postgres.Migrate(db); err != nil {
			return err
		}
	}

	var carts cart.Store = cart.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis not reachable, carts will not survive a restart", slog.String("error", err.Error()))
		} else {
			carts = cart.NewRedisStore(rdb, cfg.CartTTL)
		}
	}

	var events handlers.EventProducer
	if len(cfg.KafkaBrokers) > 0 {
		k, err := kafka.NewConf(cfg.KafkaBrokers, cfg.ServiceName)
		if err != nil {
			return err
		}
		defer k.Close()
		events = k
	}

	keys, err := auth.NewKeys(cfg.OrderTokenSecret, cfg.OrderTokenTTL)
	if err != nil {
		return err
	}

	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.CartTTL / time.Second),
		HttpOnly: true,
		Secure:   cfg.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	}

	catalog := products.NewConf(db)
	cats := categories.NewConf(db)
	revs := reviews.NewConf(db)

	router := handlers.API(cfg.EndpointPrefix, handlers.Services{
		Catalog:    &catalog,
		Categories: &cats,
		Reviews:    &revs,
		Orders:     orders.NewConf(db),
		Carts:      carts,
		Sessions:   sessionStore,
		Keys:       keys,
		Events:     events,
	})
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(middleware.UnaryLogger()))
	handlers.RegisterCatalogServer(grpcServer, handlers.NewCatalogServiceHandler(&catalog, &cats))
	lis, err := net.Listen("tcp", ":"+strconv.Itoa(cfg.GRPCPort))
	if err != nil {
		return err
	}

	if cfg.ConsulAddr != "" {
		client, err := consul.NewClient(cfg.ConsulAddr)
		if err != nil {
			return err
		}
		reg := consul.Registration{Name: cfg.ServiceName, Host: cfg.ServiceHost, HTTPPort: cfg.Port, GRPCPort: cfg.GRPCPort}
		if err := consul.RegisterService(client, reg); err != nil {
			slog.Warn("service registration failed", slog.String("error", err.Error()))
		} else {
			defer func() {
				if err := consul.DeregisterService(client, reg); err != nil {
					slog.Warn("service deregistration failed", slog.String("error", err.Error()))
				}
			}()
		}
	}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		slog.Info("grpc server starting", slog.Int("port", cfg.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	grpcServer.GracefulStop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("server exited")
	return nil
}
