package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/reflection"

	"github.com/light-bringer/procat-search/internal/pkg/condition"
	"github.com/light-bringer/procat-search/internal/services"
	"github.com/light-bringer/procat-search/internal/transport/grpc/search"
	httphandler "github.com/light-bringer/procat-search/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Load configuration from environment variables
	config := loadConfig()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel}))
	slog.SetDefault(logger)

	log.Printf("Starting Product Search Service...")
	log.Printf("Spanner Database: %s", config.SpannerDB)
	log.Printf("gRPC Port: %s", config.GRPCPort)
	log.Printf("HTTP Port: %s", config.HTTPPort)

	// 2. Initialize service dependencies (DI container)
	serviceOpts, err := services.NewServiceOptions(ctx, services.Config{
		SpannerDB:   config.SpannerDB,
		ParamPrefix: config.ParamPrefix,
		LoadSchema:  config.LoadSchema,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	// 3. Create gRPC server and register services
	grpcServer := grpc.NewServer()
	search.RegisterSearchServiceServer(grpcServer, serviceOpts.SearchHandler)

	// Enable reflection (for grpcurl and debugging)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", ":"+config.GRPCPort)
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port: %w", err)
	}

	// 4. Start gRPC server in background
	go func() {
		log.Printf("gRPC server listening on :%s", config.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			log.Printf("gRPC server error: %v", err)
		}
	}()

	// 5. Create HTTP server backed by a gRPC client
	grpcConn, err := grpc.NewClient("localhost:"+config.GRPCPort, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to create gRPC client: %w", err)
	}
	defer grpcConn.Close()

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/v1/products/search", httphandler.NewSearchHandler(search.NewSearchServiceClient(grpcConn)))

	httpServer := &http.Server{
		Addr:    ":" + config.HTTPPort,
		Handler: httpMux,
	}

	// 6. Start HTTP server in background
	go func() {
		log.Printf("HTTP server listening on :%s", config.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// 7. Graceful shutdown handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down gracefully...")

	if err := httpServer.Shutdown(context.Background()); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	grpcServer.GracefulStop()

	return nil
}

// Config holds application configuration.
type Config struct {
	SpannerDB   string
	GRPCPort    string
	HTTPPort    string
	LogLevel    slog.Level
	ParamPrefix string
	LoadSchema  bool
}

// loadConfig loads configuration from environment variables with defaults.
func loadConfig() Config {
	spannerDB := os.Getenv("SPANNER_DATABASE")
	if spannerDB == "" {
		// Default for local development with emulator
		spannerDB = "projects/test-project/instances/dev-instance/databases/product-catalog-db"
	}

	grpcPort := os.Getenv("GRPC_PORT")
	if grpcPort == "" {
		grpcPort = "9090"
	}

	httpPort := os.Getenv("HTTP_PORT")
	if httpPort == "" {
		httpPort = "8080"
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(os.Getenv("LOG_LEVEL")))); err != nil {
		level = slog.LevelInfo
	}

	paramPrefix := os.Getenv("SEARCH_PARAM_PREFIX")
	if paramPrefix == "" {
		paramPrefix = condition.DefaultParamPrefix
	}

	loadSchema, _ := strconv.ParseBool(os.Getenv("SEARCH_LOAD_SCHEMA"))

	return Config{
		SpannerDB:   spannerDB,
		GRPCPort:    grpcPort,
		HTTPPort:    httpPort,
		LogLevel:    level,
		ParamPrefix: paramPrefix,
		LoadSchema:  loadSchema,
	}
}
