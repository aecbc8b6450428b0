package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/totegamma/syscoin-offchain/client"
	"github.com/totegamma/syscoin-offchain/internal/config"
	"github.com/totegamma/syscoin-offchain/internal/infra/database"
	"github.com/totegamma/syscoin-offchain/internal/infra/gateway"
	"github.com/totegamma/syscoin-offchain/internal/infra/repository"
	"github.com/totegamma/syscoin-offchain/internal/present/rest"
	"github.com/totegamma/syscoin-offchain/internal/present/rest/middleware"
	"github.com/totegamma/syscoin-offchain/internal/service"
	"github.com/totegamma/syscoin-offchain/internal/usecase"
)

const serviceName = "syscoin-offchain"

func main() {
	configPath := flag.String("config", os.Getenv("OFFCHAIN_CONFIG"), "path to the yaml config file")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if conf.Server.EnableTrace {
		shutdown, err := setupTraceProvider(ctx, conf.Server.TraceEndpoint)
		if err != nil {
			slog.Error("failed to setup tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				slog.Error("failed to shutdown tracing", slog.String("error", err.Error()))
			}
		}()
	}

	db, err := database.Open(conf.Server.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = database.Migrate(db)
	if err != nil {
		slog.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	node := client.New(client.Options{
		Host:     conf.Syscoin.Host,
		Port:     conf.Syscoin.Port,
		Username: conf.Syscoin.Username,
		Password: conf.Syscoin.Password,
		Timeout:  conf.Syscoin.Timeout,
	})

	var aliasDataRepo usecase.AliasDataRepository = repository.NewAliasDataRepository(db)
	if mc := database.NewMemcached(conf.Server); mc != nil {
		aliasDataRepo = repository.NewCachedAliasDataRepository(aliasDataRepo, mc, conf.Server.CacheTTL)
	}

	var publisher usecase.AliasDataPublisher
	if rdb := database.NewRedis(conf.Server); rdb != nil {
		defer rdb.Close()
		publisher = service.NewSignalService(rdb)
	}

	aliasDataUsecase := usecase.NewAliasDataUsecase(
		aliasDataRepo,
		gateway.NewOwnerGateway(node, conf.Syscoin.Timeout),
		publisher,
		conf.Server.BaseURL,
	)
	reportUsecase := usecase.NewReportUsecase(repository.NewOfferReportRepository(db))
	nodeUsecase := usecase.NewNodeUsecase(node)

	limiter := middleware.NewRateLimiter(middleware.RateLimit{
		Window: conf.RateLimit.Window,
		Max:    conf.RateLimit.Max,
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware(serviceName))
	}
	e.Use(middleware.NewMetrics(prometheus.DefaultRegisterer).Middleware)

	rest.NewHandler(aliasDataUsecase, reportUsecase, nodeUsecase, limiter).RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf(":%d", conf.Server.Port)
		slog.Info("starting server", slog.String("addr", addr), slog.String("baseURL", conf.Server.BaseURL))
		err := e.Start(addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
}

func setupTraceProvider(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithInsecure()}
	if endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}
