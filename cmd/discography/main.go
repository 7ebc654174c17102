package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/totegamma/discography/internal/config"
	"github.com/totegamma/discography/internal/infra/database"
	"github.com/totegamma/discography/internal/infra/memory"
	"github.com/totegamma/discography/internal/infra/repository"
	"github.com/totegamma/discography/internal/present/rest"
	restmw "github.com/totegamma/discography/internal/present/rest/middleware"
	"github.com/totegamma/discography/internal/service"
	"github.com/totegamma/discography/internal/usecase"
)

const serviceName = "discography"

var version = "dev"

func main() {
	configPath := flag.String("config", os.Getenv("DISCOGRAPHY_CONFIG"), "path to the yaml config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if conf.Server.EnableTrace {
		cleanup, err := setupTraceProvider(ctx, conf.Server.TraceEndpoint)
		if err != nil {
			slog.Error("failed to setup tracer", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer cleanup()
	}

	repos, err := openRepositories(conf)
	if err != nil {
		slog.Error("failed to open storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if conf.Catalog.Seed {
		err = database.Seed(ctx, repos)
		if err != nil {
			slog.Error("failed to seed catalog", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	var events usecase.EventPublisher
	var stream rest.EventStream
	if conf.Server.RedisAddr != "" {
		rdb, err := database.NewRedis(ctx, conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)
		if err != nil {
			slog.Error("failed to connect redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer rdb.Close()
		signalService := service.NewSignalService(rdb)
		events = signalService
		stream = signalService
	}

	handler := rest.NewHandler(
		usecase.NewBandUsecase(repos.Bands, events),
		usecase.NewAlbumUsecase(repos.Albums, repos.Bands, repos.Musicians, events),
		usecase.NewMusicianUsecase(repos.Musicians, repos.Bands, events),
		usecase.NewSongUsecase(repos.Songs, repos.Albums, repos.Musicians, events, conf.Catalog),
		usecase.NewBandCollectionUsecase(repos.Bands, events),
		stream,
	)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		// a plain OPTIONS request lists the allowed methods instead of being
		// answered as a preflight
		Skipper: func(c echo.Context) bool {
			return c.Request().Method == http.MethodOptions && c.Request().Header.Get(echo.HeaderOrigin) == ""
		},
		ExposeHeaders: []string{echo.HeaderLocation, "X-Pagination"},
	}))
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware(serviceName, otelecho.WithSkipper(func(c echo.Context) bool {
			return c.Path() == "/api/realtime"
		})))
	}
	e.Use(restmw.RequestLog)

	handler.RegisterRoutes(e)

	go func() {
		slog.Info("server started", slog.String("listen", conf.Server.Listen), slog.String("storage", conf.Server.Storage))
		err := e.Start(conf.Server.Listen)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
}

func openRepositories(conf config.Config) (database.Repositories, error) {
	if conf.Server.Storage == config.StorageMemory {
		store := memory.NewStore()
		return database.Repositories{
			Bands:     memory.NewBandRepository(store),
			Albums:    memory.NewAlbumRepository(store),
			Musicians: memory.NewMusicianRepository(store),
			Songs:     memory.NewSongRepository(store),
		}, nil
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		return database.Repositories{}, err
	}
	err = database.MigratePostgres(db)
	if err != nil {
		return database.Repositories{}, err
	}
	return database.Repositories{
		Bands:     repository.NewBandRepository(db),
		Albums:    repository.NewAlbumRepository(db),
		Musicians: repository.NewMusicianRepository(db),
		Songs:     repository.NewSongRepository(db),
	}, nil
}

func setupTraceProvider(ctx context.Context, endpoint string) (func(), error) {
	exporter, err := otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version),
	)

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.1))),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}
	return cleanup, nil
}
