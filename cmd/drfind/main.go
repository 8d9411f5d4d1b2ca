package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"drfind/internal/config"
	"drfind/internal/database"
	"drfind/internal/domain"
	"drfind/internal/events"
	"drfind/internal/export"
	"drfind/internal/gateway"
	"drfind/internal/logging"
	"drfind/internal/metrics"
	"drfind/internal/models"
	"drfind/internal/repository"
	"drfind/internal/service"
	"drfind/internal/store"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

// app is everything the UI layer is allowed to call.
type app struct {
	profile   *store.ProfileStore
	bookings  *store.BookingsStore
	workflow  *service.BookingWorkflow
	search    *service.SearchViewState
	persister store.Persister
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeStorage, err := openStorage(ctx, cfg, &logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	a, err := buildApp(ctx, cfg, kv, &logger)
	if err != nil {
		return err
	}

	startMetrics(ctx, cfg, &logger)

	runSmokeSearch(ctx, a, &logger)
	exportBookings(cfg, a, &logger)

	logger.Info().
		Int("bookings", a.bookings.Len()).
		Str("profile", a.profile.Profile().FullName).
		Msg("drfind core started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.persister.Flush(flushCtx); err != nil {
		logger.Error().Err(err).Msg("flush pending writes")
	}

	logger.Info().Msg("drfind core stopped")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "main").Logger()

	return cfg, logger, closer, nil
}

// openStorage opens the configured backend. With storage.failover set the
// backend is wrapped so an outage falls back to process memory.
func openStorage(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (domain.KVStore, func(), error) {
	var (
		primary domain.KVStore
		closeFn = func() {}
	)

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := database.NewDB(cfg.Storage.Path, logging.Component(logger, "sqlite"))
		if err != nil {
			logger.Error().Err(err).Str("db_path", cfg.Storage.Path).Msg("init database")
			return nil, nil, err
		}
		primary = db
		closeFn = func() { _ = db.Close() }

		backup := database.NewBackupService(cfg.Storage.Path, cfg.Backup, logging.Component(logger, "backup"))
		go backup.Start(ctx)

	case config.BackendRedis:
		client := repository.NewRedisClient(cfg.Redis)
		if err := repository.Ping(ctx, client); err != nil {
			if !cfg.Storage.Failover {
				_ = repository.Close(client)
				return nil, nil, fmt.Errorf("redis connection failed: %w", err)
			}
			logger.Warn().Err(err).Msg("redis connection failed, continuing on failover store")
		} else {
			logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
		}
		primary = repository.NewRedisStore(client, cfg.Redis.KeyPrefix)
		closeFn = func() { _ = repository.Close(client) }

	case config.BackendMemory:
		logger.Warn().Msg("memory storage selected, data will not survive a restart")
		return repository.NewMemoryStore(), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if cfg.Storage.Failover {
		failover := repository.NewFailoverStore(
			primary,
			repository.NewMemoryStore(),
			repository.DefaultBackoff,
			logging.Component(logger, "failover"),
		)
		return failover, closeFn, nil
	}
	return primary, closeFn, nil
}

func newPersister(cfg *config.Config, kv domain.KVStore, logger *zerolog.Logger) store.Persister {
	if cfg.Persistence.Mode == config.PersistDebounced {
		return store.NewDebounced(kv, cfg.Persistence.Debounce, logger)
	}
	return store.NewWriteThrough(kv, logger)
}

func buildApp(ctx context.Context, cfg *config.Config, kv domain.KVStore, logger *zerolog.Logger) (*app, error) {
	persister := newPersister(cfg, kv, logging.Component(logger, "persister"))

	bus := events.NewEventBus()
	audit := logging.Component(logger, "events")
	bus.SubscribeAll(func(e *events.Event) error {
		audit.Info().Str("event", e.Type).RawJSON("payload", e.Payload).Msg("domain event")
		return nil
	})

	placesClient, err := gateway.NewNominatimClient(cfg.Gateway, logging.Component(logger, "nominatim"))
	if err != nil {
		return nil, fmt.Errorf("init search gateway: %w", err)
	}
	routesClient, err := gateway.NewOSRMClient(cfg.Gateway, logging.Component(logger, "osrm"))
	if err != nil {
		return nil, fmt.Errorf("init directions gateway: %w", err)
	}

	storeLogger := logging.Component(logger, "store")
	profile := store.NewProfileStore(ctx, kv, persister, bus, storeLogger)
	bookings := store.NewBookingsStore(ctx, kv, persister, storeLogger)
	recent := store.NewRecentSearches(ctx, kv, persister, cfg.Search.RecentLimit, storeLogger)

	search := service.NewSearchViewState(placesClient, routesClient, recent, bus, logging.Component(logger, "search"))

	return &app{
		profile:   profile,
		bookings:  bookings,
		workflow:  service.NewBookingWorkflow(bookings, bus, logging.Component(logger, "booking")),
		search:    search,
		persister: persister,
	}, nil
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

// runSmokeSearch searches once when DRFIND_QUERY, DRFIND_LAT and DRFIND_LON
// are set, then routes to the first hit.
func runSmokeSearch(ctx context.Context, a *app, logger *zerolog.Logger) {
	query, ok := os.LookupEnv("DRFIND_QUERY")
	if !ok {
		return
	}
	lat, errLat := strconv.ParseFloat(os.Getenv("DRFIND_LAT"), 64)
	lon, errLon := strconv.ParseFloat(os.Getenv("DRFIND_LON"), 64)
	if errLat != nil || errLon != nil {
		logger.Warn().Msg("DRFIND_LAT/DRFIND_LON missing or invalid, skipping smoke search")
		return
	}

	origin := models.Coordinate{Latitude: lat, Longitude: lon}
	specialty := os.Getenv("DRFIND_SPECIALTY")
	if specialty == "" {
		specialty = models.SpecialtyAll
	}

	a.search.CenterOnUser(&origin)
	places := a.search.Search(ctx, query, specialty, &origin)
	logger.Info().
		Str("query", service.ComposeQuery(query, specialty)).
		Int("results", len(places)).
		Msg("smoke search finished")

	for _, p := range places {
		logger.Debug().
			Str("id", p.ID).
			Str("name", p.Name).
			Str("kind", service.ProviderKindOf(p)).
			Str("address", p.Subtitle).
			Msg("provider")
	}

	if len(places) == 0 {
		return
	}
	a.search.Select(places[0])
	if line, ok := a.search.BuildRoute(ctx, &origin, &places[0].Coordinate); ok {
		logger.Info().Str("to", places[0].Name).Int("points", len(line)).Msg("route built")
	}

	// DRFIND_BOOK_AT (RFC3339) books the first hit for the profile owner
	if at, err := time.Parse(time.RFC3339, os.Getenv("DRFIND_BOOK_AT")); err == nil {
		name, contact, _ := service.ResolveAttendee(a.profile.Profile(), true, "", "")
		b := a.workflow.Submit(ctx, places[0], at, name, contact, nil)
		logger.Info().Str("booking_id", b.ID).Str("place", b.PlaceName).Msg("smoke booking created")
	}
}

// exportBookings writes an xlsx snapshot of the bookings when DRFIND_EXPORT
// is set.
func exportBookings(cfg *config.Config, a *app, logger *zerolog.Logger) {
	if os.Getenv("DRFIND_EXPORT") == "" {
		return
	}
	path, err := export.SaveBookingsXLSX(cfg.Exports.Path, a.bookings.List(), time.Now())
	if err != nil {
		logger.Error().Err(err).Msg("export bookings")
		return
	}
	logger.Info().Str("path", path).Msg("bookings exported")
}
