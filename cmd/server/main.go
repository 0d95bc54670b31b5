package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	branchHandler "stocktrail/internal/branch/handler"
	branchService "stocktrail/internal/branch/service"
	"stocktrail/internal/directory"
	logHandler "stocktrail/internal/locationlog/handler"
	logService "stocktrail/internal/locationlog/service"
	"stocktrail/internal/platform/config"
	"stocktrail/internal/platform/httpserver"
	"stocktrail/internal/platform/logger"
	"stocktrail/internal/platform/metrics"
	"stocktrail/internal/platform/middleware"
	platformRedis "stocktrail/internal/platform/redis"
	"stocktrail/internal/seed"
	staffHandler "stocktrail/internal/staff/handler"
	"stocktrail/internal/staff/lockout"
	staffService "stocktrail/internal/staff/service"
	"stocktrail/internal/transfer/events"
	transferHandler "stocktrail/internal/transfer/handler"
	transferMetrics "stocktrail/internal/transfer/metrics"
	"stocktrail/internal/transfer/qr"
	transferService "stocktrail/internal/transfer/service"
	"stocktrail/pkg/platform/httputil"
	"stocktrail/pkg/platform/middleware/metadata"
	"stocktrail/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("stocktrail stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.New(reg)
	workflowMetrics := transferMetrics.New(reg)

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	redisClient, err := platformRedis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var resolverOpts []directory.Option
	resolverOpts = append(resolverOpts, directory.WithLogger(log))
	var lockoutStore lockout.Store = lockout.NewInMemory()
	if redisClient != nil {
		lockoutStore = lockout.NewRedisStore(redisClient.Client)
		defer redisClient.Close()
		resolverOpts = append(resolverOpts, directory.WithCache(directory.NewRedisCache(redisClient.Client, cfg.Redis.NameCacheTTL)))
		log.Info("name cache enabled", "ttl", cfg.Redis.NameCacheTTL.String())
	}
	names := directory.NewResolver(st.staff, st.branches, st.products, resolverOpts...)

	branches := branchService.New(st.branches, branchService.WithLogger(log))
	guard := lockout.New(lockoutStore,
		lockout.WithLogger(log),
		lockout.WithLimit(cfg.Lockout.Attempts, cfg.Lockout.Window),
	)
	staff := staffService.New(st.staff,
		staffService.WithLogger(log),
		staffService.WithBranchLookup(branches),
		staffService.WithLockout(guard),
	)

	var publisher transferService.Publisher
	var kafka *events.KafkaPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err = events.NewKafkaPublisher(ctx, cfg.Kafka.Brokers, cfg.Kafka.TransferTopic)
		if err != nil {
			return err
		}
		defer kafka.Close()
		dispatcher := events.NewDispatcher(events.NewBreakerSink(kafka, log),
			events.WithLogger(log),
			events.WithDropCounter(workflowMetrics.EventsDropped.Inc),
		)
		go func() {
			_ = dispatcher.Run(ctx)
		}()
		publisher = dispatcher
		log.Info("transfer event feed enabled", "topic", cfg.Kafka.TransferTopic)
	}

	transfers := transferService.New(st.tx, st.slips, staff, branches, names,
		transferService.WithLogger(log),
		transferService.WithMetrics(workflowMetrics),
		transferService.WithRenderer(qr.NewRenderer(cfg.Transfer.QRSize)),
		transferService.WithPublisher(publisher),
		transferService.WithAuditCancellations(cfg.Transfer.AuditCancellations),
		transferService.WithTimeout(cfg.Transfer.OperationTimeout),
	)
	history := logService.New(st.log, names,
		logService.WithLogger(log),
		logService.WithPageSize(cfg.Transfer.HistoryPageSize),
		logService.WithTransferReset(st.slips, st.reset),
	)

	if cfg.SeedDemo && cfg.Database.URL == "" {
		demo, err := seed.SeedDemo(ctx, branches, staff, st.products)
		if err != nil {
			return err
		}
		log.Info("demo data seeded", "branches", len(demo.Branches), "staff", len(demo.Staff), "products", len(demo.Products))
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.LatencyMiddleware(httpMetrics))

	r.Get("/health", healthHandler(st.ping, redisClient, kafka))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	branchHandler.New(branches, log, cfg.Server.AdminToken).Register(r)
	staffHandler.New(staff, log, cfg.Server.AdminToken).Register(r)
	logHandler.New(history, log, cfg.Server.AdminToken).Register(r)
	transferHandler.New(transfers, log).Register(r)

	if cfg.Server.AdminToken == "" {
		log.Warn("ADMIN_API_TOKEN is empty; admin routes will reject every request")
	}

	srv := httpserver.New(cfg.Server, r)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting stocktrail", "addr", cfg.Server.Addr, "storage", st.kind)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func healthHandler(pingDB func(context.Context) error, redisClient *platformRedis.Client, kafka *events.KafkaPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		status := map[string]string{"database": "ok"}
		healthy := true
		if err := pingDB(ctx); err != nil {
			status["database"] = err.Error()
			healthy = false
		}
		if redisClient != nil {
			status["redis"] = "ok"
			if err := redisClient.Health(ctx); err != nil {
				status["redis"] = err.Error()
				healthy = false
			}
		}
		if kafka != nil {
			status["kafka"] = "ok"
			if err := kafka.Ping(ctx); err != nil {
				// Events are best effort; a broker outage degrades but does not fail health.
				status["kafka"] = err.Error()
			}
		}
		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, code, status)
	}
}
