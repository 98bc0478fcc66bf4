package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"queuay-worker/internal/browser"
	"queuay-worker/internal/config"
	"queuay-worker/internal/database"
	"queuay-worker/internal/executor"
	"queuay-worker/internal/heal"
	"queuay-worker/internal/logger"
	"queuay-worker/internal/messaging"
	"queuay-worker/internal/orchestrator"
	"queuay-worker/internal/repository"
	"queuay-worker/internal/scheduler"
	"queuay-worker/internal/screenshot"
	"queuay-worker/internal/worker"
)

const (
	rabbitMaxRetries = 5
	rabbitRetryDelay = 5 * time.Second
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("starting run-execution worker",
		zap.Int("concurrency", cfg.WorkerConcurrency),
		zap.String("db", cfg.MaskedDSN()))

	go startMetricsServer(cfg.MetricsPort, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	dbPool, err := database.Connect(ctx, cfg.GetDSN(), database.ConnectOptions{
		MaxConns:    cfg.DBMaxConns,
		IdleTimeout: cfg.DBIdleTimeout,
		MaxRetries:  50,
		RetryDelay:  3 * time.Second,
	}, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	if err := database.RunMigrations(ctx, dbPool, cfg.MigrationsDir, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, progress snapshots degraded", zap.Error(err))
	}

	// RabbitMQ
	conn, err := connectRabbitMQ(cfg.RabbitMQURL, log)
	if err != nil {
		log.Fatal("failed to connect to rabbitmq", zap.Error(err))
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("failed to open channel", zap.Error(err))
	}
	defer ch.Close()

	if err := messaging.DeclareRunQueue(ch); err != nil {
		log.Fatal("failed to declare queue topology", zap.Error(err))
	}

	// Repositories
	runRepo := repository.NewPgRunRepository(dbPool)
	storyRepo := repository.NewPgStoryRepository(dbPool)
	resultRepo := repository.NewPgResultRepository(dbPool)
	envRepo := repository.NewPgEnvironmentRepository(dbPool)
	scheduleRepo := repository.NewPgScheduleRepository(dbPool)

	// Execution stack
	driver := browser.NewPlaywrightDriver(browser.Options{
		Headless:          cfg.Headless,
		NavigationTimeout: float64(cfg.NavigationTimeout.Milliseconds()),
		SettleTimeout:     float64(cfg.SettleTimeout.Milliseconds()),
	}, log)
	defer func() {
		if err := driver.Shutdown(); err != nil {
			log.Warn("browser shutdown failed", zap.Error(err))
		}
	}()

	var healService heal.Service
	if cfg.HealEnabled() {
		healService = heal.NewService(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel,
			&http.Client{Timeout: cfg.AITimeout}, log)
		log.Info("ai heal service enabled", zap.String("model", cfg.AIModel))
	} else {
		log.Info("ai heal service disabled, no api key")
	}

	var screenshots screenshot.Store
	if cfg.ScreenshotOnFailure {
		screenshots = screenshot.NewFileStore(cfg.ScreenshotDir, cfg.ScreenshotBaseURL)
	}

	var inspector executor.ScreenshotInspector
	if healService != nil {
		inspector = healService
	}

	runner := executor.NewStoryRunner(
		driver,
		executor.NewStepExecutor(log),
		executor.NewVerifier(inspector, log),
		heal.NewDiagnostics(healService, log),
		screenshots,
		executor.Options{
			RetryCount:          cfg.StepRetryCount,
			RetryBackoff:        cfg.StepRetryBackoff,
			ScreenshotOnFailure: cfg.ScreenshotOnFailure,
		},
		log,
	)

	progress := orchestrator.NewRedisProgressPublisher(redisClient, cfg.ProgressTTL)
	orch := orchestrator.New(runRepo, storyRepo, resultRepo, envRepo, runner, progress, log)
	handler := worker.NewHandler(orch, runRepo, log)

	consumer := messaging.NewRunConsumer(ch, handler, cfg.WorkerConcurrency, log)
	if err := consumer.Start(ctx); err != nil {
		log.Fatal("failed to start consumer", zap.Error(err))
	}

	publisher := messaging.NewRunPublisher(ch, log)
	trigger := scheduler.NewTrigger(scheduleRepo, runRepo, publisher, cfg.ScheduleInterval, log)
	go trigger.Start(ctx)

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stopChan
	log.Info("shutdown signal received", zap.String("signal", sig.String()))

	// Stop pulling new work, let in-flight runs drain, then release the
	// browser and connections via the deferred closers.
	cancel()
	if err := ch.Close(); err != nil {
		log.Warn("failed to close channel", zap.Error(err))
	}
	consumer.Wait()

	log.Info("worker stopped")
}

func startMetricsServer(port string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	log.Info("metrics server listening", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Error("metrics server stopped", zap.Error(err))
	}
}

func connectRabbitMQ(url string, log *zap.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < rabbitMaxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		log.Warn("rabbitmq connection failed, retrying",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", rabbitMaxRetries),
			zap.Error(err))
		time.Sleep(rabbitRetryDelay)
	}
	return nil, err
}
