package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/anjila-26/spa-concierge/internal/api/router"
	"github.com/anjila-26/spa-concierge/internal/appointments"
	"github.com/anjila-26/spa-concierge/internal/chat"
	appconfig "github.com/anjila-26/spa-concierge/internal/config"
	"github.com/anjila-26/spa-concierge/internal/conversation"
	"github.com/anjila-26/spa-concierge/internal/nlu"
	"github.com/anjila-26/spa-concierge/internal/observability/metrics"
	"github.com/anjila-26/spa-concierge/internal/pricing"
	"github.com/anjila-26/spa-concierge/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting spa-concierge API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	store, pool := buildStore(ctx, cfg, logger)
	if pool != nil {
		defer pool.Close()
	}

	registry := prometheus.NewRegistry()
	chatMetrics := metrics.NewChatMetrics(registry)

	classifier, extractor := buildNLU(cfg, logger)

	engine := conversation.NewEngine(classifier, extractor, pricing.NewLookup(), store,
		conversation.WithLogger(logger.Component("conversation")),
		conversation.WithMetrics(chatMetrics),
		conversation.WithDefaultUserID(cfg.DefaultUserID),
	)

	dispatcher := buildDispatcher(ctx, cfg, engine, chatMetrics, logger)

	transcript := buildTranscriptStore(cfg, logger)

	chatHandler := chat.NewHandler(dispatcher, store, transcript, logger.Component("chat"), cfg.DefaultUserID)

	r := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        chatHandler,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		ChatRatePerSecond:  cfg.ChatRatePerSecond,
		ChatRateBurst:      cfg.ChatRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		logger.Error("dispatcher forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

// buildStore picks Postgres when DATABASE_URL is set, otherwise the in-memory
// store. The pool is returned for lifecycle management and is nil for memory.
func buildStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (appointments.Store, *pgxpool.Pool) {
	if cfg.DatabaseURL == "" {
		logger.Info("using in-memory appointment store")
		return appointments.NewMemoryStore(), nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to reach database", "error", err)
		os.Exit(1)
	}
	logger.Info("using postgres appointment store")
	return appointments.NewPostgresRepository(pool), pool
}

// buildNLU selects the classifier/extractor pair by mode: local rules, the
// model sidecar, or the sidecar with a rules fallback.
func buildNLU(cfg *appconfig.Config, logger *logging.Logger) (nlu.Classifier, nlu.Extractor) {
	rules := nlu.NewRuleClassifier()
	ruleExtractor := nlu.NewRuleExtractor()

	switch cfg.ClassifierMode {
	case "http", "fallback":
		if cfg.ClassifierURL == "" {
			logger.Warn("classifier mode requires CLASSIFIER_URL, using rules", "mode", cfg.ClassifierMode)
			return rules, ruleExtractor
		}
		remote := nlu.NewModelServerClient(cfg.ClassifierURL,
			nlu.WithTimeout(cfg.ClassifierTimeout),
			nlu.WithLogger(logger.Component("nlu")),
		)
		var classifier nlu.Classifier = remote
		if cfg.ClassifierMode == "fallback" {
			classifier = nlu.NewFallbackClassifier(remote, rules, logger.Component("nlu"))
		}

		var extractor nlu.Extractor = remote
		if cfg.ExtractorURL != "" && cfg.ExtractorURL != cfg.ClassifierURL {
			extractor = nlu.NewModelServerClient(cfg.ExtractorURL,
				nlu.WithTimeout(cfg.ClassifierTimeout),
				nlu.WithLogger(logger.Component("nlu")),
			)
		}
		return classifier, extractor
	default:
		return rules, ruleExtractor
	}
}

// buildDispatcher wires the queue-backed orchestrator, in-memory by default
// and SQS when configured.
func buildDispatcher(ctx context.Context, cfg *appconfig.Config, engine conversation.Service, m *metrics.ChatMetrics, logger *logging.Logger) conversation.Dispatcher {
	var queueOpt conversation.OrchestratorOption = conversation.WithWorkerCount(cfg.WorkerCount)

	if cfg.UseMemoryQueue || cfg.ChatQueueURL == "" {
		logger.Info("using in-memory chat queue")
		return conversation.NewOrchestrator(engine, conversation.NewMemoryQueue(64), logger.Component("dispatcher"),
			queueOpt,
			conversation.WithOrchestratorMetrics(m),
		)
	}

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	sqsClient := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.AWSEndpointOverride != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointOverride)
		}
	})

	logger.Info("using SQS chat queue", "queue_url", cfg.ChatQueueURL)
	return conversation.NewOrchestrator(engine, conversation.NewSQSQueue(sqsClient, cfg.ChatQueueURL), logger.Component("dispatcher"),
		queueOpt,
		conversation.WithOrchestratorMetrics(m),
	)
}

func loadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

// buildTranscriptStore returns nil when Redis is not configured; chat history
// then reads empty.
func buildTranscriptStore(cfg *appconfig.Config, logger *logging.Logger) *conversation.TranscriptStore {
	if cfg.RedisAddr == "" {
		logger.Info("redis not configured, chat history disabled")
		return nil
	}

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	logger.Info("chat history enabled", "redis_addr", cfg.RedisAddr)
	return conversation.NewTranscriptStore(redis.NewClient(opts))
}
