package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallet-sentry/internal/analyst"
	"wallet-sentry/internal/bot"
	"wallet-sentry/internal/cache"
	"wallet-sentry/internal/config"
	"wallet-sentry/internal/handler"
	"wallet-sentry/internal/provider"
	"wallet-sentry/internal/risk"
	"wallet-sentry/internal/service"
	"wallet-sentry/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "wallet-sentry/docs"
)

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	initRedisFunc  = cache.InitRedis
	initTracerFunc = tracing.InitTracer

	newHoldingsProviderFunc = func(tracer trace.Tracer, cfg *config.Config) service.HoldingsProvider {
		return provider.NewSolanaTrackerProvider(tracer, cfg.SolanaTrackerBaseURL, cfg.SolanaTrackerAPIKey)
	}
	newTransactionsProviderFunc = func(tracer trace.Tracer, cfg *config.Config) service.TransactionsProvider {
		return provider.NewBirdeyeProvider(tracer, cfg.BirdeyeBaseURL, cfg.BirdeyeAPIKey)
	}
	newLLMClientFunc = analyst.NewOpenAIClient

	startTelegramBotFunc   = bot.StartTelegramBot
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Wallet Sentry API
// @version         1.0
// @description     Solana wallet risk analysis service with OpenTelemetry tracing.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initRedisFunc(ctx, cfg.RedisURL)

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	holdings := newHoldingsProviderFunc(tracer, cfg)
	transactions := newTransactionsProviderFunc(tracer, cfg)
	walletService := service.NewWalletService(
		tracer,
		holdings,
		transactions,
		cache.Client,
		time.Duration(cfg.WalletCacheTTLSecs)*time.Second,
	)

	engine := risk.NewEngine()
	analyzer := analyst.NewAnalyzer(
		tracer,
		engine,
		newLLMClientFunc(cfg.OpenAIAPIKey),
		cfg.OpenAIModel,
		analyst.PromptMode(cfg.AnalystPromptMode),
		time.Duration(cfg.LLMTimeoutSecs)*time.Second,
	)

	startTelegramBotFunc(cfg.TelegramBotToken, walletService, analyzer)

	h := handler.New(tracer, walletService, analyzer)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("wallet-sentry"))
	r.Use(handler.APIKeyAuth(cfg.APIKey))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
