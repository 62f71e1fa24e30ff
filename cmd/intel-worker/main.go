// Command intel-worker runs the Temporal worker hosting the design pipeline.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cloudy-intel/internal/config"
	"cloudy-intel/internal/llm"
	"cloudy-intel/internal/metrics"
	"cloudy-intel/internal/rag"
	"cloudy-intel/internal/store"
	"cloudy-intel/internal/telemetry"
	"cloudy-intel/internal/temporal"
	"cloudy-intel/internal/tools"
)

func main() {
	configPath := flag.String("config", "", "Config file path (default "+config.DefaultConfigPath+" when present)")
	flag.Parse()

	// Structured logging for the library packages: JSON output for
	// production, text output for development.
	var handler slog.Handler
	if os.Getenv("LOG_FORMAT") == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
	slog.SetDefault(slog.New(handler))

	log.Println("🚀 CloudyIntel Temporal Worker")

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		log.Fatalln("❌ Failed to load config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalln("❌ Invalid config:", err)
	}

	ctx := context.Background()

	// Checkpoint store
	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		log.Fatalln("❌ Unable to open checkpoint store:", err)
	}
	if err := st.Init(); err != nil {
		log.Fatalln("❌ Unable to initialize checkpoint store:", err)
	}
	defer st.Close()
	log.Println("💾 Checkpoint store ready at", cfg.Store.Path)

	// LLM client
	llmClient, err := llm.New(cfg.LLMClientConfig())
	if err != nil {
		log.Fatalln("❌ Unable to create LLM client:", err)
	}
	log.Printf("🤖 LLM provider: %s (%s)", cfg.LLM.Provider, llmClient.ModelName())

	deps := temporal.ActivityDeps{
		LLM:         llmClient,
		Store:       st,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}

	// Documentation index is advisory: agents run without it when absent.
	if docs, err := rag.Open(cfg.RAG.IndexPath); err != nil {
		log.Println("⚠️  Documentation index unavailable, doc search disabled:", err)
	} else {
		defer docs.Close()
		deps.Docs = docs
		log.Println("📚 Documentation index ready at", cfg.RAG.IndexPath)
	}

	if cfg.Search.SerperAPIKey != "" {
		deps.Web = tools.NewWebSearch(cfg.Search.SerperAPIKey)
		log.Println("🔎 Web search enabled")
	} else {
		log.Println("⚠️  SERPER_API_KEY not set, web search disabled")
	}

	// Prometheus metrics endpoint
	if cfg.Metrics.Addr != "" {
		deps.Metrics = metrics.NewPrometheusRecorder()
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Println("❌ Metrics endpoint error:", err)
			}
		}()
		log.Println("📈 Metrics listening on", cfg.Metrics.Addr)
	}

	// OTLP trace export
	if cfg.Telemetry.Enabled {
		tcfg := telemetry.DefaultConfig()
		if cfg.Telemetry.ServiceName != "" {
			tcfg.ServiceName = cfg.Telemetry.ServiceName
		}
		if cfg.Telemetry.Endpoint != "" {
			tcfg.CollectorURL = cfg.Telemetry.Endpoint
		}
		tp, err := telemetry.NewTracerProvider(ctx, tcfg)
		if err != nil {
			log.Fatalln("❌ Unable to initialize tracing:", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Println("⚠️  Tracer shutdown error:", err)
			}
		}()
		log.Println("🛰️  Trace export enabled to", tcfg.CollectorURL)
	}

	// Temporal worker
	w, err := temporal.NewTemporalWorker(ctx, temporal.WorkerOptions{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		TaskQueue: cfg.Temporal.TaskQueue,
	})
	if err != nil {
		log.Fatalln("❌ Unable to create Temporal worker:", err)
	}
	defer w.Close()

	w.RegisterPipeline(temporal.NewActivities(deps))
	log.Println("📋 Registered design workflow and activities")

	if err := w.Start(ctx); err != nil {
		log.Fatalln("❌ Unable to start worker:", err)
	}
	log.Println("⚙️  Worker listening on task queue:", cfg.Temporal.TaskQueue)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Println("🛑 Shutdown signal received")

	if err := w.Stop(ctx); err != nil {
		log.Println("⚠️  Worker stop error:", err)
	}
	log.Println("✅ Worker stopped")
}
