// Command versestream serves the live scripture quotation API: transcript
// fragments come in over POST /api/stream, detected verses stream back as
// chunked JSON events.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillsenselab/versestream/component"
	"github.com/skillsenselab/versestream/config"
	"github.com/skillsenselab/versestream/contextcache"
	"github.com/skillsenselab/versestream/extraction"
	"github.com/skillsenselab/versestream/llm"
	"github.com/skillsenselab/versestream/llm/gemini"
	"github.com/skillsenselab/versestream/logger"
	"github.com/skillsenselab/versestream/observability"
	"github.com/skillsenselab/versestream/quote"
	"github.com/skillsenselab/versestream/scripture"
	"github.com/skillsenselab/versestream/server"
)

const serviceName = "versestream"

// OracleConfig selects and configures the LLM backend.
type OracleConfig struct {
	Provider       string  `yaml:"provider" mapstructure:"provider"`
	APIKey         string  `yaml:"api_key" mapstructure:"api_key"`
	Model          string  `yaml:"model" mapstructure:"model"`
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	Temperature    float64 `yaml:"temperature" mapstructure:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// AppConfig is the full service configuration.
type AppConfig struct {
	Logging   logger.Config              `yaml:"logging" mapstructure:"logging"`
	Server    server.Config              `yaml:"server" mapstructure:"server"`
	Tracing   observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Cache     contextcache.Config        `yaml:"cache" mapstructure:"cache"`
	Scripture scripture.Config           `yaml:"scripture" mapstructure:"scripture"`
	Quote     quote.Config               `yaml:"quote" mapstructure:"quote"`
	Oracle    OracleConfig               `yaml:"oracle" mapstructure:"oracle"`
}

func main() {
	var cfg AppConfig
	if err := config.LoadConfig(serviceName, &cfg); err != nil {
		logger.Fatal("Failed to load configuration", logger.Fields("error", err.Error()))
	}

	cfg.Logging.ApplyDefaults()
	log := logger.New(&cfg.Logging, serviceName)
	logger.SetGlobalLogger(log)

	cfg.Server.ApplyDefaults()
	if err := cfg.Server.Validate(); err != nil {
		log.Fatal("Invalid server configuration", logger.Fields("error", err.Error()))
	}
	cfg.Tracing.ApplyDefaults()
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = serviceName
	}

	ctx := context.Background()

	tp, err := observability.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		log.Fatal("Failed to initialize tracer", logger.Fields("error", err.Error()))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	store := scripture.NewStore(log)
	if err := store.Load(cfg.Scripture); err != nil {
		log.Fatal("Failed to load scripture datasets", logger.Fields("error", err.Error()))
	}

	cache := contextcache.New(cfg.Cache, log)

	provider, err := buildProvider(cfg.Oracle)
	if err != nil {
		log.Fatal("Failed to build oracle provider", logger.Fields("error", err.Error()))
	}
	log.Info("Oracle provider ready", logger.Fields(
		"provider", provider.Name(),
		"available", provider.IsAvailable(ctx),
	))

	svc := quote.NewService(cfg.Quote, cache, store, extraction.NewExtractor(provider, log), log)

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	quote.NewHandler(svc, log).Register(srv.GinEngine())
	srv.RegisterHealthEndpoint(serviceName, store, cache, &oracleComponent{provider}, srv)

	components := component.NewRegistry()
	for _, c := range []component.Component{cache, srv} {
		if err := components.Register(c); err != nil {
			log.Fatal("Failed to register component", logger.Fields("error", err.Error()))
		}
	}

	if err := components.StartAll(ctx); err != nil {
		log.Fatal("Startup failed", logger.Fields("error", err.Error()))
	}
	log.Info("Service ready", logger.Fields(
		"addr", srv.Addr(),
		"translations", store.Translations(),
	))

	waitForSignal(log)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := components.StopAll(shutdownCtx); err != nil {
		log.Error("Shutdown completed with errors", logger.Fields("error", err.Error()))
		os.Exit(1)
	}
	log.Info("Shutdown complete")
}

// oracleComponent exposes the LLM backend on the health endpoint. An
// unreachable oracle degrades the service rather than failing it: requests
// still stream error events instead of being refused.
type oracleComponent struct {
	provider llm.Provider
}

func (o *oracleComponent) Name() string                { return "oracle-" + o.provider.Name() }
func (o *oracleComponent) Start(context.Context) error { return nil }
func (o *oracleComponent) Stop(context.Context) error  { return nil }
func (o *oracleComponent) Health(ctx context.Context) component.Health {
	if o.provider.IsAvailable(ctx) {
		return component.Health{Name: o.Name(), Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    o.Name(),
		Status:  component.StatusDegraded,
		Message: "oracle unreachable",
	}
}

// buildProvider constructs the configured LLM backend from the registry.
func buildProvider(cfg OracleConfig) (llm.Provider, error) {
	registry := llm.NewRegistry()
	registry.Register(gemini.ProviderName, gemini.Factory())

	name := cfg.Provider
	if name == "" {
		name = gemini.ProviderName
	}
	return registry.New(name, map[string]any{
		"api_key":     cfg.APIKey,
		"model":       cfg.Model,
		"base_url":    cfg.BaseURL,
		"temperature": cfg.Temperature,
		"timeout":     time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
}

func waitForSignal(log *logger.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
}
