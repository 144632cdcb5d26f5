// Package server exposes the correlation service over HTTP.
package server

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/skeinhq/skein/internal/config"
	"github.com/skeinhq/skein/internal/core"
	"github.com/skeinhq/skein/internal/core/correlation"
	"github.com/skeinhq/skein/internal/core/model"
	"github.com/skeinhq/skein/internal/core/network"
	"github.com/skeinhq/skein/internal/core/summary"
	"github.com/skeinhq/skein/internal/driver"
	"github.com/skeinhq/skein/internal/llm"
	"github.com/skeinhq/skein/internal/logger"
	"github.com/skeinhq/skein/internal/store"
)

// CaseStore is the read/update surface the HTTP handlers use directly.
// store.GraphStore satisfies it.
type CaseStore interface {
	SaveTarget(ctx context.Context, t *model.Target) error
	GetTarget(ctx context.Context, targetUUID string) (*model.Target, error)
	ListCaseTargets(ctx context.Context, caseID, excludeUUID string) ([]model.Target, error)
	ListForTarget(ctx context.Context, targetUUID string) ([]model.Correlation, error)
	ListForCase(ctx context.Context, caseID string) ([]model.Correlation, error)
	SetVerified(ctx context.Context, correlationUUID string, verified bool) error
}

type Server struct {
	Pipeline   *core.Pipeline
	Engine     *correlation.Engine
	Store      CaseStore
	Networks   network.Detector
	Summarizer *summary.Summarizer
	Log        *logger.Logger
}

// NewServer wires the full service from config and environment. It exits
// via Fatal on anything that makes the service unable to start.
func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		// A missing config file is fine; env vars carry the essentials.
		cfg = &config.Config{}
	}
	applyEnvOverrides(cfg)

	log, err := logger.New(cfg.Server.Mode)
	if err != nil {
		panic(err)
	}

	d, err := driver.NewMemgraphDriver(cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, log)
	if err != nil {
		log.Fatal("failed to connect to graph store", "uri", cfg.Memgraph.URI, "error", err)
	}
	if err := d.BuildIndices(context.Background()); err != nil {
		log.Warn("failed to build indices", "error", err)
	}

	graphStore := store.NewGraphStore(d)

	engine := correlation.NewEngine(graphStore, graphStore, log)
	if cfg.Analysis.Concurrency > 0 {
		engine.Concurrency = cfg.Analysis.Concurrency
	}

	srv := &Server{
		Pipeline: core.NewPipeline(graphStore, log),
		Engine:   engine,
		Store:    graphStore,
		Networks: network.NewSimpleDetector(),
		Log:      log,
	}

	// Narratives are optional; the service runs fully without a provider.
	if cfg.LLM.Provider != "" {
		llmClient, err := llm.NewClient(context.Background(), cfg.LLM)
		if err != nil {
			log.Fatal("failed to initialize llm client", "provider", cfg.LLM.Provider, "error", err)
		}
		srv.Summarizer = summary.NewSummarizer(llmClient, cfg.Summary)
	} else {
		log.Info("no llm provider configured, narrative summaries disabled")
	}

	return srv
}

func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		cfg.Memgraph.URI = v
	}
	if cfg.Memgraph.URI == "" {
		cfg.Memgraph.URI = "bolt://localhost:7687"
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		cfg.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		cfg.Memgraph.Password = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/cases/:case_id/results", s.IngestResults)
	r.GET("/cases/:case_id/networks", s.ListNetworks)
	r.POST("/cases/:case_id/networks/summary", s.SummarizeNetworks)
	r.POST("/targets/:id/analyze", s.AnalyzeTarget)
	r.GET("/targets/:id/correlations", s.ListTargetCorrelations)
	r.POST("/targets/:id/summary", s.SummarizeTarget)
	r.PUT("/correlations/:id/verify", s.VerifyCorrelation)

	return r
}
