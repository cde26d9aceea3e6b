package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/roach88/whatif/internal/config"
	"github.com/roach88/whatif/internal/explain"
	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/oracle/remote"
	"github.com/roach88/whatif/internal/oracle/satoracle"
	"github.com/roach88/whatif/internal/pipeline"
	"github.com/roach88/whatif/internal/store"
	"github.com/roach88/whatif/internal/whatif"
)

// openService opens the configured store and wires the pipeline around
// the configured oracle. The caller closes the store.
func (o *RootOptions) openService(ctx context.Context) (*pipeline.Service, error) {
	cfg := o.Config
	backend, err := NewBackend(cfg.Oracle)
	if err != nil {
		return nil, err
	}
	explainer, err := NewExplainer(ctx, cfg.Explain, o.Logger)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	o.Logger.Debug("store opened", "path", cfg.Storage.Path, "oracle", backend.Name())

	orchestrator := whatif.New(backend,
		whatif.WithRetries(cfg.WhatIf.Retries, cfg.WhatIf.Backoff),
		whatif.WithTimeout(cfg.WhatIf.Timeout),
		whatif.WithLogger(o.Logger),
	)
	return pipeline.New(st, backend,
		pipeline.WithSolveRetries(cfg.Oracle.SolveRetries, cfg.Oracle.SolveBackoff),
		pipeline.WithOrchestrator(orchestrator),
		pipeline.WithExplainer(explainer),
		pipeline.WithLogger(o.Logger),
	), nil
}

// NewBackend builds the configured oracle backend.
func NewBackend(cfg config.Oracle) (oracle.Backend, error) {
	switch cfg.Type {
	case config.OracleSAT:
		var opts []satoracle.Option
		if cfg.MaxSteps > 0 {
			opts = append(opts, satoracle.WithMaxSteps(cfg.MaxSteps))
		}
		return satoracle.New(opts...), nil
	case config.OracleRemote:
		var opts []remote.Option
		if cfg.Timeout > 0 {
			opts = append(opts, remote.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
		}
		return remote.New(cfg.URL, opts...)
	case config.OracleMock:
		return oracle.NewMock(), nil
	default:
		return nil, fmt.Errorf("unknown oracle type %q", cfg.Type)
	}
}

// NewExplainer builds the explainer. Without a narrative provider and key
// explanations are rendered offline.
func NewExplainer(ctx context.Context, cfg config.Explain, logger *slog.Logger) (*explain.Explainer, error) {
	if cfg.Provider != config.ProviderGemini || cfg.APIKey == "" {
		return explain.NewExplainer(nil, logger), nil
	}
	narrator, err := explain.NewGeminiNarrator(ctx, cfg.APIKey, cfg.Model, cfg.Temperature, cfg.MaxTokens)
	if err != nil {
		return nil, err
	}
	return explain.NewExplainer(narrator, logger), nil
}

// openStore opens the configured store for commands that never solve.
func (o *RootOptions) openStore() (*store.Store, error) {
	st, err := store.Open(o.Config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
