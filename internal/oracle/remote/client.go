package remote

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/schedule"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	whatIfSchemaURL = "whatif://schemas/what_if_response.json"
	solveSchemaURL  = "whatif://schemas/solve_response.json"
)

// Name is the backend name reported by Client.Name.
const Name = "remote"

// DefaultTimeout applies when no http.Client is supplied.
const DefaultTimeout = 5 * time.Minute

// Client is an oracle.Backend served by a remote optimizer.
type Client struct {
	baseURL string
	http    *http.Client

	whatIfSchema *jsonschema.Schema
	solveSchema  *jsonschema.Schema
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

var _ oracle.Backend = (*Client)(nil)

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("remote oracle: base URL is required")
	}

	compiler := jsonschema.NewCompiler()
	for _, name := range []string{"what_if_response.json", "solve_response.json"} {
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		if err := compiler.AddResource("whatif://schemas/"+name, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}
	whatIf, err := compiler.Compile(whatIfSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile what-if schema: %w", err)
	}
	solve, err := compiler.Compile(solveSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile solve schema: %w", err)
	}

	c := &Client{
		baseURL:      baseURL,
		http:         &http.Client{Timeout: DefaultTimeout},
		whatIfSchema: whatIf,
		solveSchema:  solve,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name returns "remote".
func (*Client) Name() string {
	return Name
}

// SolveWhatIf posts the problem to /what-if.
func (c *Client) SolveWhatIf(ctx context.Context, p *oracle.Problem) (*oracle.WhatIfOutput, error) {
	var out oracle.WhatIfOutput
	if err := c.post(ctx, "/what-if", p, c.whatIfSchema, &out); err != nil {
		return nil, err
	}
	if out.Status == oracle.StatusError {
		return nil, statusError(out.Diagnostics)
	}
	if out.Status == oracle.StatusInfeasibleQuery && out.IISSummary == nil {
		summary := oracle.Summarize(out.IIS)
		out.IISSummary = &summary
	}
	return &out, nil
}

// Solve posts the instance to /solve.
func (c *Client) Solve(ctx context.Context, inst *schedule.Instance) (*oracle.SolveOutput, error) {
	var out oracle.SolveOutput
	if err := c.post(ctx, "/solve", inst, c.solveSchema, &out); err != nil {
		return nil, err
	}
	if out.Status == oracle.StatusError {
		return nil, statusError(out.Diagnostics)
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body any, schema *jsonschema.Schema, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return oracle.NewError("encode request", err, false)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return oracle.NewError("build request", err, false)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	slog.Debug("oracle request", "url", req.URL.String(), "bytes", len(payload))
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return oracle.NewError("oracle unreachable", err, true)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return oracle.NewError("read response", err, true)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		msg := fmt.Sprintf("oracle returned HTTP %d", resp.StatusCode)
		oe := oracle.NewError(msg, nil, retryable)
		if body := strings.TrimSpace(string(data)); body != "" {
			oe.Diagnostics["body"] = body
		}
		return oe
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return oracle.NewError("decode response", err, false)
	}
	if err := schema.Validate(raw); err != nil {
		return oracle.NewError("response does not match schema", err, false)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return oracle.NewError("decode response", err, false)
	}
	return nil
}

// statusError reports a solver-side failure with its diagnostics intact.
func statusError(diag map[string]any) error {
	msg := "oracle reported an error"
	if s, ok := diag["error"].(string); ok && s != "" {
		msg = s
	}
	return &oracle.Error{
		Code:        oracle.ErrCodeOracle,
		Message:     msg,
		Diagnostics: diag,
	}
}
