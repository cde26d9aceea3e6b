package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/pipeline"
	"github.com/roach88/whatif/internal/schedule"
	"github.com/roach88/whatif/internal/store"
)

// OptimizeResponse acknowledges a primary solve.
type OptimizeResponse struct {
	RunID        string         `json:"run_id"`
	Status       string         `json:"status"`
	Message      string         `json:"message"`
	Objective    *float64       `json:"objective_value,omitempty"`
	SolveTime    float64        `json:"solve_time"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Diagnostics  map[string]any `json:"diagnostics,omitempty"`
}

// RunResponse is a full stored run.
type RunResponse struct {
	RunID           string             `json:"run_id"`
	CreatedAt       string             `json:"created_at"`
	Status          string             `json:"status"`
	Backend         string             `json:"backend"`
	Objective       *float64           `json:"objective_value,omitempty"`
	SolveTime       float64            `json:"solve_time"`
	InstanceHash    string             `json:"instance_hash"`
	Instance        *schedule.Instance `json:"input"`
	Schedule        *schedule.Schedule `json:"schedule,omitempty"`
	SoftConstraints map[string]float64 `json:"soft_constraints,omitempty"`
	Diagnostics     map[string]any     `json:"diagnostics,omitempty"`
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "oracle": h.svc.Backend()})
}

// HandleOptimize handles POST /optimize. The body is an instance document;
// schema defaults are applied before solving.
func (h *Handlers) HandleOptimize(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	inst, err := schedule.ParseInstance(data, schedule.FormatJSON, "request.json")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_INSTANCE"})
		return
	}

	run, err := h.svc.Optimize(c.Request.Context(), inst)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := OptimizeResponse{
		RunID:     run.ID,
		Status:    run.Status,
		Message:   fmt.Sprintf("Optimization complete with status: %s", run.Status),
		Objective: run.Objective,
		SolveTime: run.SolveTimeSeconds,
	}
	if run.Status == oracle.StatusError {
		resp.ErrorMessage = "Unknown error occurred"
		if msg, ok := run.Diagnostics["error"].(string); ok {
			resp.ErrorMessage = msg
		}
		resp.Diagnostics = run.Diagnostics
	}
	c.JSON(http.StatusOK, resp)
}

// HandleListRuns handles GET /runs.
func (h *Handlers) HandleListRuns(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a non-negative integer", Code: "INVALID_REQUEST"})
			return
		}
		limit = n
	}

	runs, err := h.svc.Store().ListRuns(c.Request.Context(), limit, c.Query("status"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

// HandleGetRun handles GET /runs/:id.
func (h *Handlers) HandleGetRun(c *gin.Context) {
	run, err := h.svc.Store().LoadRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewRunResponse(run))
}

// NewRunResponse converts a stored run to its API form.
func NewRunResponse(run *store.Run) RunResponse {
	return RunResponse{
		RunID:           run.ID,
		CreatedAt:       run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Status:          run.Status,
		Backend:         run.Backend,
		Objective:       run.Objective,
		SolveTime:       run.SolveTimeSeconds,
		InstanceHash:    run.InstanceHash,
		Instance:        run.Instance,
		Schedule:        run.Schedule,
		SoftConstraints: run.SoftConstraints,
		Diagnostics:     run.Diagnostics,
	}
}

// HandleDeleteRun handles DELETE /runs/:id.
func (h *Handlers) HandleDeleteRun(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Store().DeleteRun(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Run %s deleted successfully", id)})
}

// HandleListWhatIfs handles GET /runs/:id/what-ifs.
func (h *Handlers) HandleListWhatIfs(c *gin.Context) {
	history, err := h.svc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run_id": c.Param("id"), "what_ifs": history, "count": len(history)})
}

// HandleStatistics handles GET /statistics.
func (h *Handlers) HandleStatistics(c *gin.Context) {
	stats, err := h.svc.Store().Statistics(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// HandleWhatIf handles POST /what-if.
//
// Response:
//
//	200 OK: pipeline.WhatIfResponse (feasible, infeasible or oracle error)
//	400 Bad Request: translation or validation failure, run not optimal
//	404 Not Found: unknown run
func (h *Handlers) HandleWhatIf(c *gin.Context) {
	var req pipeline.WhatIfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	resp, err := h.svc.WhatIf(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleCheck handles POST /what-if/check.
func (h *Handlers) HandleCheck(c *gin.Context) {
	var req pipeline.WhatIfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	resp, err := h.svc.Check(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
