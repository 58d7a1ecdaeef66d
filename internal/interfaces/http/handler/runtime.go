package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/application/runtime"
	"github.com/openpoint/platform/internal/domain/integration"
)

// Executor runs an integration once
type Executor interface {
	Execute(ctx context.Context, id uuid.UUID) (*runtime.ExecutionResult, error)
}

// Monitor answers timeline and health queries
type Monitor interface {
	Health(ctx context.Context, id uuid.UUID) (*runtime.HealthReport, error)
	Logs(ctx context.Context, id uuid.UUID, limit int) ([]integration.LogEntry, error)
}

// ExecuteResponse summarises one run
type ExecuteResponse struct {
	Message          string  `json:"message"`
	Success          bool    `json:"success"`
	RecordsProcessed int     `json:"records_processed"`
	DurationSeconds  float64 `json:"duration_seconds"`
	LogsGenerated    int     `json:"logs_generated"`
	Path             string  `json:"path"`
	ErrorKind        string  `json:"error_kind,omitempty"`
}

// LogEntryResponse is one timeline entry
type LogEntryResponse struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse is a point-in-time health verdict
type HealthResponse struct {
	IntegrationID uuid.UUID `json:"integration_id"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	Healthy       bool      `json:"healthy"`
	RecentErrors  int64     `json:"recent_errors"`
	LastCheck     time.Time `json:"last_check"`
}

// RuntimeHandler serves /runtime
type RuntimeHandler struct {
	BaseHandler
	lifecycle LifecycleUseCases
	executor  Executor
	monitor   Monitor
}

// NewRuntimeHandler creates a new RuntimeHandler
func NewRuntimeHandler(lifecycle LifecycleUseCases, executor Executor, monitor Monitor) *RuntimeHandler {
	return &RuntimeHandler{lifecycle: lifecycle, executor: executor, monitor: monitor}
}

// RegisterRoutes mounts the handler under rg
func (h *RuntimeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/runtime/:id")
	g.POST("/start", h.Start)
	g.POST("/stop", h.Stop)
	g.POST("/execute", h.Execute)
	g.GET("/logs", h.Logs)
	g.GET("/health", h.Health)
}

// Start deploys the integration and records the start-up timeline
// @Summary      Start an integration
// @Tags         runtime
// @Produce      json
// @Param        id path string true "Integration ID" format(uuid)
// @Success      200 {object} dto.Response{data=LifecycleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /runtime/{id}/start [post]
func (h *RuntimeHandler) Start(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	in, err := h.lifecycle.Start(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, LifecycleResponse{Message: "Started", Status: in.Status.String()})
}

// Stop stops a deployed integration; 422 otherwise
// @Summary      Stop an integration
// @Tags         runtime
// @Produce      json
// @Param        id path string true "Integration ID" format(uuid)
// @Success      200 {object} dto.Response{data=LifecycleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /runtime/{id}/stop [post]
func (h *RuntimeHandler) Stop(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	in, err := h.lifecycle.Stop(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, LifecycleResponse{Message: "Stopped", Status: in.Status.String()})
}

// Execute triggers one synchronous run. A failed run is still a 200;
// only a missing or undeployed integration is an error.
// @Summary      Execute an integration once
// @Tags         runtime
// @Produce      json
// @Param        id path string true "Integration ID" format(uuid)
// @Success      200 {object} dto.Response{data=ExecuteResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /runtime/{id}/execute [post]
func (h *RuntimeHandler) Execute(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	res, err := h.executor.Execute(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ExecuteResponse{
		Message:          "Execution completed",
		Success:          res.Success,
		RecordsProcessed: res.RecordsProcessed,
		DurationSeconds:  res.DurationSeconds,
		LogsGenerated:    res.LogsGenerated,
		Path:             string(res.Path),
		ErrorKind:        string(res.ErrorKind),
	})
}

// Logs returns the newest timeline entries first. ?limit is clamped to 1..100.
// @Summary      List timeline entries
// @Tags         runtime
// @Produce      json
// @Param        id path string true "Integration ID" format(uuid)
// @Param        limit query int false "Maximum entries (1-100)"
// @Success      200 {object} dto.Response{data=[]LogEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /runtime/{id}/logs [get]
func (h *RuntimeHandler) Logs(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, "limit must be an integer")
			return
		}
		limit = n
	}

	entries, err := h.monitor.Logs(c.Request.Context(), id, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]LogEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, LogEntryResponse{
			ID:        e.ID,
			Level:     string(e.Level),
			Message:   e.Message,
			Timestamp: e.Timestamp,
		})
	}
	h.SuccessList(c, out, len(out))
}

// Health reports whether the integration is deployed and error-free for the last hour
// @Summary      Integration health
// @Tags         runtime
// @Produce      json
// @Param        id path string true "Integration ID" format(uuid)
// @Success      200 {object} dto.Response{data=HealthResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /runtime/{id}/health [get]
func (h *RuntimeHandler) Health(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	report, err := h.monitor.Health(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, HealthResponse{
		IntegrationID: report.IntegrationID,
		Name:          report.Name,
		Status:        report.Status.String(),
		Healthy:       report.Healthy,
		RecentErrors:  report.RecentErrors,
		LastCheck:     report.LastCheck,
	})
}
