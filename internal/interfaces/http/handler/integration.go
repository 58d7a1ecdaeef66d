package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appintegration "github.com/openpoint/platform/internal/application/integration"
	"github.com/openpoint/platform/internal/domain/integration"
)

// IntegrationUseCases is the CRUD surface the handler needs
type IntegrationUseCases interface {
	Create(ctx context.Context, req appintegration.CreateIntegrationRequest) (*appintegration.IntegrationResponse, error)
	List(ctx context.Context) ([]appintegration.IntegrationResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*appintegration.IntegrationResponse, error)
	Update(ctx context.Context, id uuid.UUID, req appintegration.UpdateIntegrationRequest) (*appintegration.IntegrationResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LifecycleUseCases is the status state machine
type LifecycleUseCases interface {
	Deploy(ctx context.Context, id uuid.UUID) (*integration.Integration, error)
	Start(ctx context.Context, id uuid.UUID) (*integration.Integration, error)
	Stop(ctx context.Context, id uuid.UUID) (*integration.Integration, error)
	SetStatus(ctx context.Context, id uuid.UUID, status integration.Status) (*integration.Integration, error)
}

// LifecycleResponse reports a status transition
type LifecycleResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// SetStatusRequest assigns a status explicitly
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// IntegrationHandler serves /integrations
type IntegrationHandler struct {
	BaseHandler
	integrations IntegrationUseCases
	lifecycle    LifecycleUseCases
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(integrations IntegrationUseCases, lifecycle LifecycleUseCases) *IntegrationHandler {
	return &IntegrationHandler{integrations: integrations, lifecycle: lifecycle}
}

// RegisterRoutes mounts the handler under rg
func (h *IntegrationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/integrations")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/deploy", h.Deploy)
	g.PUT("/:id/status", h.SetStatus)
}

// List returns every integration
// @Summary      List integrations
// @Tags         integrations
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appintegration.IntegrationResponse}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /integrations [get]
func (h *IntegrationHandler) List(c *gin.Context) {
	items, err := h.integrations.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// Create adds a draft integration
// @Summary      Create an integration
// @Description  The integration starts as a draft
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        request body appintegration.CreateIntegrationRequest true "Integration creation request"
// @Success      201 {object} dto.Response{data=appintegration.IntegrationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /integrations [post]
func (h *IntegrationHandler) Create(c *gin.Context) {
	var req appintegration.CreateIntegrationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.integrations.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one integration
// @Summary      Get integration by ID
// @Tags         integrations
// @Produce      json
// @Param        id path string true "Integration ID" format(uuid)
// @Success      200 {object} dto.Response{data=appintegration.IntegrationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /integrations/{id} [get]
func (h *IntegrationHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	resp, err := h.integrations.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update replaces the descriptive fields of an integration
// @Summary      Update an integration
// @Description  Replaces name, description and flow config; status is left alone
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        id path string true "Integration ID" format(uuid)
// @Param        request body appintegration.UpdateIntegrationRequest true "Integration update request"
// @Success      200 {object} dto.Response{data=appintegration.IntegrationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /integrations/{id} [put]
func (h *IntegrationHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req appintegration.UpdateIntegrationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.integrations.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes an integration and its timeline
// @Summary      Delete an integration
// @Tags         integrations
// @Produce      json
// @Param        id path string true "Integration ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /integrations/{id} [delete]
func (h *IntegrationHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.integrations.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Deploy moves an integration to deployed
// @Summary      Deploy an integration
// @Tags         integrations
// @Produce      json
// @Param        id path string true "Integration ID" format(uuid)
// @Success      200 {object} dto.Response{data=LifecycleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /integrations/{id}/deploy [post]
func (h *IntegrationHandler) Deploy(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	in, err := h.lifecycle.Deploy(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, LifecycleResponse{Message: "Deployed", Status: in.Status.String()})
}

// SetStatus assigns any valid status, including error
// @Summary      Set integration status
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        id path string true "Integration ID" format(uuid)
// @Param        request body SetStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=LifecycleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /integrations/{id}/status [put]
func (h *IntegrationHandler) SetStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req SetStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	status, err := integration.ParseStatus(req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	in, err := h.lifecycle.SetStatus(c.Request.Context(), id, status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, LifecycleResponse{Message: "Status updated", Status: in.Status.String()})
}
