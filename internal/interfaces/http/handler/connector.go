package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appconnector "github.com/openpoint/platform/internal/application/connector"
)

// ConnectorUseCases is the connector CRUD surface
type ConnectorUseCases interface {
	Create(ctx context.Context, req appconnector.CreateConnectorRequest) (*appconnector.ConnectorResponse, error)
	List(ctx context.Context) ([]appconnector.ConnectorResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*appconnector.ConnectorResponse, error)
	Update(ctx context.Context, id uuid.UUID, req appconnector.UpdateConnectorRequest) (*appconnector.ConnectorResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Types() []appconnector.ConnectorTypeResponse
}

// ConnectorTester runs a liveness test
type ConnectorTester interface {
	Test(ctx context.Context, id uuid.UUID) (*appconnector.TestConnectorResponse, error)
}

// ConnectorHandler serves /connectors
type ConnectorHandler struct {
	BaseHandler
	connectors ConnectorUseCases
	tester     ConnectorTester
}

// NewConnectorHandler creates a new ConnectorHandler
func NewConnectorHandler(connectors ConnectorUseCases, tester ConnectorTester) *ConnectorHandler {
	return &ConnectorHandler{connectors: connectors, tester: tester}
}

// RegisterRoutes mounts the handler under rg
func (h *ConnectorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/connectors")
	g.GET("/types", h.Types)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/test", h.Test)
}

// Types returns the connector type catalogue with config forms
// @Summary      List connector types
// @Tags         connectors
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appconnector.ConnectorTypeResponse}
// @Router       /connectors/types [get]
func (h *ConnectorHandler) Types(c *gin.Context) {
	types := h.connectors.Types()
	h.SuccessList(c, types, len(types))
}

// List returns every connector
// @Summary      List connectors
// @Tags         connectors
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appconnector.ConnectorResponse}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /connectors [get]
func (h *ConnectorHandler) List(c *gin.Context) {
	items, err := h.connectors.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// Create adds an inactive connector after validating its config
// @Summary      Create a connector
// @Tags         connectors
// @Accept       json
// @Produce      json
// @Param        request body appconnector.CreateConnectorRequest true "Connector creation request"
// @Success      201 {object} dto.Response{data=appconnector.ConnectorResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /connectors [post]
func (h *ConnectorHandler) Create(c *gin.Context) {
	var req appconnector.CreateConnectorRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.connectors.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one connector
// @Summary      Get connector by ID
// @Tags         connectors
// @Produce      json
// @Param        id path string true "Connector ID" format(uuid)
// @Success      200 {object} dto.Response{data=appconnector.ConnectorResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /connectors/{id} [get]
func (h *ConnectorHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	resp, err := h.connectors.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update applies a partial update
// @Summary      Update a connector
// @Tags         connectors
// @Accept       json
// @Produce      json
// @Param        id path string true "Connector ID" format(uuid)
// @Param        request body appconnector.UpdateConnectorRequest true "Connector update request"
// @Success      200 {object} dto.Response{data=appconnector.ConnectorResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /connectors/{id} [put]
func (h *ConnectorHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req appconnector.UpdateConnectorRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.connectors.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a connector
// @Summary      Delete a connector
// @Tags         connectors
// @Produce      json
// @Param        id path string true "Connector ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /connectors/{id} [delete]
func (h *ConnectorHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.connectors.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Test probes the connector; a failed probe is reported in the body with 200
// @Summary      Test a connector
// @Tags         connectors
// @Produce      json
// @Param        id path string true "Connector ID" format(uuid)
// @Success      200 {object} dto.Response{data=appconnector.TestConnectorResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /connectors/{id}/test [post]
func (h *ConnectorHandler) Test(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	resp, err := h.tester.Test(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
