package handler

import (
	"context"
	"net/http"
	"strconv"

	"rental_portal_backend/internal/leads/metrics"
	"rental_portal_backend/internal/leads/transport"
	"rental_portal_backend/platform/httpkit"
	"rental_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LeadService is the subset of the leads service the HTTP layer drives.
type LeadService interface {
	List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error)
	Inbox(ctx context.Context) (transport.InboxResponse, error)
	Metrics(ctx context.Context) (metrics.Metrics, error)
	Statuses() transport.StatusListResponse
	Sellers(ctx context.Context) (transport.SellerListResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error)
	Activity(ctx context.Context, id uuid.UUID, limit int) (transport.ActivityListResponse, error)
	Create(ctx context.Context, req transport.CreateLeadRequest, actorID uuid.UUID) (transport.LeadResponse, error)
	Transition(ctx context.Context, id uuid.UUID, req transport.UpdateLeadStatusRequest, actorID uuid.UUID) (transport.LeadResponse, error)
	Assign(ctx context.Context, id, sellerID uuid.UUID, actorID uuid.UUID) (transport.LeadResponse, error)
	Unassign(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (transport.LeadResponse, error)
}

type Handler struct {
	svc LeadService
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead id"
	msgSellerRequired   = "sellerId is required; send null to unassign"
)

func New(svc LeadService, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/inbox", h.Inbox)
	rg.GET("/metrics", h.Metrics)
	rg.GET("/statuses", h.Statuses)
	rg.GET("/sellers", h.Sellers)
	rg.GET("/:id", h.GetByID)
	rg.GET("/:id/activity", h.Activity)
	rg.PATCH("/:id/status", h.UpdateStatus)
	rg.PUT("/:id/assign", httpkit.RequireRole(httpkit.RoleAdmin), h.Assign)
	rg.DELETE("/:id/assign", httpkit.RequireRole(httpkit.RoleAdmin), h.Unassign)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Inbox(c *gin.Context) {
	result, err := h.svc.Inbox(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Metrics(c *gin.Context) {
	result, err := h.svc.Metrics(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Statuses(c *gin.Context) {
	httpkit.OK(c, h.svc.Statuses())
}

func (h *Handler) Sellers(c *gin.Context) {
	result, err := h.svc.Sellers(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	lead, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) Activity(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	result, err := h.svc.Activity(c.Request.Context(), id, limit)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), req, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, lead)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	lead, err := h.svc.Transition(c.Request.Context(), id, req, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

// Assign sets or replaces the seller. An explicit null sellerId unassigns.
func (h *Handler) Assign(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.AssignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if !req.SellerID.Set {
		httpkit.Error(c, http.StatusBadRequest, msgSellerRequired, map[string]string{"sellerId": "required"})
		return
	}

	var (
		lead transport.LeadResponse
		err  error
	)
	if req.SellerID.IsNull() {
		lead, err = h.svc.Unassign(c.Request.Context(), id, identity.UserID())
	} else {
		lead, err = h.svc.Assign(c.Request.Context(), id, *req.SellerID.Value, identity.UserID())
	}
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) Unassign(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	lead, err := h.svc.Unassign(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

func parseLeadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}
