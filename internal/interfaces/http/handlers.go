package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/plazholdr/job-finder-sub006/internal/application/service"
	"github.com/plazholdr/job-finder-sub006/internal/application/sla"
	"github.com/plazholdr/job-finder-sub006/internal/application/workflow"
	"github.com/plazholdr/job-finder-sub006/internal/domain/entity"
	"github.com/plazholdr/job-finder-sub006/internal/domain/status"
	domainwf "github.com/plazholdr/job-finder-sub006/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	statusService service.StatusService
	engine        workflow.Engine
	logger        Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(statusService service.StatusService, engine workflow.Engine, logger Logger) *Handlers {
	return &Handlers{
		statusService: statusService,
		engine:        engine,
		logger:        logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ActorRequest identifies the acting user in a mutating request
type ActorRequest struct {
	ID   string `json:"id" binding:"required"`
	Role string `json:"role" binding:"required"`
}

func (a ActorRequest) toActor() entity.Actor {
	return entity.Actor{ID: a.ID, Role: entity.Role(a.Role)}
}

// NormalizeRequest carries untrusted raw status input
type NormalizeRequest struct {
	Kind string      `json:"kind" binding:"required"`
	Raw  interface{} `json:"raw"`
}

// TransitionRequest asks for an entity status change
type TransitionRequest struct {
	Target int          `json:"target"`
	Actor  ActorRequest `json:"actor" binding:"required"`
	Reason string       `json:"reason"`
}

// CreateInstanceRequest opens a workflow instance against an entity
type CreateInstanceRequest struct {
	RequestType  string       `json:"request_type" binding:"required"`
	EntityID     int64        `json:"entity_id" binding:"required"`
	Requester    ActorRequest `json:"requester" binding:"required"`
	SupervisorID string       `json:"supervisor_id"`
	Reason       string       `json:"reason"`
}

// DecisionRequest carries an admin verdict
type DecisionRequest struct {
	Decision        string       `json:"decision" binding:"required"`
	Actor           ActorRequest `json:"actor" binding:"required"`
	Notes           string       `json:"notes"`
	RejectionReason string       `json:"rejection_reason"`
}

// ActionRequest carries an actor and free-form notes or reason
type ActionRequest struct {
	Actor  ActorRequest `json:"actor" binding:"required"`
	Notes  string       `json:"notes"`
	Reason string       `json:"reason"`
}

// MilestoneResponse is the derived deadline view of one step
type MilestoneResponse struct {
	StepName   string `json:"step_name"`
	StepOrder  int    `json:"step_order"`
	TargetDate string `json:"target_date"`
	Completed  bool   `json:"completed"`
	Overdue    bool   `json:"overdue"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// NormalizeStatus handles POST /api/statuses/normalize
func (h *Handlers) NormalizeStatus(c *gin.Context) {
	var req NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	kind := status.Kind(req.Kind)
	if !kind.IsValid() {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unknown entity kind"})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.statusService.Normalize(kind, req.Raw),
	})
}

// TransitionEntity handles POST /api/entities/:kind/:id/transition
func (h *Handlers) TransitionEntity(c *gin.Context) {
	kind := status.Kind(c.Param("kind"))
	if !kind.IsValid() {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unknown entity kind"})
		return
	}

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	result, err := h.statusService.Transition(c.Request.Context(), kind, id, status.Code(req.Target), req.Actor.toActor(), req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// EntityHistory handles GET /api/entities/:kind/:id/history
func (h *Handlers) EntityHistory(c *gin.Context) {
	kind := status.Kind(c.Param("kind"))
	if !kind.IsValid() {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unknown entity kind"})
		return
	}

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	entries, err := h.statusService.History(c.Request.Context(), kind, id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: entries})
}

// CreateRequest handles POST /api/requests
func (h *Handlers) CreateRequest(c *gin.Context) {
	var req CreateInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	instance, err := h.engine.CreateInstance(c.Request.Context(), workflow.CreateRequest{
		RequestType:  entity.RequestType(req.RequestType),
		EntityID:     req.EntityID,
		Requester:    req.Requester.toActor(),
		SupervisorID: req.SupervisorID,
		Reason:       req.Reason,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: instance})
}

// GetInstance handles GET /api/instances/:id
func (h *Handlers) GetInstance(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	instance, err := h.engine.GetInstance(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: instance})
}

// StartReview handles POST /api/instances/:id/review
func (h *Handlers) StartReview(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	instance, err := h.engine.StartReview(c.Request.Context(), id, req.Actor.toActor())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: instance})
}

// AdvanceStep handles POST /api/instances/:id/advance
func (h *Handlers) AdvanceStep(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	instance, err := h.engine.AdvanceStep(c.Request.Context(), id, req.Actor.toActor(), req.Notes)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: instance})
}

// Decide handles POST /api/instances/:id/decision
func (h *Handlers) Decide(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	var decision workflow.Decision
	switch entity.DecisionKind(req.Decision) {
	case entity.DecisionApprove:
		decision = workflow.Approve(req.Notes)
	case entity.DecisionReject:
		decision = workflow.Reject(req.RejectionReason, req.Notes)
	default:
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "decision must be APPROVE or REJECT"})
		return
	}

	instance, err := h.engine.Decide(c.Request.Context(), id, decision, req.Actor.toActor())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: instance})
}

// CancelInstance handles POST /api/instances/:id/cancel
func (h *Handlers) CancelInstance(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	instance, err := h.engine.Cancel(c.Request.Context(), id, req.Actor.toActor(), req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: instance})
}

// Milestones handles GET /api/instances/:id/milestones
func (h *Handlers) Milestones(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	instance, err := h.engine.GetInstance(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	now := time.Now()
	milestones := sla.Milestones(instance, now)

	responses := make([]MilestoneResponse, 0, len(milestones))
	for _, m := range milestones {
		responses = append(responses, MilestoneResponse{
			StepName:   m.Step.Name,
			StepOrder:  m.Step.Order,
			TargetDate: m.TargetDate.Format(time.RFC3339),
			Completed:  m.Completed,
			Overdue:    m.Overdue,
		})
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: responses})
}

func (h *Handlers) parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid id"})
		return 0, false
	}
	return id, true
}

// writeError maps application errors to HTTP status codes
func (h *Handlers) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainwf.ErrMissingReason):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case errors.Is(err, domainwf.ErrInstanceNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.Is(err, domainwf.ErrUnauthorized):
		c.JSON(http.StatusForbidden, Response{Success: false, Error: err.Error()})
	case errors.Is(err, domainwf.ErrIllegalTransition),
		errors.Is(err, domainwf.ErrAlreadyDecided),
		errors.Is(err, domainwf.ErrDuplicateActiveRequest),
		errors.Is(err, domainwf.ErrInvalidState):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error("Request failed", "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal error"})
	}
}
