package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kmarfadi/munasaba-backend/internal/dto"
	"github.com/kmarfadi/munasaba-backend/internal/service"
	"github.com/kmarfadi/munasaba-backend/pkg/logger"
	"github.com/kmarfadi/munasaba-backend/pkg/response"
)

// OrganizationHandler handles organization HTTP requests
type OrganizationHandler struct {
	orgService service.OrganizationService
	log        *logger.Logger
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(orgService service.OrganizationService, log *logger.Logger) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService, log: log}
}

// Create handles organization creation
// POST /api/v1/organizations
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req dto.CreateOrganizationRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.orgService.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(result))
}

// GetByID handles retrieving an organization by ID
// GET /api/v1/organizations/:id
func (h *OrganizationHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.orgService.GetByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// GetBySlug handles retrieving an organization by slug
// GET /api/v1/organizations/slug/:slug
func (h *OrganizationHandler) GetBySlug(c *gin.Context) {
	result, err := h.orgService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// List handles the paginated organization listing
// GET /api/v1/organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	var query dto.ListOrganizationsQuery
	if !bindQuery(c, &query) {
		return
	}

	result, err := h.orgService.List(c.Request.Context(), &query)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Update handles organization update
// PUT /api/v1/organizations/:id
func (h *OrganizationHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateOrganizationRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.orgService.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// ListMembers returns the organization's users
// GET /api/v1/organizations/:id/members
func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.orgService.ListMembers(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// AddMember attaches a user to the organization
// POST /api/v1/organizations/:id/members
func (h *OrganizationHandler) AddMember(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.orgService.AddMember(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}
