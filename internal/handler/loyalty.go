package handler

import (
	"net/http"

	"shopcentral/internal/apierror"
	"shopcentral/internal/dto"
	"shopcentral/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LoyaltyHandler struct{ svc service.LoyaltyService }

func NewLoyaltyHandler(svc service.LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{svc: svc}
}

// CreateMember godoc
// @Summary      Register a loyalty member
// @Tags         loyalty
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateMemberRequest true "Member data"
// @Success      201  {object} dto.MemberResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/members [post]
func (h *LoyaltyHandler) CreateMember(c *gin.Context) {
	var req dto.CreateMemberRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateMember(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetMember godoc
// @Summary      Fetch one loyalty member
// @Tags         loyalty
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Member UUID"
// @Success      200 {object} dto.MemberResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/members/{id} [get]
func (h *LoyaltyHandler) GetMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.GetMember(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListMembers godoc
// @Summary      List loyalty members
// @Tags         loyalty
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Name or phone search"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Rows per page (default 50)"
// @Success      200 {object} dto.MemberListResponse
// @Router       /v1/members [get]
func (h *LoyaltyHandler) ListMembers(c *gin.Context) {
	var filter dto.MemberFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListMembers(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list members"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
