package handler

import (
	"net/http"

	"shopcentral/internal/apierror"
	"shopcentral/internal/dto"
	"shopcentral/internal/service"

	"github.com/gin-gonic/gin"
)

type ExpensesHandler struct{ svc service.ExpenseService }

func NewExpensesHandler(svc service.ExpenseService) *ExpensesHandler {
	return &ExpensesHandler{svc: svc}
}

// CreateExpense godoc
// @Summary      Log an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateExpenseRequest true "Expense data"
// @Success      201  {object} dto.ExpenseResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/expenses [post]
func (h *ExpensesHandler) CreateExpense(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateExpense(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListExpenses godoc
// @Summary      List expenses
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        category query string false "Exact category"
// @Param        from     query string false "From date YYYY-MM-DD"
// @Param        to       query string false "To date YYYY-MM-DD"
// @Param        page     query int    false "Page (default 1)"
// @Param        limit    query int    false "Rows per page (default 50)"
// @Success      200 {object} dto.ExpenseListResponse
// @Router       /v1/expenses [get]
func (h *ExpensesHandler) ListExpenses(c *gin.Context) {
	var filter dto.ExpenseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListExpenses(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list expenses"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
