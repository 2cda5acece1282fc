package expenses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"spendly/internal/shared/middleware"
	"spendly/internal/shared/utils/response"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// actorFromContext reads the identity the JWT middleware stored.
func actorFromContext(ctx *gin.Context) Actor {
	return Actor{
		UserGuid: ctx.GetString(middleware.ContextUserGuid),
		ClientIP: ctx.ClientIP(),
	}
}

func (c *Controller) CreateExpense(ctx *gin.Context) {
	var req CreateExpenseRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	resp, err := c.service.Add(ctx.Request.Context(), actorFromContext(ctx), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Amount must be greater than zero", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to add expense", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Expense Added Successfully", resp, nil)
}

func (c *Controller) GetAllExpenses(ctx *gin.Context) {
	var filter FilterQuery
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	resp, err := c.service.List(ctx.Request.Context(), &filter)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list expenses", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Success", resp, nil)
}

func (c *Controller) GetExpense(ctx *gin.Context) {
	expenseGuid := ctx.Param("guid")

	resp, err := c.service.Get(ctx.Request.Context(), expenseGuid)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Expense not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get expense", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Success", resp, nil)
}

func (c *Controller) UpdateExpense(ctx *gin.Context) {
	expenseGuid := ctx.Param("guid")

	var req UpdateExpenseRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	resp, err := c.service.Update(ctx.Request.Context(), actorFromContext(ctx), expenseGuid, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrExpenseNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Expense not found", nil, nil)
		case errors.Is(err, ErrInvalidAmount):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Amount must be greater than zero", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update expense", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Expense Updated Successfully", resp, nil)
}

func (c *Controller) DeleteExpense(ctx *gin.Context) {
	expenseGuid := ctx.Param("guid")

	err := c.service.Delete(ctx.Request.Context(), actorFromContext(ctx), expenseGuid)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Expense not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete expense", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Expense Deleted Successfully", nil, nil)
}
