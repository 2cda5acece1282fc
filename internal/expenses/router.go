package expenses

import (
	"github.com/gin-gonic/gin"

	"spendly/internal/shared/middleware"
	"spendly/internal/tokens"
)

// SetupExpenseRoutes registers the expense CRUD routes. Every route
// requires a valid access token carrying the user-type marker.
func SetupExpenseRoutes(router *gin.RouterGroup, controller *Controller, tokenManager *tokens.Manager) {
	expenseRoutes := router.Group("/expenses")
	expenseRoutes.Use(middleware.JWTAuth(tokenManager), middleware.RequireUserType(tokens.UserTypeCAUser))
	{
		expenseRoutes.POST("", controller.CreateExpense)
		expenseRoutes.GET("", controller.GetAllExpenses)
		expenseRoutes.GET("/:guid", controller.GetExpense)
		expenseRoutes.PUT("/:guid", controller.UpdateExpense)
		expenseRoutes.DELETE("/:guid", controller.DeleteExpense)
	}
}
