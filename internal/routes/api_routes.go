// zettalab-crm/internal/routes/api_routes.go
package routes

import (
	"zettalab-crm/internal/handlers"
	"zettalab-crm/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все маршруты API, требующие аутентификации.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	apiGroup := api.Group("/api")
	{
		// Профиль пользователя
		apiGroup.GET("/profile", handlers.GetProfileHandler)

		// --- СВОДКА ---
		apiGroup.GET("/dashboard", handlers.GetDashboardHandler)

		// --- СЧЕТА УЧЕТА ДЕНЕЖНЫХ СРЕДСТВ ---
		accounts := apiGroup.Group("/accounts")
		accounts.Use(middleware.RoleMiddleware("manager"))
		{
			accounts.GET("", handlers.ListAccountsHandler)
			accounts.POST("", handlers.CreateAccountHandler)
			accounts.PUT("/:id", handlers.UpdateAccountHandler)
			accounts.DELETE("/:id", middleware.RoleMiddleware(), handlers.DeleteAccountHandler)
		}

		// --- КЛИЕНТЫ И ЦЕНЫ ---
		clients := apiGroup.Group("/clients")
		{
			clients.GET("", handlers.ListClientsHandler)
			clients.POST("", handlers.CreateClientHandler)
			clients.GET("/:id", handlers.GetClientHandler)
			clients.PUT("/:id", handlers.UpdateClientHandler)
			clients.GET("/:id/resolve-price", handlers.ResolvePriceHandler)
			clients.POST("/:id/prices", middleware.RoleMiddleware("manager"), handlers.SetClientPriceHandler)
			clients.DELETE("/:id/prices/:workItemId", middleware.RoleMiddleware("manager"), handlers.DeleteClientPriceHandler)
			clients.POST("/:id/price-lists", middleware.RoleMiddleware("manager"), handlers.LinkPriceListHandler)
			clients.DELETE("/:id/price-lists/:priceListId", middleware.RoleMiddleware("manager"), handlers.UnlinkPriceListHandler)
		}

		// --- КАТАЛОГ РАБОТ ---
		workItems := apiGroup.Group("/work-items")
		{
			workItems.GET("", handlers.ListWorkItemsHandler)
			workItems.POST("", middleware.RoleMiddleware("manager"), handlers.CreateWorkItemHandler)
			workItems.PUT("/:id", middleware.RoleMiddleware("manager"), handlers.UpdateWorkItemHandler)
			workItems.DELETE("/:id", middleware.RoleMiddleware(), handlers.DeleteWorkItemHandler)
		}

		// --- ПРАЙС-ЛИСТЫ ---
		priceLists := apiGroup.Group("/price-lists")
		priceLists.Use(middleware.RoleMiddleware("manager"))
		{
			priceLists.GET("", handlers.ListPriceListsHandler)
			priceLists.POST("", handlers.CreatePriceListHandler)
			priceLists.GET("/:id", handlers.GetPriceListHandler)
			priceLists.PUT("/:id", handlers.UpdatePriceListHandler)
			priceLists.DELETE("/:id", handlers.DeletePriceListHandler)
			priceLists.POST("/:id/items", handlers.SetPriceListItemHandler)
		}

		// --- ЗАКАЗЫ ---
		orders := apiGroup.Group("/orders")
		{
			orders.GET("", handlers.ListOrdersHandler)
			orders.POST("", handlers.CreateOrderHandler)
			orders.GET("/:id", handlers.GetOrderHandler)
			orders.POST("/:id/status", handlers.UpdateOrderStatusHandler)
		}

		// --- ПЛАТЕЖИ ---
		payments := apiGroup.Group("/payments")
		payments.Use(middleware.RoleMiddleware("manager"))
		{
			payments.GET("", handlers.ListPaymentsHandler)
			payments.POST("", handlers.CreatePaymentHandler)
			payments.DELETE("/:id", handlers.DeletePaymentHandler)
		}

		// --- РАСХОДЫ ---
		expenses := apiGroup.Group("/expenses")
		expenses.Use(middleware.RoleMiddleware("manager"))
		{
			expenses.GET("", handlers.ListExpensesHandler)
			expenses.POST("", handlers.CreateExpenseHandler)
			expenses.PUT("/:id", handlers.UpdateExpenseHandler)
			expenses.DELETE("/:id", handlers.DeleteExpenseHandler)
			expenses.POST("/:id/receipt", handlers.UploadReceiptHandler)
			expenses.POST("/recognize", handlers.RecognizeReceiptHandler)
		}

		// --- СЧЕТА НА ОПЛАТУ ---
		invoices := apiGroup.Group("/invoices")
		invoices.Use(middleware.RoleMiddleware("manager"))
		{
			invoices.GET("", handlers.ListInvoicesHandler)
			invoices.POST("", handlers.CreateInvoiceHandler)
			invoices.GET("/:id", handlers.GetInvoiceHandler)
			invoices.POST("/:id/mark-paid", handlers.MarkInvoicePaidHandler)
			invoices.DELETE("/:id", handlers.DeleteInvoiceHandler)
		}

		// --- РЕКВИЗИТЫ ---
		requisites := apiGroup.Group("/requisites")
		requisites.Use(middleware.RoleMiddleware())
		{
			requisites.GET("", handlers.ListRequisitesHandler)
			requisites.POST("", handlers.CreateRequisitesHandler)
			requisites.PUT("/:id", handlers.UpdateRequisitesHandler)
		}

		// --- ЗАРПЛАТА ---
		payroll := apiGroup.Group("/payroll")
		payroll.Use(middleware.RoleMiddleware())
		{
			payroll.GET("/technicians", handlers.ListTechniciansHandler)
			payroll.POST("/technicians", handlers.CreateTechnicianHandler)
			payroll.PUT("/technicians/:id", handlers.UpdateTechnicianHandler)
			payroll.GET("/calculate", handlers.CalculatePayrollHandler)
		}

		// --- ОТЧЕТЫ ---
		reports := apiGroup.Group("/reports")
		reports.Use(middleware.RoleMiddleware())
		{
			reports.GET("/finance/download", handlers.ExportFinanceReportHandler)
		}
	}
}
