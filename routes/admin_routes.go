package routes

import (
	"github.com/gamevault/gamevault/controllers"
	"github.com/gamevault/gamevault/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		// Catalog management
		admin.GET("/games", controllers.AdminListGames)
		admin.GET("/games/:id", controllers.AdminGetGame)
		admin.POST("/games", controllers.CreateGame)
		admin.PUT("/games/:id", controllers.UpdateGame)
		admin.DELETE("/games/:id", controllers.DeactivateGame)
		admin.POST("/games/:id/image", controllers.UploadGameImage)

		// Categories
		admin.POST("/categories", controllers.CreateCategory)
		admin.PUT("/categories/:id", controllers.UpdateCategory)
		admin.DELETE("/categories/:id", controllers.DeleteCategory)

		// Discount codes
		admin.GET("/discount-codes", controllers.AdminListDiscountCodes)
		admin.GET("/discount-codes/:id", controllers.AdminGetDiscountCode)
		admin.POST("/discount-codes", controllers.CreateDiscountCode)
		admin.PUT("/discount-codes/:id", controllers.UpdateDiscountCode)
		admin.DELETE("/discount-codes/:id", controllers.DeleteDiscountCode)

		// User management
		admin.GET("/users", controllers.AdminListUsers)
		admin.PUT("/users/:id", controllers.AdminUpdateUser)

		// Wallet auditing
		admin.GET("/users/:id/transactions", controllers.AdminGetUserTransactions)
		admin.GET("/wallet/summary", controllers.AdminGetWalletSummary)

		// Reporting
		admin.GET("/rankings/top", controllers.GetTopGames)
		admin.GET("/rankings/kpis", controllers.GetStoreKPIs)
		admin.GET("/sales/report", controllers.AdminGetSalesReport)
		admin.GET("/sales/report/excel", controllers.DownloadSalesReportExcel)
	}
}
