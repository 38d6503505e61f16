package routes

import (
	"github.com/gamevault/gamevault/controllers"
	"github.com/gamevault/gamevault/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes all user-facing routes
func initUserRoutes(router *gin.RouterGroup) {
	// Public routes (no authentication required)
	router.POST("/register", controllers.RegisterUser)
	router.POST("/login", controllers.LoginUser)

	// Catalog routes
	router.GET("/store/games", controllers.ListGames)
	router.GET("/store/games/:id", controllers.GetGame)
	router.GET("/categories", controllers.ListCategories)
	router.GET("/rankings/top", controllers.GetTopGames)
	router.GET("/rankings/kpis", controllers.GetStoreKPIs)

	// Protected routes (require a valid session)
	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/logout", controllers.LogoutUser)
		protected.GET("/me", controllers.GetCurrentUser)
		protected.PUT("/me", controllers.UpdateProfile)
		protected.PUT("/me/password", controllers.ChangePassword)
		protected.POST("/me/avatar", controllers.UploadAvatar)
		protected.DELETE("/me/avatar", controllers.DeleteAvatar)

		// Cart operations
		protected.GET("/cart", controllers.GetCart)
		protected.POST("/cart/add", controllers.AddToCart)
		protected.PUT("/cart/items/:id", controllers.UpdateCartItem)
		protected.DELETE("/cart/items/:id", controllers.RemoveCartItem)

		// Coupon preview and checkout
		protected.POST("/cart/validate-coupon", controllers.ValidateCoupon)
		protected.POST("/cart/checkout", controllers.Checkout)

		// Direct purchase
		protected.POST("/store/games/:id/buy", controllers.BuyGame)

		// Wallet
		protected.GET("/wallet", controllers.GetWalletBalance)
		protected.POST("/wallet/topup", controllers.TopUpWallet)
		protected.GET("/wallet/transactions", controllers.GetWalletTransactions)

		// Library and order history
		protected.GET("/me/games", controllers.GetMyGames)
		protected.GET("/me/orders", controllers.GetMyOrders)
		protected.GET("/me/orders/:id", controllers.GetOrderDetail)
		protected.GET("/me/orders/:id/invoice", controllers.DownloadInvoice)
	}
}
