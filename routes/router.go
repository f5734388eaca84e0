package routes

import (
	"adisyo-api/controllers"
	"adisyo-api/middlewares"
	"adisyo-api/models"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/health", controllers.Health)

	auth := api.Group("/auth")
	{
		auth.POST("/login", controllers.Login)
		auth.POST("/logout", controllers.Logout)
		auth.GET("/me", middlewares.OptionalAuth(), controllers.Me)
	}

	admin := middlewares.RoleMiddleware(models.RoleAdmin)

	// Everything below needs a session
	private := api.Group("")
	private.Use(middlewares.AuthMiddleware())

	// Users (admin only)
	users := private.Group("/users")
	users.Use(admin)
	{
		users.GET("", controllers.GetUsers)
		users.POST("", controllers.CreateUser)
		users.DELETE("/:id", controllers.DeleteUser)
	}

	// Tables
	tables := private.Group("/tables")
	{
		tables.GET("", controllers.GetTables)
		tables.GET("/:id", controllers.GetTable)
		tables.POST("", admin, controllers.CreateTable)
		tables.POST("/:id/open", controllers.OpenTable)
		tables.POST("/:id/close", controllers.CloseTable)
	}

	// Orders
	orders := private.Group("/orders")
	{
		orders.GET("/:id", controllers.GetOrder)
		orders.POST("/:id/items", controllers.AddOrderItem)
		orders.PUT("/:id/items/:itemId", controllers.UpdateOrderItem)
		orders.DELETE("/:id/items/:itemId", controllers.RemoveOrderItem)
		orders.POST("/:id/payment", controllers.PayOrder)
		orders.POST("/:id/print", controllers.PrintOrder)
	}

	// Menu
	private.GET("/menu", controllers.GetMenu)
	private.GET("/categories", controllers.GetCategories)
	private.POST("/categories", admin, controllers.CreateCategory)
	menuItems := private.Group("/menu/items")
	{
		menuItems.GET("", controllers.GetMenuItems)
		menuItems.POST("", admin, controllers.CreateMenuItem)
		menuItems.PUT("/:id", admin, controllers.UpdateMenuItem)
		menuItems.DELETE("/:id", admin, controllers.DeleteMenuItem)
	}

	// Printers & stations
	printers := private.Group("/printers")
	printers.Use(admin)
	{
		printers.GET("", controllers.GetPrinters)
		printers.POST("", controllers.CreatePrinter)
		printers.PUT("/:id", controllers.UpdatePrinter)
		printers.DELETE("/:id", controllers.DeletePrinter)
	}
	private.POST("/print/test", admin, controllers.TestPrint)

	stations := private.Group("/stations")
	{
		stations.GET("", controllers.GetStations)
		stations.POST("", admin, controllers.CreateStation)
		stations.PUT("/:id", admin, controllers.UpdateStation)
		stations.DELETE("/:id", admin, controllers.DeleteStation)
	}

	// Settings
	private.GET("/settings", controllers.GetSettings)
	private.PUT("/settings", admin, controllers.UpdateSettings)

	// Reports (admin & cashier)
	reports := private.Group("/reports")
	reports.Use(middlewares.RoleMiddleware(models.RoleAdmin, models.RoleCashier))
	{
		reports.GET("/daily", controllers.GetDailyReport)
		reports.GET("/orders", controllers.GetOrderHistory)
	}
}
