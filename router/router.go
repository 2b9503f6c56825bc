package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/controllers"
	"github.com/yeremiapane/restaurant-pos/engine"
	"github.com/yeremiapane/restaurant-pos/events"
	"github.com/yeremiapane/restaurant-pos/middlewares"
)

// SetupRouter wires both front-end boundaries onto one engine: the public
// /api group serves the LAN waiter terminals, the authenticated /admin
// group serves the desktop cashier surface. Same operations, same
// atomicity guarantees, different auth.
func SetupRouter(db *gorm.DB, eng *engine.Engine) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.LoggerMiddleware())

	tableCtrl := controllers.NewTableController(eng)
	orderCtrl := controllers.NewOrderController(eng)
	saleCtrl := controllers.NewSaleController(eng)
	customerCtrl := controllers.NewCustomerController(db, eng)
	categoryCtrl := controllers.NewCategoryController(db)
	productCtrl := controllers.NewProductController(db)
	kitchenCtrl := controllers.NewKitchenController(db)
	settingCtrl := controllers.NewSettingController(db)
	staffCtrl := controllers.NewStaffController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Realtime updates for all connected front-ends.
	r.GET("/ws", events.Handler)

	loginLimiter := middlewares.NewLoginRateLimiter()
	r.POST("/login", loginLimiter.Limit(), staffCtrl.Login)

	// ----------------------------------------------------------------
	//             LAN API (mobile waiter terminals, no auth)
	// ----------------------------------------------------------------
	api := r.Group("/api")
	{
		api.GET("/halls", tableCtrl.GetAllHalls)
		api.GET("/tables", tableCtrl.GetAllTables)
		api.GET("/tables/:table_id/items", orderCtrl.GetTableItems)
		api.POST("/tables/guests", tableCtrl.UpdateGuests)
		api.GET("/categories", categoryCtrl.GetAllCategories)
		api.GET("/products", productCtrl.GetActiveProducts)
		api.GET("/settings", settingCtrl.GetSettings)
		api.POST("/orders/add", orderCtrl.AddItem)
	}

	// ----------------------------------------------------------------
	//             Desktop surface (cashier/admin, JWT auth)
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware())
	{
		admin.GET("/halls", tableCtrl.GetAllHalls)
		admin.POST("/halls", tableCtrl.CreateHall)
		admin.DELETE("/halls/:hall_id", tableCtrl.DeleteHall)
		admin.GET("/halls/:hall_id/tables", tableCtrl.GetTablesByHall)

		admin.GET("/tables", tableCtrl.GetAllTables)
		admin.POST("/tables", tableCtrl.CreateTable)
		admin.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
		admin.POST("/tables/guests", tableCtrl.UpdateGuests)
		admin.POST("/tables/:table_id/close", tableCtrl.CloseTable)
		admin.GET("/tables/:table_id/items", orderCtrl.GetTableItems)

		admin.POST("/orders/add", orderCtrl.AddItem)
		admin.POST("/checkout", saleCtrl.Checkout)
		admin.GET("/sales", saleCtrl.GetSales)

		admin.GET("/customers", customerCtrl.GetAllCustomers)
		admin.POST("/customers", customerCtrl.CreateCustomer)
		admin.PUT("/customers/:customer_id", customerCtrl.UpdateCustomer)
		admin.DELETE("/customers/:customer_id", customerCtrl.DeleteCustomer)
		admin.GET("/customers/debtors", customerCtrl.GetDebtors)
		admin.GET("/customers/:customer_id/debts", customerCtrl.GetDebtHistory)
		admin.POST("/debts/add", customerCtrl.AddDebt)
		admin.POST("/debts/pay", customerCtrl.PayDebt)

		admin.GET("/categories", categoryCtrl.GetAllCategories)
		admin.POST("/categories", categoryCtrl.CreateCategory)
		admin.PUT("/categories/:cat_id", categoryCtrl.UpdateCategory)
		admin.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

		admin.GET("/products", productCtrl.GetAllProducts)
		admin.POST("/products", productCtrl.CreateProduct)
		admin.PUT("/products/:product_id", productCtrl.UpdateProduct)
		admin.PATCH("/products/:product_id/status", productCtrl.ToggleProductStatus)
		admin.DELETE("/products/:product_id", productCtrl.DeleteProduct)

		admin.GET("/kitchens", kitchenCtrl.GetAllKitchens)
		admin.POST("/kitchens", kitchenCtrl.SaveKitchen)
		admin.DELETE("/kitchens/:kitchen_id", kitchenCtrl.DeleteKitchen)

		admin.GET("/settings", settingCtrl.GetSettings)
		admin.POST("/settings", settingCtrl.SaveSettings)

		staff := admin.Group("/users")
		staff.Use(middlewares.RequireRole("admin"))
		{
			staff.GET("", staffCtrl.GetAllUsers)
			staff.POST("", staffCtrl.SaveUser)
			staff.DELETE("/:user_id", staffCtrl.DeleteUser)
		}
	}

	return r
}
