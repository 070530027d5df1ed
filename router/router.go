package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gastro-api/config"
	"github.com/yeremiapane/gastro-api/controllers"
	"github.com/yeremiapane/gastro-api/middlewares"
	"github.com/yeremiapane/gastro-api/services"
	"github.com/yeremiapane/gastro-api/utils"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	resolver := services.NewRoleResolver(db)

	// Apply security middlewares
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middlewares.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst).RateLimit())

	// Every request gets a role context; anonymous callers get the empty one.
	r.Use(middlewares.AuthMiddleware(tokens, false))
	r.Use(middlewares.RoleContextMiddleware(resolver))

	r.GET("/health", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, "ok", nil)
	})

	// Public routes
	userController := controllers.NewUserController(services.NewAccountService(db, tokens))
	auth := r.Group("/")
	auth.Use(middlewares.NewStrictRateLimiter().RateLimit())
	{
		auth.POST("/register", userController.Register)
		auth.POST("/login", userController.Login)
	}

	restaurantController := controllers.NewRestaurantController(services.NewRestaurantService(db))
	restaurants := r.Group("/restaurants")
	{
		restaurants.GET("", restaurantController.ListRestaurants)
		restaurants.GET("/:id", restaurantController.GetRestaurant)
		restaurants.POST("", restaurantController.CreateRestaurant)
		restaurants.PATCH("/:id", restaurantController.UpdateRestaurant)
		restaurants.DELETE("/:id", restaurantController.DeleteRestaurant)
	}

	tableController := controllers.NewTableController(services.NewTableService(db))
	tables := r.Group("/tables")
	{
		tables.GET("", tableController.GetAllTables)
		tables.GET("/:id", tableController.GetTable)
		tables.POST("", tableController.CreateTable)
		tables.PATCH("/:id", tableController.UpdateTable)
		tables.DELETE("/:id", tableController.DeleteTable)
	}

	menuController := controllers.NewMenuController(services.NewMenuService(db))
	collections := r.Group("/collections")
	{
		collections.GET("", menuController.GetAllCollections)
		collections.GET("/:id", menuController.GetCollection)
		collections.POST("", menuController.CreateCollection)
		collections.PATCH("/:id", menuController.UpdateCollection)
		collections.DELETE("/:id", menuController.DeleteCollection)
	}
	products := r.Group("/products")
	{
		products.GET("", menuController.GetAllProducts)
		products.GET("/:id", menuController.GetProduct)
		products.POST("", menuController.CreateProduct)
		products.PATCH("/:id", menuController.UpdateProduct)
		products.DELETE("/:id", menuController.DeleteProduct)
	}

	cartController := controllers.NewCartController(services.NewCartService(db))
	carts := r.Group("/carts")
	{
		carts.POST("", cartController.CreateCart)
		carts.GET("/:cart_id", cartController.GetCart)
		carts.DELETE("/:cart_id", cartController.DeleteCart)
		carts.GET("/:cart_id/items", cartController.GetItems)
		carts.POST("/:cart_id/items", cartController.AddItem)
		carts.PATCH("/:cart_id/items/:item_id", cartController.UpdateItem)
		carts.DELETE("/:cart_id/items/:item_id", cartController.RemoveItem)
	}

	people := services.NewPeopleService(db)
	customerController := controllers.NewCustomerController(people)
	customers := r.Group("/customers")
	{
		customers.GET("", customerController.GetAllCustomers)
		customers.POST("", customerController.CreateCustomer)
		customers.GET("/me", customerController.GetMe)
		customers.PUT("/me", customerController.UpdateMe)
	}

	waiterController := controllers.NewWaiterController(people)
	waiters := r.Group("/waiters")
	{
		waiters.GET("", waiterController.GetAllWaiters)
		waiters.POST("", waiterController.CreateWaiter)
		waiters.DELETE("/:id", waiterController.DeleteWaiter)
	}

	orderController := controllers.NewOrderController(services.NewOrderService(db))
	orders := r.Group("/orders")
	{
		orders.GET("", orderController.GetAllOrders)
		orders.POST("", orderController.CreateOrder)
		orders.GET("/:id", orderController.GetOrder)
		orders.PATCH("/:id", orderController.UpdatePaymentStatus)
		orders.DELETE("/:id", orderController.DeleteOrder)
	}

	policy := services.ParseConflictPolicy(cfg.ReservationPolicy)
	reservationController := controllers.NewReservationController(services.NewReservationService(db, policy))
	reservations := r.Group("/reservations")
	{
		reservations.GET("", reservationController.GetAllReservations)
		reservations.POST("", reservationController.CreateReservation)
		reservations.GET("/:id", reservationController.GetReservation)
		reservations.PATCH("/:id", reservationController.UpdateReservation)
		reservations.DELETE("/:id", reservationController.CancelReservation)
	}

	return r
}
