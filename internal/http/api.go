package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"frutolandia/internal/domain"
	"frutolandia/internal/metrics"
	"frutolandia/internal/service"
)

// Deps groups what the HTTP layer needs from the rest of the application.
type Deps struct {
	Auth      service.AuthService
	Users     service.UserService
	Products  service.ProductService
	Cart      service.CartService
	Favorites service.FavoriteService

	Logger         logrus.FieldLogger
	Metrics        metrics.Recorder
	MetricsHandler http.Handler
	AllowedOrigins []string
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth      service.AuthService
	users     service.UserService
	products  service.ProductService
	cart      service.CartService
	favorites service.FavoriteService

	logger         logrus.FieldLogger
	metrics        metrics.Recorder
	metricsHandler http.Handler
	origins        []string
}

func NewHandler(deps Deps) *Handler {
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}
	return &Handler{
		auth:           deps.Auth,
		users:          deps.Users,
		products:       deps.Products,
		cart:           deps.Cart,
		favorites:      deps.Favorites,
		logger:         deps.Logger,
		metrics:        deps.Metrics,
		metricsHandler: deps.MetricsHandler,
		origins:        deps.AllowedOrigins,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.observe(), corsMiddleware(h.origins))

	if h.metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(h.metricsHandler))
	}

	api := router.Group("/api")
	api.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/login", h.login)
		authRoutes.POST("/register", h.register)
		authRoutes.GET("/verify", h.verify)
	}

	admin := []gin.HandlerFunc{h.requireAuth(), h.requireRole(domain.RoleAdmin)}

	products := api.Group("/products")
	{
		products.GET("", h.listProducts)
		products.GET("/search", h.searchProducts)
		products.GET("/:id", h.getProduct)
		products.GET("/:id/image", h.productImageURL)

		managed := products.Group("", admin...)
		managed.POST("", h.createProduct)
		managed.PUT("/:id", h.updateProduct)
		managed.DELETE("/:id", h.deleteProduct)
		managed.PUT("/:id/image", h.uploadProductImage)
	}

	cart := api.Group("/cart", h.requireAuth())
	{
		cart.GET("", h.getCart)
		cart.POST("", h.addToCart)
		cart.PUT("/:productId", h.updateCartItem)
		cart.DELETE("/:productId", h.removeFromCart)
		cart.DELETE("", h.clearCart)
	}

	favorites := api.Group("/users/favorites", h.requireAuth())
	{
		favorites.GET("", h.listFavorites)
		favorites.POST("/:productId", h.addFavorite)
		favorites.DELETE("/:productId", h.removeFavorite)
	}

	users := api.Group("/users", admin...)
	{
		users.POST("", h.createUser)
		users.GET("", h.listUsers)
		users.GET("/email/:email", h.getUserByEmail)
		users.GET("/:id", h.getUser)
		users.PUT("/:id", h.updateUser)
		users.DELETE("/:id", h.deleteUser)
	}
}
