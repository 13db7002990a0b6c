package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"saddleview/internal/domain/user"
	"saddleview/internal/handler/api"
	"saddleview/internal/handler/middleware"
	"saddleview/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	orderHandler *api.OrderHandler,
	stockHandler *api.StockHandler,
	projectionHandler *api.ProjectionHandler,
	mutationHandler *api.MutationHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, orderHandler, stockHandler, projectionHandler, mutationHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	orderHandler *api.OrderHandler,
	stockHandler *api.StockHandler,
	projectionHandler *api.ProjectionHandler,
	mutationHandler *api.MutationHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		stock := apiGroup.Group("/stock")
		{
			addRoutes(stock, []route{
				{Method: http.MethodGet, Path: "", Handler: stockHandler.ListStock},
			})
		}

		orders := apiGroup.Group("/orders")
		orders.Use(authMiddleware.RequireRoleAtLeast(user.RoleAdmin))
		{
			addRoutes(orders, []route{
				{Method: http.MethodGet, Path: "", Handler: orderHandler.ListOrders},
				{Method: http.MethodGet, Path: "/:id/edit", Handler: orderHandler.GetEditView},
			})
		}

		projections := apiGroup.Group("/projections")
		projections.Use(authMiddleware.RequireRoleAtLeast(user.RoleAdmin))
		{
			addRoutes(projections, []route{
				{Method: http.MethodGet, Path: "", Handler: projectionHandler.List},
				{Method: http.MethodPost, Path: "/refresh", Handler: projectionHandler.RefreshAll},
				{Method: http.MethodPost, Path: "/:name/refresh", Handler: projectionHandler.Refresh},
			})
		}

		internal := apiGroup.Group("/internal")
		internal.Use(authMiddleware.RequireRoleAtLeast(user.RoleAdmin))
		{
			addRoutes(internal, []route{
				{Method: http.MethodPost, Path: "/mutations", Handler: mutationHandler.Notify},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
