package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prezm/poc-orchestrator/http/controller"
	middlewares "github.com/prezm/poc-orchestrator/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.TracingMiddleware)
	r.Use(middles.CORSMiddleware)
	r.GET("/health", ctrl.HealthCheck)

	apiRoutes := r.Group("/api/v1/poc")
	{
		apiRoutes.Use(middles.AuthMiddleware)

		envRoutes := apiRoutes.Group("/environments")
		{
			envRoutes.POST("/", ctrl.CreateEnvironment)
			envRoutes.GET("/", ctrl.ListEnvironments)
			envRoutes.POST("/lifecycle", ctrl.ToggleEnvironment)
		}

		userRoutes := apiRoutes.Group("/users")
		{
			userRoutes.GET("/", ctrl.ListAccessEntries)
			userRoutes.POST("/", ctrl.AddAccessEntry)
			userRoutes.DELETE("/", ctrl.RemoveAccessEntry)
		}
	}
	return r
}
