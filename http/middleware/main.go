package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/prezm/poc-orchestrator/http/controller"
)

type Middlewares struct {
	TracingMiddleware gin.HandlerFunc
	CORSMiddleware    gin.HandlerFunc
	AuthMiddleware    gin.HandlerFunc
}

func NewMiddlewares(ctrl *controller.Controller) (*Middlewares, error) {
	tracing := TracingMiddleware(ctrl.Config.EnvConfig.Grafana.ServiceName)
	cors := CORSMiddleware(ctrl.Config.EnvConfig)
	auth := AuthMiddleware(ctrl.Config.EnvConfig)

	return &Middlewares{
		TracingMiddleware: tracing,
		CORSMiddleware:    cors,
		AuthMiddleware:    auth,
	}, nil
}
