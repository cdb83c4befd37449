package controller

import (
	appConfig "github.com/prezm/poc-orchestrator/config"
	"github.com/prezm/poc-orchestrator/infra"
	"github.com/prezm/poc-orchestrator/repository"
)

type Controller struct {
	Config     *appConfig.Config
	Infra      *infra.Infra
	Repository *repository.Repository
}

func NewController(config *appConfig.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	if repo == nil {
		panic("Failed to initialize Repository")
	}
	return &Controller{
		Config:     config,
		Infra:      infra,
		Repository: repo,
	}
}
