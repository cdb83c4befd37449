package repository

import (
	appConfig "github.com/prezm/poc-orchestrator/config"
	"github.com/prezm/poc-orchestrator/infra"
)

type Repository struct {
	CounterRepo    *CounterRepository
	CredentialRepo *CredentialRepository
	AccessRepo     *AccessRepository
}

var repository *Repository

func InitRepository(cfg *appConfig.Config, infra *infra.Infra) *Repository {
	repository = &Repository{
		CounterRepo:    NewCounterRepository(infra.SSM, cfg.EnvConfig.SSM.CounterParam),
		CredentialRepo: NewCredentialRepository(infra.SSM, cfg.EnvConfig),
		AccessRepo:     NewAccessRepository(infra.SSM, cfg.EnvConfig.SSM.AccessParam),
	}
	return repository
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}
