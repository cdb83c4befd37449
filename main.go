package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	appConfig "github.com/prezm/poc-orchestrator/config"
	"github.com/prezm/poc-orchestrator/http/controller"
	routes "github.com/prezm/poc-orchestrator/http/route"
	infraPkg "github.com/prezm/poc-orchestrator/infra"
	"github.com/prezm/poc-orchestrator/repository"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := appConfig.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	defer infra.Shutdown(context.Background())

	repo := repository.InitRepository(cfg, infra)

	ctrl := controller.NewController(cfg, infra, repo)

	router := routes.SetupRouter(ctrl)

	log.Println("HTTP Server started on :8080")
	if err := router.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
