package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/linesmerrill/road-report-console/api/handlers"
	"github.com/linesmerrill/road-report-console/config"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	if a.Config.BackendURL == "" {
		zap.S().Fatal("BACKEND_URL must be set")
	}

	//initialize backend client, integrations and router
	if err := a.Initialize(context.Background()); err != nil {
		zap.S().Fatalw("failed to initialize", "error", err)
	}
	defer a.Close()

	zap.S().Infow("road-report-console is up and running",
		"port", a.Config.Port,
		"url", a.Config.BaseUrl,
		"backend", a.Config.BackendURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", a.Config.Port), a.Router))
}
