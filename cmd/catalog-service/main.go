// cmd/catalog-service/main.go
package main

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"freshcart/internal/pkg/bootstrap"
	"freshcart/internal/pkg/logger"
	"freshcart/internal/pkg/metrics"
	"freshcart/internal/service/catalog/application"
	"freshcart/internal/service/catalog/infrastructure"
	"freshcart/internal/service/catalog/interfaces"
)

const serviceName = "catalog-service"

// main 函数是应用的"组装根" (Composition Root)
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()
	log := logger.Logger()

	db, err := gorm.Open(mysql.Open(cfg.Infra.Mysql.DSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mysql")
	}
	if err := db.AutoMigrate(&infrastructure.ItemModel{}); err != nil {
		log.Fatal().Err(err).Msg("failed to run auto migration")
	}

	service := application.NewCatalogService(infrastructure.NewGormItemRepository(db), otel.Tracer(serviceName))

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8082,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			appCtx.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			appCtx.Mux.Handle("/metrics", metrics.Handler())
			interfaces.NewCatalogHandler(service).RegisterRoutes(appCtx.Mux)
		},
	})
}
