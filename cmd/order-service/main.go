// cmd/order-service/main.go
package main

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"freshcart/internal/pkg/bootstrap"
	"freshcart/internal/pkg/logger"
	"freshcart/internal/pkg/metrics"
	"freshcart/internal/pkg/mq"
	"freshcart/internal/pkg/redis"
	catalogapp "freshcart/internal/service/catalog/application"
	cataloginfra "freshcart/internal/service/catalog/infrastructure"
	catalogiface "freshcart/internal/service/catalog/interfaces"
	"freshcart/internal/service/order/application"
	"freshcart/internal/service/order/infrastructure"
	"freshcart/internal/service/order/infrastructure/adapter"
	"freshcart/internal/service/order/interfaces"
)

const serviceName = "order-service"

// main 函数是应用的"组装根" (Composition Root)
// 它的核心职责是：创建并组装所有依赖项，然后启动应用。
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()
	log := logger.Logger()

	// 1. MySQL
	db, err := gorm.Open(mysql.Open(cfg.Infra.Mysql.DSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mysql")
	}
	if err := db.AutoMigrate(&cataloginfra.ItemModel{}, &infrastructure.OrderModel{}, &infrastructure.OrderLineModel{}); err != nil {
		log.Fatal().Err(err).Msg("failed to run auto migration")
	}

	// 2. Redis（幂等键存储）
	redisClient, err := redis.NewClient(context.Background(), cfg.Infra.Redis.Addr, cfg.Infra.Redis.Password, cfg.Infra.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// 3. Kafka（集成事件）
	producer := adapter.NewKafkaEventProducer(mq.NewWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.OrderEventsTopic))

	idemStore, err := adapter.NewRedisIdempotencyStore(redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up idempotency store")
	}

	// 4. 配送费策略，表达式写错直接拒绝启动
	feePolicy, err := adapter.NewCELFeePolicy(cfg.App.DeliveryFeeExpr)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid delivery fee expression")
	}

	// 5. 组装应用服务
	itemRepo := cataloginfra.NewGormItemRepository(db)
	orderRepo := infrastructure.NewGormOrderRepository(db)
	tracer := otel.Tracer(serviceName)

	orderService := application.NewOrderApplicationService(
		orderRepo,
		adapter.NewCatalogAdapter(itemRepo),
		feePolicy,
		tracer,
		application.Options{
			Producer:       producer,
			Idempotency:    idemStore,
			Metrics:        metrics.NewOrderMetrics(serviceName),
			IdempotencyTTL: time.Duration(cfg.App.IdempotencyTTLSeconds) * time.Second,
			DeliveryETA:    time.Duration(cfg.App.StaticETAMinutes) * time.Minute,
		},
	)

	// 订单服务同时暴露目录的只读查询，前端购物页只访问这一个进程
	catalogService := catalogapp.NewCatalogService(itemRepo, tracer)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8081,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			appCtx.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			appCtx.Mux.Handle("/metrics", metrics.Handler())
			interfaces.NewOrderHandler(orderService).RegisterRoutes(appCtx.Mux)
			catalogiface.NewCatalogHandler(catalogService).RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: func(ctx context.Context) {
			if err := producer.Close(); err != nil {
				log.Error().Err(err).Msg("error closing kafka producer")
			}
			if err := redisClient.Close(); err != nil {
				log.Error().Err(err).Msg("error closing redis client")
			}
		},
	})
}
