package bootstrap

import (
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"freshcart/internal/pkg/logger"
)

// Config 是所有服务共享的配置结构。
// 默认值在代码中给出，yaml 文件与环境变量依次覆盖。
type Config struct {
	App struct {
		// DeliveryFeeExpr 是配送费策略的 CEL 表达式，
		// 可用变量: subtotal (double), item_count (int)。
		DeliveryFeeExpr string `yaml:"delivery_fee_expr"`
		// StaticETAMinutes 下单后给用户展示的静态送达预估（分钟）。
		StaticETAMinutes int `yaml:"static_eta_minutes"`
		// IdempotencyTTLSeconds 幂等键在 Redis 中的存活时间。
		IdempotencyTTLSeconds int `yaml:"idempotency_ttl_seconds"`
	} `yaml:"app"`

	Infra struct {
		Mysql struct {
			DSN string `yaml:"dsn"`
		} `yaml:"mysql"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
		Kafka struct {
			Brokers          []string `yaml:"brokers"`
			OrderEventsTopic string   `yaml:"order_events_topic"`
		} `yaml:"kafka"`
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
		Nacos struct {
			Enabled     bool   `yaml:"enabled"`
			ServerAddrs string `yaml:"server_addrs"`
			Namespace   string `yaml:"namespace"`
			Group       string `yaml:"group"`
		} `yaml:"nacos"`
	} `yaml:"infra"`
}

var (
	currentConfig Config
	configOnce    sync.Once
)

// Init 加载配置。必须在 StartService 之前调用。
func Init() {
	configOnce.Do(func() {
		currentConfig = defaultConfig()

		path := getEnv("CONFIG_PATH", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, &currentConfig); err != nil {
				logger.Logger().Fatal().Err(err).Str("path", path).Msg("invalid config file")
			}
			logger.Logger().Info().Str("path", path).Msg("config loaded")
		} else {
			// 找不到配置文件不是致命错误，默认值 + 环境变量足以在本地跑起来
			logger.Logger().Warn().Str("path", path).Msg("config file not found, using defaults")
		}

		applyEnvOverrides(&currentConfig)
	})
}

// GetCurrentConfig 返回当前生效的配置。
func GetCurrentConfig() Config {
	return currentConfig
}

func defaultConfig() Config {
	var c Config
	c.App.DeliveryFeeExpr = `subtotal >= 35.0 ? 0.0 : 4.99`
	c.App.StaticETAMinutes = 45
	c.App.IdempotencyTTLSeconds = 86400
	c.Infra.Mysql.DSN = "root:root@tcp(localhost:3306)/freshcart?charset=utf8mb4&parseTime=True&loc=Local"
	c.Infra.Redis.Addr = "localhost:6379"
	c.Infra.Kafka.Brokers = []string{"localhost:9092"}
	c.Infra.Kafka.OrderEventsTopic = "order-events-topic"
	c.Infra.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	c.Infra.Nacos.Group = "DEFAULT_GROUP"
	return c
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		c.Infra.Mysql.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Infra.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Infra.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("JAEGER_ENDPOINT"); v != "" {
		c.Infra.Jaeger.Endpoint = v
	}
	if v := os.Getenv("NACOS_SERVER_ADDRS"); v != "" {
		c.Infra.Nacos.Enabled = true
		c.Infra.Nacos.ServerAddrs = v
	}
	if v := os.Getenv("NACOS_NAMESPACE"); v != "" {
		c.Infra.Nacos.Namespace = v
	}
	if v := os.Getenv("NACOS_GROUP"); v != "" {
		c.Infra.Nacos.Group = v
	}
	if v := os.Getenv("DELIVERY_FEE_EXPR"); v != "" {
		c.App.DeliveryFeeExpr = v
	}
}

// getEnv 是一个内部辅助函数，从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
