package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

type Config struct {
	// 服务配置
	ServerPort  string `env:"SERVER_PORT" envDefault:"8888"`
	ServerHost  string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName string `env:"SERVICE_NAME" envDefault:"medibook"`

	// PostgreSQL 配置
	PostgreSQLHost        string `env:"POSTGRESQL_HOST" envDefault:"localhost"`
	PostgreSQLPort        string `env:"POSTGRESQL_PORT" envDefault:"5432"`
	PostgreSQLUser        string `env:"POSTGRESQL_USER" envDefault:"postgres"`
	PostgreSQLPassword    string `env:"POSTGRESQL_PASSWORD" envDefault:"postgres"`
	PostgreSQLDatabase    string `env:"POSTGRESQL_DATABASE" envDefault:"medibook"`
	PostgreSQLSchema      string `env:"POSTGRESQL_SCHEMA" envDefault:"public"`
	PostgreSQLSSLMode     string `env:"POSTGRESQL_SSLMODE" envDefault:"disable"`
	PostgreSQLMaxIdle     int    `env:"POSTGRESQL_MAX_IDLE" envDefault:"30"`
	PostgreSQLMaxOpen     int    `env:"POSTGRESQL_MAX_OPEN" envDefault:"200"`
	PostgreSQLReplicaHost string `env:"POSTGRESQL_REPLICA_HOST"` // 只读副本，可选

	// Redis 配置
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"mdbk"`

	// RabbitMQ 配置
	RabbitMQAddr     string `env:"RABBITMQ_ADDR" envDefault:"localhost"`
	RabbitMQPort     string `env:"RABBITMQ_PORT" envDefault:"5672"`
	RabbitMQUsername string `env:"RABBITMQ_USERNAME" envDefault:"guest"`
	RabbitMQPassword string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	RabbitMQVhost    string `env:"RABBITMQ_VHOST" envDefault:"/"`

	// JWT 配置
	JWTSecret        string `env:"JWT_SECRET"` // 必填，用于签名 JWT
	JWTExpireMinutes int    `env:"JWT_EXPIRE_MINUTES" envDefault:"30"`
	JWTRefreshDays   int    `env:"JWT_REFRESH_DAYS" envDefault:"7"`

	// 会话配置（多步表单的累积状态绑定在会话上）
	SessionSecret     string `env:"SESSION_SECRET"`
	SessionCookieName string `env:"SESSION_COOKIE_NAME" envDefault:"mdbk_session"`
	SessionTTLHours   int    `env:"SESSION_TTL_HOURS" envDefault:"24"`

	// 对象存储配置（Supabase 风格的 Storage REST API）
	StorageBaseURL        string `env:"STORAGE_BASE_URL"`
	StorageServiceKey     string `env:"STORAGE_SERVICE_KEY"`
	StorageBucket         string `env:"STORAGE_BUCKET" envDefault:"documents"`
	StorageUploadTimeoutS int    `env:"STORAGE_UPLOAD_TIMEOUT_SECONDS" envDefault:"30"`

	// 地理编码配置
	GeocodeBaseURL string `env:"GEOCODE_BASE_URL" envDefault:"https://nominatim.openstreetmap.org"`
	GeocodeContact string `env:"GEOCODE_CONTACT"` // Nominatim 要求的联系方式，放进 UA
	// 地理编码失败时的兜底坐标
	DefaultLocationLat float64 `env:"DEFAULT_LOCATION_LAT" envDefault:"36.8065"`
	DefaultLocationLng float64 `env:"DEFAULT_LOCATION_LNG" envDefault:"10.1815"`

	// 邮件配置
	SMTPHost      string `env:"SMTP_HOST"`
	SMTPPort      string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername  string `env:"SMTP_USERNAME"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`
	MailFrom      string `env:"MAIL_FROM" envDefault:"no-reply@medibook.app"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8888"` // 确认链接的前缀

	// 邮件确认配置
	ConfirmTokenTTLHours int `env:"CONFIRM_TOKEN_TTL_HOURS" envDefault:"24"`
	ResendMaxDaily       int `env:"RESEND_MAX_DAILY" envDefault:"10"` // 超过此次数拒绝重发

	// 验证监控配置，间隔/窗口是可调参数而不是契约
	VerifyPollIntervalSeconds int `env:"VERIFY_POLL_INTERVAL_SECONDS" envDefault:"5"`
	VerifyPollWindowSeconds   int `env:"VERIFY_POLL_WINDOW_SECONDS" envDefault:"180"`
	VerifyFinalCheckSeconds   int `env:"VERIFY_FINAL_CHECK_SECONDS" envDefault:"175"`

	// 加密配置
	EncryptionKey    string `env:"ENCRYPTION_KEY"` // 用于加密手机号等敏感数据，32字节 AES-256
	PasswordHashSalt string `env:"PASSWORD_HASH_SALT"`

	// Snowflake ID 生成器配置
	SnowflakeMachineID  int64 `env:"SNOWFLAKE_MACHINE_ID" envDefault:"1"`
	SnowflakeDataCenter int64 `env:"SNOWFLAKE_DATACENTER_ID" envDefault:"1"`

	// 日志配置
	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`

	// 链路追踪配置
	TracingEnabled bool   `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT" envDefault:"localhost:4317"`

	// 速率限制配置, 配置在中间件内
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"100"` // 每秒请求数

	// 清理任务配置，扫描上传暂存区里没有归属记录的对象
	ReconcileIntervalMinutes int `env:"RECONCILE_INTERVAL_MINUTES" envDefault:"60"`
	ReconcileMinAgeMinutes   int `env:"RECONCILE_MIN_AGE_MINUTES" envDefault:"120"`
}

func init() {

	if err := godotenv.Load(); err != nil {

		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	Cfg = Config{}
	if err := env.Parse(&Cfg); err != nil {
		log.Fatalf("Failed to parse environment variables: %v", err)
	}
}

// MustValidate 校验必填配置，进程入口在启动时调用。
func MustValidate() {
	if Cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	if Cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is required")
	}

	if Cfg.EncryptionKey == "" {
		log.Fatal("ENCRYPTION_KEY is required (32 bytes for AES-256)")
	}

	if len(Cfg.EncryptionKey) != 32 {
		log.Fatal("ENCRYPTION_KEY must be exactly 32 bytes for AES-256")
	}

	if Cfg.StorageBaseURL == "" {
		log.Printf("WARN: STORAGE_BASE_URL is not set, document upload will not work")
	}

	if Cfg.SMTPHost == "" {
		log.Printf("WARN: SMTP_HOST is not set, confirmation mail will not be delivered")
	}

	if Cfg.GeocodeContact == "" {
		log.Printf("WARN: GEOCODE_CONTACT is not set, Nominatim may throttle requests")
	}
}

func (c *Config) GetDSN() string {
	return "host=" + c.PostgreSQLHost +
		" port=" + c.PostgreSQLPort +
		" user=" + c.PostgreSQLUser +
		" password=" + c.PostgreSQLPassword +
		" dbname=" + c.PostgreSQLDatabase +
		" sslmode=" + c.PostgreSQLSSLMode +
		" search_path=" + c.PostgreSQLSchema
}

// GetReplicaDSN 返回只读副本 DSN，未配置副本时为空串。
func (c *Config) GetReplicaDSN() string {
	if c.PostgreSQLReplicaHost == "" {
		return ""
	}
	return "host=" + c.PostgreSQLReplicaHost +
		" port=" + c.PostgreSQLPort +
		" user=" + c.PostgreSQLUser +
		" password=" + c.PostgreSQLPassword +
		" dbname=" + c.PostgreSQLDatabase +
		" sslmode=" + c.PostgreSQLSSLMode +
		" search_path=" + c.PostgreSQLSchema
}

func (c *Config) GetRabbitMQURL() string {
	return "amqp://" + c.RabbitMQUsername + ":" + c.RabbitMQPassword + "@" + c.RabbitMQAddr + ":" + c.RabbitMQPort + c.RabbitMQVhost
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
