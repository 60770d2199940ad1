package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port          string `mapstructure:"port"`
		Env           string `mapstructure:"env"`
		PublicBaseURL string `mapstructure:"public_base_url"`
	} `mapstructure:"app"`
	DB struct {
		DSN      string `mapstructure:"dsn"`
		MaxConns int32  `mapstructure:"max_conns"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		Issuer        string        `mapstructure:"issuer"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	Cloudinary struct {
		CloudName    string        `mapstructure:"cloud_name"`
		ApiKey       string        `mapstructure:"api_key"`
		ApiSecret    string        `mapstructure:"api_secret"`
		Timeout      time.Duration `mapstructure:"timeout"`
		DeliveryHost string        `mapstructure:"delivery_host"`
	} `mapstructure:"cloudinary"`
	Media struct {
		MaxVideoBytes int64 `mapstructure:"max_video_bytes"`
		MaxImageBytes int64 `mapstructure:"max_image_bytes"`
	} `mapstructure:"media"`
	RateLimit struct {
		RequestsPerMinute int `mapstructure:"requests_per_minute"`
	} `mapstructure:"rate_limit"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
}

const (
	DefaultMaxVideoBytes = 70 << 20
	DefaultMaxImageBytes = 25 << 20
)

// LoadConfig reads config.yaml from the given directories (default ".") and
// lets environment variables override it. Call it once at startup.
func LoadConfig(paths ...string) (cfg Config, err error) {
	err = godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.public_base_url", "http://localhost:3000")
	v.SetDefault("db.max_conns", 10)
	v.SetDefault("auth.token_lifespan", 24*time.Hour)
	v.SetDefault("cloudinary.timeout", 60*time.Second)
	v.SetDefault("cloudinary.delivery_host", "res.cloudinary.com")
	v.SetDefault("media.max_video_bytes", DefaultMaxVideoBytes)
	v.SetDefault("media.max_image_bytes", DefaultMaxImageBytes)
	v.SetDefault("rate_limit.requests_per_minute", 30)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.public_base_url", "APP_PUBLIC_BASE_URL")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("db.max_conns", "DB_MAX_CONNS")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.issuer", "JWT_ISSUER")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")
	v.BindEnv("cloudinary.timeout", "CLOUDINARY_TIMEOUT")
	v.BindEnv("cloudinary.delivery_host", "CLOUDINARY_DELIVERY_HOST")

	v.BindEnv("media.max_video_bytes", "MEDIA_MAX_VIDEO_BYTES")
	v.BindEnv("media.max_image_bytes", "MEDIA_MAX_IMAGE_BYTES")
	v.BindEnv("rate_limit.requests_per_minute", "RATE_LIMIT_RPM")
	v.BindEnv("jaeger.otlp_endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")

	err = v.Unmarshal(&cfg)
	return
}
