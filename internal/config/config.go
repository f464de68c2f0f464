package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	DB struct {
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Mongo struct {
		URI      string `mapstructure:"uri"`
		Database string `mapstructure:"database"`
	} `mapstructure:"mongo"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers      []string `mapstructure:"brokers"`
		ProfileTopic string   `mapstructure:"profile_topic"`
		GroupID      string   `mapstructure:"group_id"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	GitHub struct {
		BaseURL      string        `mapstructure:"base_url"`
		ClientID     string        `mapstructure:"client_id"`
		ClientSecret string        `mapstructure:"client_secret"`
		Timeout      time.Duration `mapstructure:"timeout"`
		CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"github"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "4000")
	v.SetDefault("app.env", "development")
	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("mongo.database", "devconnect")
	v.SetDefault("kafka.profile_topic", "profile.events")
	v.SetDefault("kafka.group_id", "profile-processor-group")
	v.SetDefault("auth.token_lifespan", "100h")
	v.SetDefault("github.base_url", "https://api.github.com")
	v.SetDefault("github.timeout", "5s")
	v.SetDefault("github.cache_ttl", "10m")
}

// LoadConfig reads config.yaml from the given directories (current directory when none
// is given) and applies environment overrides on top.
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

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("db.driver", "DB_DRIVER")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("mongo.uri", "MONGO_URI")
	v.BindEnv("mongo.database", "MONGO_DATABASE")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")
	v.BindEnv("github.client_id", "GITHUB_CLIENT_ID")
	v.BindEnv("github.client_secret", "GITHUB_SECRET")
	v.BindEnv("github.cache_ttl", "GITHUB_CACHE_TTL")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")
	v.BindEnv("jaeger.otlp_endpoint", "OTLP_ENDPOINT")

	if err = v.Unmarshal(&cfg); err != nil {
		return
	}

	err = cfg.validate()
	return
}

func (c Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required (set in .env or config.yaml)")
	}
	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.DSN == "" {
			return errors.New("DB_DSN is required when db.driver is postgres")
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return errors.New("MONGO_URI is required when db.driver is mongo")
		}
	default:
		return errors.New("db.driver must be one of: postgres, mongo")
	}
	return nil
}
