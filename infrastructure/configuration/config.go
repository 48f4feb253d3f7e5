package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	RateLimit   RateLimit   `json:"rateLimit"`
	YouTube     YouTube     `json:"youtube"`
	Events      Events      `json:"events"`
	Logger      Logger      `json:"logger"`
	Analytics   Analytics   `json:"analytics"`
}

type App struct {
	Env         string `json:"env"`
	Port        int    `json:"port"`
	SecretKey   string `json:"secretKey"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
}

// Database vendors for the channel store.
const (
	VendorPostgres = "postgres"
	VendorMySQL    = "mysql"
)

type Database struct {
	Vendor string `json:"vendor"`
	Psql   Db     `json:"psql"`
	MySql  Db     `json:"mysql"`
	Mssql  Db     `json:"mssql"`
	Mongo  Db     `json:"mongo"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	Username string `json:"username"`
	DB       int    `json:"db"`
}

// Rate-limit store backends.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMSSQL    = "mssql"
	BackendMongo    = "mongo"
)

type RateLimit struct {
	Backend             string `json:"backend"`
	MinFetchIntervalSec int    `json:"minFetchIntervalSec"`
}

type YouTube struct {
	APIKey            string  `json:"apiKey"`
	Endpoint          string  `json:"endpoint"`
	RequestsPerSecond float64 `json:"requestsPerSecond"`
}

// Event providers for ImportCompleted.
const (
	EventsNone       = "none"
	EventsPubSub     = "pubsub"
	EventsServiceBus = "servicebus"
)

type Events struct {
	Provider  string `json:"provider"`
	Topic     string `json:"topic"`
	ProjectID string `json:"projectID"`
	Namespace string `json:"namespace"`
}

type Logger struct {
	Level string `json:"level"`
}

type Analytics struct {
	DefaultRPM float64 `json:"defaultRPM"`
	Timezone   string  `json:"timezone"`
}

// Load reads config[-ENV].json from the working directory or its parents,
// then applies environment overrides.
func Load(log *logrus.Logger) (*Config, error) {
	v := viper.New()
	name := getConfig()
	v.SetConfigName(name)
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.WithField("config", name).Warn("Config file not found")
		} else {
			return nil, fmt.Errorf("read config %s: %w", name, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	c.App.Env = getEnv("ENV", c.App.Env)
	initDatabase(&c)
	initApp(&c)
	initRateLimit(&c)
	initEvents(&c)
	c.Logger.Level = getConfigValue(c.Logger.Level, "LOG_LEVEL", "info")

	log.WithFields(logrus.Fields{
		"config":           name,
		"dbVendor":         c.Database.Vendor,
		"rateLimitBackend": c.RateLimit.Backend,
		"eventsProvider":   c.Events.Provider,
	}).Info("Config set up successfully")
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", 10001)
	v.SetDefault("database.vendor", VendorPostgres)
	v.SetDefault("database.psql.sslMode", "disable")
	v.SetDefault("rateLimit.backend", BackendRedis)
	v.SetDefault("rateLimit.minFetchIntervalSec", 600)
	v.SetDefault("events.provider", EventsNone)
	v.SetDefault("events.topic", "channel-imported")
	v.SetDefault("analytics.defaultRPM", 1200)
	v.SetDefault("analytics.timezone", "UTC")
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(c *Config) {
	c.Database.Vendor = strings.ToLower(getConfigValue(c.Database.Vendor, "DB_VENDOR", VendorPostgres))

	primary := &c.Database.Psql
	if c.Database.Vendor == VendorMySQL {
		primary = &c.Database.MySql
	}
	primary.Name = getConfigValue(primary.Name, "DB_NAME", "")
	primary.Host = getConfigValue(primary.Host, "DB_HOST", "localhost")
	primary.User = getConfigValue(primary.User, "DB_USER", "")
	primary.Password = getConfigValue(primary.Password, "DB_PASSWORD", "")
	if c.Database.Vendor == VendorMySQL {
		primary.Port = getConfigValue(primary.Port, "DB_PORT", "3306")
	} else {
		primary.Port = getConfigValue(primary.Port, "DB_PORT", "5432")
	}

	mssql := &c.Database.Mssql
	mssql.Name = getConfigValue(mssql.Name, "MSSQL_DB_NAME", "")
	mssql.Host = getConfigValue(mssql.Host, "MSSQL_HOST", "localhost")
	mssql.Port = getConfigValue(mssql.Port, "MSSQL_PORT", "1433")
	mssql.User = getConfigValue(mssql.User, "MSSQL_USER", "")
	mssql.Password = getConfigValue(mssql.Password, "MSSQL_PASSWORD", "")

	mongo := &c.Database.Mongo
	mongo.Name = getConfigValue(mongo.Name, "MONGO_DB_NAME", "yt_insights")
	mongo.Host = getConfigValue(mongo.Host, "MONGO_HOST", "localhost")
	mongo.Port = getConfigValue(mongo.Port, "MONGO_PORT", "27017")
	mongo.User = getConfigValue(mongo.User, "MONGO_USER", "")
	mongo.Password = getConfigValue(mongo.Password, "MONGO_PASSWORD", "")

	c.RedisClient.Host = getConfigValue(c.RedisClient.Host, "REDIS_HOST", "localhost")
	c.RedisClient.Port = getConfigValue(c.RedisClient.Port, "REDIS_PORT", "6379")
	c.RedisClient.Password = getConfigValue(c.RedisClient.Password, "REDIS_PASSWORD", "")
}

func initApp(c *Config) {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		c.App.SecretKey = v
	}
	// APP_PORT -> PORT -> config -> default
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.App.Port = p
		}
	}
	if c.App.Port == 0 {
		c.App.Port = 10001
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			c.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			c.App.TLSEnabled = false
		}
	}
	c.App.TLSCertFile = getConfigValue(c.App.TLSCertFile, "TLS_CERT_FILE", "")
	c.App.TLSKeyFile = getConfigValue(c.App.TLSKeyFile, "TLS_KEY_FILE", "")
}

func initRateLimit(c *Config) {
	c.RateLimit.Backend = strings.ToLower(getConfigValue(c.RateLimit.Backend, "RATE_LIMIT_BACKEND", BackendRedis))
	if v := os.Getenv("MIN_FETCH_INTERVAL"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil {
			c.RateLimit.MinFetchIntervalSec = sec
		}
	}
	if c.RateLimit.MinFetchIntervalSec <= 0 {
		c.RateLimit.MinFetchIntervalSec = 600
	}
}

func initEvents(c *Config) {
	c.Events.Provider = strings.ToLower(getConfigValue(c.Events.Provider, "EVENTS_PROVIDER", EventsNone))
	c.Events.ProjectID = getConfigValue(c.Events.ProjectID, "PUBSUB_PROJECT_ID", "")
	c.Events.Namespace = getConfigValue(c.Events.Namespace, "SERVICEBUS_NAMESPACE", "")
	c.Events.Topic = getConfigValue(c.Events.Topic, "EVENTS_TOPIC", "channel-imported")
}
