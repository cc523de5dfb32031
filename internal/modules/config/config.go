package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"

	smartAPIKeyENV     = "SMARTAPI_KEY"
	smartClientCodeENV = "SMARTAPI_CLIENT_CODE"
	smartPasswordENV   = "SMARTAPI_PASSWORD"
	smartTOTPSecretENV = "SMARTAPI_TOTP_SECRET"
)

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB string `yaml:"db_dsn"`

	SmartAPI struct {
		BaseURL    string `yaml:"base_url"`
		WSURL      string `yaml:"ws_url"`
		APIKey     string `yaml:"api_key"`
		ClientCode string `yaml:"client_code"`
		Password   string `yaml:"password"`
		TOTPSecret string `yaml:"totp_secret"`
	} `yaml:"smartapi"`

	Health struct {
		Addr string `yaml:"addr"`
	} `yaml:"health"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// Часовой пояс биржи: бакеты свечей режем по его стенным часам.
	ExchangeZone string `yaml:"exchange_zone"`

	EngineQueueSize   int  `yaml:"engine_queue_size"`
	DispatchShards    int  `yaml:"dispatch_shards"`
	DispatchQueueSize int  `yaml:"dispatch_queue_size"`
	PreserveHistory   bool `yaml:"preserve_history"`
	BackfillDays      int  `yaml:"backfill_days"`

	OrderQty    int  `yaml:"order_qty"`
	PlaceOrders bool `yaml:"place_orders"`

	Registrations []RegistrationYAML `yaml:"registrations"`

	PingInterval time.Duration
	LogLevel     string
}

// RegistrationYAML — привязка из конфига, до валидации таймфрейма.
type RegistrationYAML struct {
	Token      string             `yaml:"token"`
	Symbol     string             `yaml:"symbol"`
	Exchange   string             `yaml:"exchange"`
	Timeframe  string             `yaml:"timeframe"`
	Strategy   string             `yaml:"strategy"`
	Params     map[string]float64 `yaml:"params"`
	MinHistory int                `yaml:"min_history"`
}

func NewConfig() (*Config, error) {

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		ExchangeZone: "Asia/Kolkata",
		BackfillDays: 2,
		OrderQty:     1,
		PlaceOrders:  true,

		EngineQueueSize:   intFromEnv("ENGINE_QUEUE_SIZE", 1024),
		DispatchShards:    intFromEnv("DISPATCH_SHARDS", 4),
		DispatchQueueSize: intFromEnv("DISPATCH_QUEUE_SIZE", 256),
		PreserveHistory:   boolFromEnv("PRESERVE_HISTORY", false),

		PingInterval: durationFromEnv("WS_PING_INTERVAL", "25s"),
		LogLevel:     getenvDefault("LOG_LEVEL", "info"),
	}
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}

	if v := os.Getenv(smartAPIKeyENV); v != "" {
		config.SmartAPI.APIKey = v
	}
	if v := os.Getenv(smartClientCodeENV); v != "" {
		config.SmartAPI.ClientCode = v
	}
	if v := os.Getenv(smartPasswordENV); v != "" {
		config.SmartAPI.Password = v
	}
	if v := os.Getenv(smartTOTPSecretENV); v != "" {
		config.SmartAPI.TOTPSecret = v
	}

	if config.SmartAPI.BaseURL == "" {
		config.SmartAPI.BaseURL = "https://apiconnect.angelone.in"
	}
	if config.SmartAPI.WSURL == "" {
		config.SmartAPI.WSURL = "wss://smartapisocket.angelone.in/smart-stream"
	}
	if config.Health.Addr == "" {
		config.Health.Addr = ":8080"
	}

	return &config, nil
}

// Location — *time.Location по ExchangeZone, с фоллбеком на фиксированный IST.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ExchangeZone)
	if err != nil {
		return time.FixedZone("IST", 19800)
	}
	return loc
}

func getenvRequired(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("env %s is required", key))
	}
	return v
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func boolFromEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if v == "1" || v == "true" || v == "TRUE" {
			return true
		}
		if v == "0" || v == "false" || v == "FALSE" {
			return false
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
