package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/pkg/mysql"
)

// Storage drivers
const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Config 對應 config/config.yaml
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Storage  StorageConfig  `yaml:"storage"`
	MySQL    mysql.Config   `yaml:"mysql"`
	Auth     AuthConfig     `yaml:"auth"`
	Currency CurrencyConfig `yaml:"currency"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// HTTPConfig REST API 設定
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	BasePath        string        `yaml:"base_path"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// GRPCConfig health service 設定
type GRPCConfig struct {
	Addr           string        `yaml:"addr"`
	HealthInterval time.Duration `yaml:"health_interval"`
}

// StorageConfig 選擇儲存層
type StorageConfig struct {
	Driver      string `yaml:"driver"`   // mysql | memory
	WALPath     string `yaml:"wal_path"` // memory 專用，空字串表示不落地
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// AuthConfig token 與密碼設定
type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost"`
}

// CurrencyConfig 幣別換算設定
// rates 為「每 1 單位參考幣別可換得多少外幣」，以字串保存避免浮點誤差
type CurrencyConfig struct {
	Reference string            `yaml:"reference"`
	Rates     map[string]string `yaml:"rates"`
}

// LoggingConfig slog 設定
type LoggingConfig struct {
	Level         string `yaml:"level"`
	Format        string `yaml:"format"` // text|json
	IncludeCaller bool   `yaml:"include_caller"`
}

// Load 讀取 YAML 設定檔，補全預設值後套用環境變數
// path 為空字串時只使用預設值與環境變數
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults 補全預設配置 (如果 yaml 沒寫)
func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":5000"
	}
	if c.HTTP.BasePath == "" {
		c.HTTP.BasePath = "/api"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}

	if c.GRPC.Addr == "" {
		c.GRPC.Addr = ":50051"
	}
	if c.GRPC.HealthInterval == 0 {
		c.GRPC.HealthInterval = 5 * time.Second
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverMySQL
	}

	if c.MySQL.Port == 0 {
		c.MySQL.Port = 3306
	}
	if c.MySQL.MaxOpenConns == 0 {
		c.MySQL.MaxOpenConns = 100
	}
	if c.MySQL.MaxIdleConns == 0 {
		c.MySQL.MaxIdleConns = 10
	}
	if c.MySQL.ConnMaxLifetime == 0 {
		c.MySQL.ConnMaxLifetime = 30 * time.Minute
	}

	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 100 * time.Hour
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 10
	}

	if c.Currency.Reference == "" {
		c.Currency.Reference = "CAD"
	}
	if len(c.Currency.Rates) == 0 {
		c.Currency.Rates = map[string]string{
			"USD": "0.5",
			"MXN": "10",
		}
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// applyEnv 環境變數覆寫 (部署時放密碼用)
func (c *Config) applyEnv() {
	if v := os.Getenv("BANK_HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("BANK_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("BANK_MYSQL_PASSWORD"); v != "" {
		c.MySQL.Password = v
	}
	if v := os.Getenv("BANK_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
}

// Validate 檢查必要欄位
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case DriverMySQL, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be %q or %q, got %q", DriverMySQL, DriverMemory, c.Storage.Driver))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required (or BANK_JWT_SECRET)"))
	}
	if _, err := c.Currency.RateTable(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// RateTable 由設定建立 domain.RateTable
func (c CurrencyConfig) RateTable() (*domain.RateTable, error) {
	rates := make(map[string]decimal.Decimal, len(c.Rates))
	for code, raw := range c.Rates {
		rate, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("currency.rates.%s: %w", code, err)
		}
		rates[code] = rate
	}
	return domain.NewRateTable(c.Reference, rates)
}
