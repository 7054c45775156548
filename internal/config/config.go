package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GatewayConfig holds the payment gateway credentials. KeyID is public and
// returned to clients so they can open the gateway's checkout widget;
// KeySecret signs order/payment pairs and never leaves the server.
type GatewayConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	KeyID     string `mapstructure:"key_id"`
	KeySecret string `mapstructure:"key_secret"`
}

type InvoiceConfig struct {
	TaxRatePercent float64 `mapstructure:"tax_rate_percent"`
	SellerName     string  `mapstructure:"seller_name"`
	SellerAddress  string  `mapstructure:"seller_address"`
	SellerEmail    string  `mapstructure:"seller_email"`
}

type StorageConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Sender   string `mapstructure:"sender"`
}

type ObservabilityConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name"`
}

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Gateway       GatewayConfig       `mapstructure:"gateway"`
	Invoice       InvoiceConfig       `mapstructure:"invoice"`
	Storage       StorageConfig       `mapstructure:"storage"`
	SMTP          SMTPConfig          `mapstructure:"smtp"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// Load reads configuration from talentbill.yaml (optional) and the
// environment. Env keys are upper snake case with section prefixes, e.g.
// TB_GATEWAY_KEY_SECRET.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("talentbill")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/talentbill")

	v.SetEnvPrefix("TB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:talentbill.db?cache=shared")
	v.SetDefault("redis.db", 0)
	v.SetDefault("gateway.base_url", "https://api.razorpay.com")
	v.SetDefault("invoice.tax_rate_percent", 18)
	v.SetDefault("invoice.seller_name", "TalentBill")
	v.SetDefault("storage.region", "ap-south-1")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("observability.service_name", "talentbill")
}

// MailEnabled reports whether outbound email is configured. Absence of
// SMTP settings degrades invoice notification to a no-op, not a failure.
func (c Config) MailEnabled() bool {
	return strings.TrimSpace(c.SMTP.Host) != ""
}

// StorageEnabled reports whether invoice archival has a bucket to write to.
func (c Config) StorageEnabled() bool {
	return strings.TrimSpace(c.Storage.Bucket) != ""
}
