package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	httpapi "github.com/marketlane/sellermetrics/internal/api/http"
	"github.com/marketlane/sellermetrics/internal/auth/jwt"
	"github.com/marketlane/sellermetrics/internal/insights"
	"github.com/marketlane/sellermetrics/internal/sellerrefresh"
	"github.com/marketlane/sellermetrics/internal/store"
	"github.com/marketlane/sellermetrics/log"
	"github.com/spf13/viper"
)

// Config represents the global configuration for the service.
type Config struct {
	DB            store.Config         `mapstructure:"mysql"`
	Logger        log.Config           `mapstructure:"logger"`
	HTTP          httpapi.Config       `mapstructure:"http"`
	Auth          jwt.Config           `mapstructure:"auth"`
	Insights      insights.Config      `mapstructure:"insights"`
	SellerRefresh sellerrefresh.Config `mapstructure:"seller_refresh"`
}

// LoadConfig loads the configuration from a file and/or environment variables.
// Environment variables take precedence over config file values.
// Nested config keys use double underscore, e.g. MYSQL__DSN for mysql.dsn;
// the common keys also have flat aliases such as MYSQL_DSN.
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))

	setDefaults(v)
	bindEnvVars(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/config/sellermetrics")
		v.AddConfigPath("/etc/sellermetrics")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}

	if config.DB.DSN == "" {
		config.DB.DSN = dsnFromEnv(config.DB.TLSCAPath != "")
	}

	return &config, nil
}

// dsnFromEnv assembles a DSN from MYSQL_HOST, MYSQL_PORT, MYSQL_USER,
// MYSQL_PASSWORD and MYSQL_DATABASE. It returns "" when any required part
// is missing.
func dsnFromEnv(withTLS bool) string {
	host := os.Getenv("MYSQL_HOST")
	port := os.Getenv("MYSQL_PORT")
	user := os.Getenv("MYSQL_USER")
	password := os.Getenv("MYSQL_PASSWORD")
	database := os.Getenv("MYSQL_DATABASE")

	if host == "" || user == "" || password == "" || database == "" {
		return ""
	}
	if port == "" {
		port = "3306"
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		user, password, host, port, database)
	if withTLS {
		dsn += "&tls=custom"
	}
	return dsn
}

func setDefaults(v *viper.Viper) {
	d := insights.DefaultConfig()

	v.SetDefault("mysql.max_open_connections", 10)
	v.SetDefault("mysql.max_idle_connections", 5)

	v.SetDefault("logger.level", 0)

	v.SetDefault("http.port", "8081")
	v.SetDefault("http.address", "0.0.0.0")
	v.SetDefault("http.request_timeout", "30s")
	v.SetDefault("http.rate_limit.rps", 10)
	v.SetDefault("http.rate_limit.burst", 20)

	v.SetDefault("auth.jwt_ttl", "24h")

	v.SetDefault("insights.timezone", d.Timezone)
	v.SetDefault("insights.top_products", d.TopProducts)
	v.SetDefault("insights.bottom_min_quantity", d.BottomMinQuantity)
	v.SetDefault("insights.top_buyers", d.TopBuyers)
	v.SetDefault("insights.top_sellers", d.TopSellers)
	v.SetDefault("insights.response_ceiling", d.ResponseCeiling.String())
	v.SetDefault("insights.current_estimate", d.CurrentEstimate.String())
	v.SetDefault("insights.previous_estimate", d.PreviousEstimate.String())
	v.SetDefault("insights.seller_cache_ttl", d.SellerCacheTTL.String())

	v.SetDefault("seller_refresh.worker_interval", sellerrefresh.DefaultConfig().WorkerInterval.String())
}

// bindEnvVars binds environment variables to config keys
// This allows using both nested keys (MYSQL__DSN) and flat keys (MYSQL_DSN)
func bindEnvVars(v *viper.Viper) {
	// MySQL
	v.BindEnv("mysql.dsn", "MYSQL_DSN")
	v.BindEnv("mysql.automigrate", "MYSQL_AUTOMIGRATE")
	v.BindEnv("mysql.max_open_connections", "MYSQL_MAX_OPEN_CONNECTIONS")
	v.BindEnv("mysql.max_idle_connections", "MYSQL_MAX_IDLE_CONNECTIONS")
	v.BindEnv("mysql.tls_ca_path", "MYSQL_TLS_CA_PATH")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.add_source", "LOG_ADD_SOURCE")

	// HTTP
	v.BindEnv("http.port", "HTTP_PORT")
	v.BindEnv("http.address", "HTTP_ADDRESS")
	v.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")
	v.BindEnv("http.request_timeout", "HTTP_REQUEST_TIMEOUT")
	v.BindEnv("http.rate_limit.rps", "HTTP_RATE_LIMIT_RPS")
	v.BindEnv("http.rate_limit.burst", "HTTP_RATE_LIMIT_BURST")
	v.BindEnv("http.trusted_proxies", "HTTP_TRUSTED_PROXIES")

	// Auth
	v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")
	v.BindEnv("auth.jwt_ttl", "AUTH_JWT_TTL")

	// Insights
	v.BindEnv("insights.timezone", "INSIGHTS_TIMEZONE")
	v.BindEnv("insights.top_products", "INSIGHTS_TOP_PRODUCTS")
	v.BindEnv("insights.bottom_min_quantity", "INSIGHTS_BOTTOM_MIN_QUANTITY")
	v.BindEnv("insights.top_buyers", "INSIGHTS_TOP_BUYERS")
	v.BindEnv("insights.top_sellers", "INSIGHTS_TOP_SELLERS")
	v.BindEnv("insights.response_ceiling", "INSIGHTS_RESPONSE_CEILING")
	v.BindEnv("insights.current_estimate", "INSIGHTS_CURRENT_ESTIMATE")
	v.BindEnv("insights.previous_estimate", "INSIGHTS_PREVIOUS_ESTIMATE")
	v.BindEnv("insights.seller_cache_ttl", "INSIGHTS_SELLER_CACHE_TTL")

	// Seller refresh
	v.BindEnv("seller_refresh.worker_interval", "SELLER_REFRESH_WORKER_INTERVAL")
}
