package insights

import (
	"time"

	"github.com/marketlane/sellermetrics/internal/metrics"
	"github.com/marketlane/sellermetrics/internal/responsetime"
)

// Config tunes how metrics are computed.
type Config struct {
	Timezone          string        `mapstructure:"timezone"`
	TopProducts       int           `mapstructure:"top_products"`
	BottomMinQuantity int           `mapstructure:"bottom_min_quantity"`
	TopBuyers         int           `mapstructure:"top_buyers"`
	TopSellers        int           `mapstructure:"top_sellers"`
	ResponseCeiling   time.Duration `mapstructure:"response_ceiling"`
	CurrentEstimate   time.Duration `mapstructure:"current_estimate"`
	PreviousEstimate  time.Duration `mapstructure:"previous_estimate"`
	SellerCacheTTL    time.Duration `mapstructure:"seller_cache_ttl"`
}

// DefaultConfig returns the settings used when a field is left empty.
func DefaultConfig() Config {
	return Config{
		Timezone:          "UTC",
		TopProducts:       5,
		BottomMinQuantity: metrics.MinBottomQuantity,
		TopBuyers:         5,
		TopSellers:        5,
		ResponseCeiling:   responsetime.DefaultCeiling,
		CurrentEstimate:   responsetime.DefaultCurrentEstimate,
		PreviousEstimate:  responsetime.DefaultPreviousEstimate,
		SellerCacheTTL:    5 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
	if c.TopProducts <= 0 {
		c.TopProducts = d.TopProducts
	}
	if c.BottomMinQuantity <= 0 {
		c.BottomMinQuantity = d.BottomMinQuantity
	}
	if c.TopBuyers <= 0 {
		c.TopBuyers = d.TopBuyers
	}
	if c.TopSellers <= 0 {
		c.TopSellers = d.TopSellers
	}
	return c
}
