package stripe

import (
	"fmt"
	"strings"
)

// =====================================================
// STRIPE CONFIGURATION
// =====================================================

type Config struct {
	SecretKey  string // sk_live_... / sk_test_...
	APIURL     string // https://api.stripe.com
	Currency   string // usd
	SuccessURL string // <site>/success
	CancelURL  string // <site>/
}

func NewConfig(secretKey, apiURL, currency, siteURL string) *Config {
	site := strings.TrimRight(siteURL, "/")
	return &Config{
		SecretKey:  secretKey,
		APIURL:     strings.TrimRight(apiURL, "/"),
		Currency:   strings.ToLower(currency),
		SuccessURL: site + "/success",
		CancelURL:  site + "/",
	}
}

func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe secret key is required")
	}
	if c.APIURL == "" {
		return fmt.Errorf("stripe api url is required")
	}
	if c.Currency == "" {
		return fmt.Errorf("stripe currency is required")
	}
	return nil
}

// GetSessionsURL returns checkout session endpoint
func (c *Config) GetSessionsURL() string {
	return c.APIURL + "/v1/checkout/sessions"
}
