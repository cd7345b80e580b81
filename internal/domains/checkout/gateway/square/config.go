package square

import (
	"fmt"
	"strings"
)

// =====================================================
// SQUARE CONFIGURATION
// =====================================================

type Config struct {
	AccessToken string
	LocationID  string
	APIURL      string // https://connect.squareup.com (sandbox: https://connect.squareupsandbox.com)
	APIVersion  string // Square-Version header
	Currency    string // USD
	RedirectURL string // <site>/success
}

func NewConfig(accessToken, locationID, apiURL, apiVersion, currency, siteURL string) *Config {
	return &Config{
		AccessToken: accessToken,
		LocationID:  locationID,
		APIURL:      strings.TrimRight(apiURL, "/"),
		APIVersion:  apiVersion,
		Currency:    strings.ToUpper(currency),
		RedirectURL: strings.TrimRight(siteURL, "/") + "/success",
	}
}

func (c *Config) Validate() error {
	if c.AccessToken == "" {
		return fmt.Errorf("square access token is required")
	}
	if c.LocationID == "" {
		return fmt.Errorf("square location id is required")
	}
	if c.APIURL == "" {
		return fmt.Errorf("square api url is required")
	}
	return nil
}

// GetPaymentLinksURL returns payment link endpoint
func (c *Config) GetPaymentLinksURL() string {
	return c.APIURL + "/v2/online-checkout/payment-links"
}
