package billing

import (
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v81"
)

// StripeConfig holds the credentials used by the adapter
type StripeConfig struct {
	// SecretKey is the Stripe secret API key (sk_test_xxx or sk_live_xxx)
	SecretKey string

	// ClientID is the Connect platform client id (ca_xxx) used in OAuth links
	ClientID string

	// APIURL overrides the API and Connect base URL, e.g. for stripe-mock
	APIURL string
}

// Validate validates the Stripe configuration
func (c *StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}
	if !strings.HasPrefix(c.SecretKey, "sk_") && !strings.HasPrefix(c.SecretKey, "rk_") {
		return fmt.Errorf("stripe: secret key must start with sk_ or rk_")
	}
	return nil
}

// backends returns per-adapter backends pointed at APIURL. nil selects the
// library defaults.
func (c *StripeConfig) backends() *stripe.Backends {
	if c.APIURL == "" {
		return nil
	}
	cfg := &stripe.BackendConfig{
		URL:               stripe.String(c.APIURL),
		MaxNetworkRetries: stripe.Int64(0),
	}
	return &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	}
}
