package core

import "fmt"

// Credentials holds the API key pair for authenticated endpoints.
// The secret is only ever used as an HMAC key and must never be logged;
// String masks both values for that reason.
type Credentials struct {
	// APIKey is the public key identifier sent in the X-MBX-APIKEY header.
	APIKey string `json:"api_key"`
	// SecretKey is the private key used to sign request bodies.
	SecretKey string `json:"secret_key"`
}

// HasSecret reports whether a signing key is available.
func (c *Credentials) HasSecret() bool {
	return c != nil && c.SecretKey != ""
}

// String returns a masked representation safe for logging.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{APIKey:%s}", MaskKey(c.APIKey))
}

// MaskKey hides the middle of a key, keeping at most the first and last
// four characters visible.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
