package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	// APIKeyEnvVar names the environment variable holding the testnet
	// API key. The key identifies the caller and travels as a header.
	APIKeyEnvVar = "TESTNET_BINANCE_VISION_API_KEY"
	// SecretKeyEnvVar names the environment variable holding the testnet
	// secret key. The secret only ever feeds the request signer and must
	// never appear on the wire or in logs.
	SecretKeyEnvVar = "TESTNET_BINANCE_VISION_SECRET_KEY"
)

// Credentials carries the API key pair for signed requests. Instances are
// immutable after construction.
type Credentials struct {
	APIKey    string
	SecretKey string
}

// String implements fmt.Stringer and redacts the secret so accidental
// formatting of a Credentials value cannot leak it.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{APIKey:%s, SecretKey:<redacted>}", c.APIKey)
}

// CredentialsFromEnv reads the API key pair from the process environment.
func CredentialsFromEnv() (Credentials, error) {
	apiKey := strings.TrimSpace(os.Getenv(APIKeyEnvVar))
	if apiKey == "" {
		return Credentials{}, fmt.Errorf("%s is not set", APIKeyEnvVar)
	}
	secretKey := strings.TrimSpace(os.Getenv(SecretKeyEnvVar))
	if secretKey == "" {
		return Credentials{}, fmt.Errorf("%s is not set", SecretKeyEnvVar)
	}
	return Credentials{APIKey: apiKey, SecretKey: secretKey}, nil
}
