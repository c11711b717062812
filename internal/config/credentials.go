package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"

	"github.com/commitsense/commitsense/internal/log"
)

const (
	// KeyringService is the service name under which the API key is stored.
	KeyringService = "commitsense"

	// KeyringUser is the account name for the OpenAI-compatible API key.
	KeyringUser = "openai"
)

// Environment variables consulted for the API credential, in order.
var credentialEnvVars = []string{"COMMITSENSE_API_KEY", "OPENAI_API_KEY"}

// CredentialSource describes where a resolved credential came from.
type CredentialSource string

// Credential sources.
const (
	CredentialNone    CredentialSource = ""
	CredentialEnv     CredentialSource = "environment"
	CredentialKeyring CredentialSource = "keyring"
)

// LoadEnvFile loads ~/.commitsense/.env into the process environment, if present.
// Variables already set in the environment win.
func LoadEnvFile() error {
	path, err := GlobalEnvFile()
	if err != nil {
		return err
	}
	if !FileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ResolveAPIKey returns the API credential from the environment (after
// loading the .env file) or, failing that, from the OS keyring. An empty
// key with CredentialNone means nothing is configured, which includes a
// keyring that cannot be reached.
func ResolveAPIKey() (string, CredentialSource, error) {
	if err := LoadEnvFile(); err != nil {
		return "", CredentialNone, err
	}
	for _, name := range credentialEnvVars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, CredentialEnv, nil
		}
	}

	key, err := keyring.Get(KeyringService, KeyringUser)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			log.Warn().Err(err).Msg("keyring unavailable, treating API key as not configured")
		}
		return "", CredentialNone, nil
	}
	return strings.TrimSpace(key), CredentialKeyring, nil
}

// StoreAPIKey saves the API credential in the OS keyring.
func StoreAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key is empty")
	}
	if err := keyring.Set(KeyringService, KeyringUser, key); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	return nil
}

// DeleteAPIKey removes the API credential from the OS keyring. Deleting a
// key that was never stored is not an error.
func DeleteAPIKey() error {
	if err := keyring.Delete(KeyringService, KeyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete API key: %w", err)
	}
	return nil
}
