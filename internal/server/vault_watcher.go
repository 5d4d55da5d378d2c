package server

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"jobmatch/internal/config"
	"jobmatch/internal/errors"
)

// VaultClientInterface defines the interface for Vault operations
type VaultClientInterface interface {
	GetSecretV2(path string) (*config.VaultSecret, error)
	GetStringSliceSecret(path, key string) ([]string, error)
}

// KeyReloadCallback is called when a rotated API key set is available from Vault
type KeyReloadCallback func(keys []string, err error)

// APIKeyWatcher polls a Vault KVv2 secret for rotated server API keys and
// triggers a reload when the secret version changes.
type APIKeyWatcher struct {
	mu sync.RWMutex

	client         VaultClientInterface
	secretPath     string
	pollInterval   time.Duration
	reloadCallback KeyReloadCallback
	logger         *errors.Logger

	stopChan    chan struct{}
	running     bool
	lastVersion int64
}

// NewAPIKeyWatcher creates a new APIKeyWatcher
func NewAPIKeyWatcher(client VaultClientInterface, secretPath string, pollInterval time.Duration, reloadCallback KeyReloadCallback, logger *errors.Logger) *APIKeyWatcher {
	return &APIKeyWatcher{
		client:         client,
		secretPath:     secretPath,
		pollInterval:   pollInterval,
		reloadCallback: reloadCallback,
		logger:         logger,
		stopChan:       make(chan struct{}),
	}
}

// Start begins polling Vault for secret changes
func (kw *APIKeyWatcher) Start() error {
	kw.mu.Lock()
	defer kw.mu.Unlock()
	if kw.running {
		return fmt.Errorf("api key watcher is already running")
	}
	kw.running = true
	go kw.pollLoop()
	if kw.logger != nil {
		kw.logger.Info("API key watcher started", "secret_path", kw.secretPath, "poll_interval", kw.pollInterval)
	}
	return nil
}

// Stop stops the watcher
func (kw *APIKeyWatcher) Stop() error {
	kw.mu.Lock()
	defer kw.mu.Unlock()
	if !kw.running {
		return nil
	}
	close(kw.stopChan)
	kw.running = false
	if kw.logger != nil {
		kw.logger.Info("API key watcher stopped")
	}
	return nil
}

// pollLoop polls Vault for secret changes
func (kw *APIKeyWatcher) pollLoop() {
	ticker := time.NewTicker(kw.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			changed, err := kw.checkForUpdates()
			if err != nil {
				if kw.logger != nil {
					kw.logger.LogError(err, "Failed to check Vault for rotated API keys")
				}
				continue
			}
			if !changed {
				continue
			}
			if kw.logger != nil {
				kw.logger.Info("Vault secret changed, fetching rotated API keys")
			}
			keys, err := kw.fetchKeysFromVault()
			if err != nil {
				if kw.logger != nil {
					kw.logger.LogError(err, "Failed to fetch rotated API keys from Vault")
				}
				kw.reloadCallback(nil, err)
			} else {
				if kw.logger != nil {
					kw.logger.Info("Rotated API keys fetched from Vault, triggering reload",
						"key_count", len(keys))
				}
				kw.reloadCallback(keys, nil)
			}
		case <-kw.stopChan:
			return
		}
	}
}

// checkForUpdates checks if the Vault secret version has changed
func (kw *APIKeyWatcher) checkForUpdates() (bool, error) {
	secret, err := kw.client.GetSecretV2(kw.secretPath)
	if err != nil {
		return false, fmt.Errorf("failed to read secret: %w", err)
	}
	if secret.Version > kw.lastVersion {
		kw.lastVersion = secret.Version
		return true, nil
	}
	return false, nil
}

// fetchKeysFromVault fetches the current API key set from Vault
func (kw *APIKeyWatcher) fetchKeysFromVault() ([]string, error) {
	keys, err := kw.client.GetStringSliceSecret(kw.secretPath, "keys")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch api keys from vault: %w", err)
	}

	cleaned := make([]string, 0, len(keys))
	for _, key := range keys {
		if k := strings.TrimSpace(key); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	return cleaned, nil
}

// Status returns the current status of the watcher for health reporting
func (kw *APIKeyWatcher) Status() map[string]any {
	kw.mu.RLock()
	defer kw.mu.RUnlock()
	return map[string]any{
		"running":       kw.running,
		"poll_interval": kw.pollInterval.String(),
		"secret_path":   kw.secretPath,
		"last_version":  kw.lastVersion,
	}
}
