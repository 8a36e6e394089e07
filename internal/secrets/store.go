// Package secrets keeps credentials in the system keyring.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/99designs/keyring"

	"github.com/salmonumbrella/icdtree/internal/config"
)

const (
	keyringOpenTimeout = 5 * time.Second

	envBackend  = config.EnvPrefix + "KEYRING_BACKEND"
	envPassword = config.EnvPrefix + "KEYRING_PASSWORD"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("secret not found")

var errKeyringTimeout = errors.New("timed out opening keyring")

var keyringOpenFunc = keyring.Open

// Store holds named secret values.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)
}

// KeyringBackendInfo is the requested backend and where the choice came from.
type KeyringBackendInfo struct {
	Value  string
	Source string
}

// ResolveKeyringBackendInfo reads the backend from the environment, then the
// given config value, defaulting to auto.
func ResolveKeyringBackendInfo(configured string) KeyringBackendInfo {
	if v := strings.ToLower(strings.TrimSpace(os.Getenv(envBackend))); v != "" {
		return KeyringBackendInfo{Value: v, Source: "env"}
	}
	if v := strings.ToLower(strings.TrimSpace(configured)); v != "" {
		return KeyringBackendInfo{Value: v, Source: "config"}
	}
	return KeyringBackendInfo{Value: "auto", Source: "default"}
}

// KeyringStore is a Store backed by 99designs/keyring.
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore wraps an open keyring.
func NewKeyringStore(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

// OpenDefault opens the keyring selected by the environment.
func OpenDefault() (Store, error) {
	return Open(ResolveKeyringBackendInfo(""))
}

// Open opens the keyring for the given backend choice.
func Open(info KeyringBackendInfo) (Store, error) {
	cfg, err := keyringConfig(runtime.GOOS, info, os.Getenv("DBUS_SESSION_BUS_ADDRESS"))
	if err != nil {
		return nil, err
	}

	var ring keyring.Keyring
	if shouldUseKeyringTimeout(runtime.GOOS, info, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		ring, err = openKeyringWithTimeout(cfg, keyringOpenTimeout)
	} else {
		ring, err = keyringOpenFunc(cfg)
	}
	if err != nil {
		return nil, wrapKeychainError(err)
	}
	return NewKeyringStore(ring), nil
}

func keyringConfig(goos string, info KeyringBackendInfo, dbusAddr string) (keyring.Config, error) {
	cfg := keyring.Config{
		ServiceName:              config.AppName,
		KeychainTrustApplication: true,
	}

	useFile := info.Value == "file" || shouldForceFileBackend(goos, info, dbusAddr)
	switch {
	case useFile:
		dir, err := config.EnsureKeyringDir()
		if err != nil {
			return cfg, err
		}
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
		cfg.FileDir = dir
		cfg.FilePasswordFunc = filePassword
	case info.Value == "keychain":
		cfg.AllowedBackends = []keyring.BackendType{keyring.KeychainBackend}
	case info.Value == "auto" || info.Value == "":
	default:
		return cfg, fmt.Errorf("invalid keyring backend %q (expected auto|keychain|file)", info.Value)
	}
	return cfg, nil
}

func filePassword(prompt string) (string, error) {
	if pw := os.Getenv(envPassword); pw != "" {
		return pw, nil
	}
	return keyring.TerminalPrompt(prompt)
}

// shouldForceFileBackend reports whether auto selection on Linux has no
// session bus to reach a secret service.
func shouldForceFileBackend(goos string, info KeyringBackendInfo, dbusAddr string) bool {
	return goos == "linux" && info.Value == "auto" && dbusAddr == ""
}

// shouldUseKeyringTimeout guards the secret service open, which can hang
// when no agent answers on the bus.
func shouldUseKeyringTimeout(goos string, info KeyringBackendInfo, dbusAddr string) bool {
	return goos == "linux" && info.Value == "auto" && dbusAddr != ""
}

func openKeyringWithTimeout(cfg keyring.Config, timeout time.Duration) (keyring.Keyring, error) {
	type result struct {
		ring keyring.Keyring
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		ring, err := keyringOpenFunc(cfg)
		ch <- result{ring: ring, err: err}
	}()

	select {
	case res := <-ch:
		return res.ring, res.err
	case <-time.After(timeout):
		return nil, fmt.Errorf("%w after %s; set %s=file to use the encrypted file backend", errKeyringTimeout, timeout, envBackend)
	}
}

func isLockedMessage(msg string) bool {
	return strings.Contains(msg, "errSecInteractionNotAllowed") || strings.Contains(msg, "-25308")
}

func wrapKeychainError(err error) error {
	if err == nil {
		return nil
	}
	if !isLockedMessage(err.Error()) {
		return err
	}
	return fmt.Errorf("%w\n\nThe keychain is locked. Unlock it and retry:\n  security unlock-keychain %s", err, loginKeychainPath())
}

func (s *KeyringStore) Get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return "", wrapKeychainError(err)
	}
	return string(item.Data), nil
}

func (s *KeyringStore) Set(key, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("empty value for %s", key)
	}
	err := s.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: config.AppName + " " + key,
	})
	return wrapKeychainError(err)
}

func (s *KeyringStore) Delete(key string) error {
	if err := s.ring.Remove(key); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) || os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return wrapKeychainError(err)
	}
	return nil
}

func (s *KeyringStore) Keys() ([]string, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, wrapKeychainError(err)
	}
	sort.Strings(keys)
	return keys, nil
}
