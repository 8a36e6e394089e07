package secrets

import (
	"errors"
	"strings"
	"testing"

	"github.com/99designs/keyring"
)

func TestKeyringStore_RoundTrip(t *testing.T) {
	store := NewKeyringStore(keyring.NewArrayKeyring(nil))

	if _, err := store.Get("postgres_dsn"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty store error = %v, want ErrNotFound", err)
	}
	if err := store.Set("postgres_dsn", "  "); err == nil {
		t.Fatal("Set() with blank value should fail")
	}
	if err := store.Set("postgres_dsn", "postgres://codes@db/icd"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set("s3_secret_key", "secret"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get("postgres_dsn")
	if err != nil || got != "postgres://codes@db/icd" {
		t.Errorf("Get() = %q, %v", got, err)
	}

	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if strings.Join(keys, ",") != "postgres_dsn,s3_secret_key" {
		t.Errorf("Keys() = %v", keys)
	}

	if err := store.Delete("postgres_dsn"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get("postgres_dsn"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete() error = %v", err)
	}
}

func TestResolveKeyringBackendInfo(t *testing.T) {
	t.Setenv("ICDTREE_KEYRING_BACKEND", "")
	if got := ResolveKeyringBackendInfo(""); got.Value != "auto" || got.Source != "default" {
		t.Errorf("default = %+v", got)
	}
	if got := ResolveKeyringBackendInfo("Keychain"); got.Value != "keychain" || got.Source != "config" {
		t.Errorf("config = %+v", got)
	}

	t.Setenv("ICDTREE_KEYRING_BACKEND", "FILE")
	if got := ResolveKeyringBackendInfo("keychain"); got.Value != "file" || got.Source != "env" {
		t.Errorf("env = %+v", got)
	}
}

func TestKeyringConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := keyringConfig("linux", KeyringBackendInfo{Value: "auto"}, "")
	if err != nil {
		t.Fatalf("keyringConfig() error = %v", err)
	}
	if len(cfg.AllowedBackends) != 1 || cfg.AllowedBackends[0] != keyring.FileBackend {
		t.Errorf("linux without bus should use file backend, got %v", cfg.AllowedBackends)
	}
	if !strings.HasSuffix(cfg.FileDir, "keyring") {
		t.Errorf("FileDir = %q", cfg.FileDir)
	}

	cfg, err = keyringConfig("darwin", KeyringBackendInfo{Value: "keychain"}, "")
	if err != nil {
		t.Fatalf("keyringConfig() error = %v", err)
	}
	if len(cfg.AllowedBackends) != 1 || cfg.AllowedBackends[0] != keyring.KeychainBackend {
		t.Errorf("keychain backend = %v", cfg.AllowedBackends)
	}

	if _, err := keyringConfig("linux", KeyringBackendInfo{Value: "vault"}, ""); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestFilePassword_FromEnv(t *testing.T) {
	t.Setenv("ICDTREE_KEYRING_PASSWORD", "hunter2")
	pw, err := filePassword("ignored")
	if err != nil || pw != "hunter2" {
		t.Errorf("filePassword() = %q, %v", pw, err)
	}
}
