package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/salmonumbrella/icdtree/internal/catalog"
	"github.com/salmonumbrella/icdtree/internal/secrets"
)

func TestAuthSetStatusRemove(t *testing.T) {
	store := newMemorySecrets()
	opts := cliOptions{secrets: store, stdin: "postgres://icd:hunter2-password@db:5432/icd\n"}

	res := runCLI(t, opts, "auth", "set", "POSTGRES_DSN")
	if res.run != nil {
		t.Fatalf("auth set: %v", res.run)
	}
	if !strings.Contains(res.out, "Stored postgres_dsn") {
		t.Errorf("unexpected set output %q", res.out)
	}
	if got, err := store.Get("postgres_dsn"); err != nil || got != "postgres://icd:hunter2-password@db:5432/icd" {
		t.Fatalf("stored value = %q, %v", got, err)
	}

	res = runCLI(t, cliOptions{secrets: store}, "auth", "status", "-o", "json")
	if res.run != nil {
		t.Fatalf("auth status: %v", res.run)
	}
	var statuses []credentialStatus
	if err := json.Unmarshal([]byte(res.out), &statuses); err != nil {
		t.Fatalf("parse status: %v\n%s", err, res.out)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 credential rows, got %+v", statuses)
	}
	if !statuses[0].Stored || statuses[0].Preview != "post.../icd" {
		t.Errorf("unexpected postgres_dsn status %+v", statuses[0])
	}
	if statuses[1].Key != "s3_secret_key" || statuses[1].Stored {
		t.Errorf("unexpected s3_secret_key status %+v", statuses[1])
	}

	res = runCLI(t, cliOptions{secrets: store}, "auth", "remove", "postgres_dsn")
	if res.run != nil {
		t.Fatalf("auth remove: %v", res.run)
	}
	if _, err := store.Get("postgres_dsn"); !errors.Is(err, secrets.ErrNotFound) {
		t.Errorf("expected credential removed, got %v", err)
	}

	res = runCLI(t, cliOptions{secrets: store}, "auth", "status")
	if res.run != nil {
		t.Fatalf("auth status: %v", res.run)
	}
	if !strings.Contains(res.out, "postgres_dsn: not stored") {
		t.Errorf("unexpected status output %q", res.out)
	}
}

func TestAuthRejectsUnknownKeyAndEmptyValue(t *testing.T) {
	res := runCLI(t, cliOptions{stdin: "value\n"}, "auth", "set", "token", "--error-format", "json")
	if res.run == nil || !strings.Contains(res.err, `"validation"`) {
		t.Fatalf("expected validation error for unknown key, got %v / %q", res.run, res.err)
	}

	res = runCLI(t, cliOptions{stdin: "\n"}, "auth", "set", "s3_secret_key")
	if res.run == nil || !strings.Contains(res.run.Error(), "s3_secret_key is required") {
		t.Fatalf("expected required error, got %v", res.run)
	}
}

func TestAuthStoredSecretFeedsPostgresSource(t *testing.T) {
	store := newMemorySecrets()
	if err := store.Set("postgres_dsn", "postgres://keyring/icd"); err != nil {
		t.Fatalf("seed keyring: %v", err)
	}

	var gotDSN string
	prev := openSourceFunc
	t.Cleanup(func() { openSourceFunc = prev })
	openSourceFunc = func(ctx context.Context, s catalog.Settings) (catalog.Source, error) {
		gotDSN = s.PostgresDSN
		return catalog.NewMemorySource(map[string]string{"A00": "Cholera"}), nil
	}

	res := runCLI(t, cliOptions{secrets: store}, "lookup", "A00", "--source", "postgres", "-o", "json")
	if res.run != nil {
		t.Fatalf("lookup: %v", res.run)
	}
	if gotDSN != "postgres://keyring/icd" {
		t.Errorf("DSN = %q, want keyring value", gotDSN)
	}
	if !strings.Contains(res.out, `"Cholera"`) {
		t.Errorf("unexpected lookup output %q", res.out)
	}
}

func TestMaskToken(t *testing.T) {
	tests := map[string]string{
		"":                        "****",
		"short":                   "****",
		"abcdefghijklmnop":        "abcd...mnop",
		"postgres://u:p@h:5432/d": "post...32/d",
	}
	for in, want := range tests {
		if got := maskToken(in); got != want {
			t.Errorf("maskToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAuthSetUnlocksKeychain(t *testing.T) {
	t.Setenv("ICDTREE_KEYRING_BACKEND", "")

	calls := 0
	opts := cliOptions{
		stdin:  "secret-value\n",
		unlock: func() error { calls++; return errors.New("user canceled") },
	}
	res := runCLI(t, opts, "auth", "set", "s3_secret_key")
	if res.run == nil || !strings.Contains(res.run.Error(), "failed to unlock keychain: user canceled") {
		t.Fatalf("expected unlock error, got %v", res.run)
	}
	if calls != 1 {
		t.Errorf("unlock called %d times", calls)
	}

	cfgPath := writeTestFile(t, "config.yaml", "keyring_backend: file\n")
	calls = 0
	opts.configPath = cfgPath
	res = runCLI(t, opts, "auth", "set", "s3_secret_key")
	if res.run != nil {
		t.Fatalf("auth set with file backend: %v", res.run)
	}
	if calls != 0 {
		t.Errorf("file backend should not unlock the keychain, got %d calls", calls)
	}
}
