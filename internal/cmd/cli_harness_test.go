package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/99designs/keyring"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/salmonumbrella/icdtree/internal/config"
	"github.com/salmonumbrella/icdtree/internal/output"
	"github.com/salmonumbrella/icdtree/internal/secrets"
)

type cliOptions struct {
	env        map[string]string
	stdin      string
	secrets    secrets.Store
	configPath string
	// unlock replaces the keychain unlock step; nil succeeds.
	unlock func() error
}

type cliResult struct {
	out string
	err string
	run error
}

// runCLI executes the root command in-process with isolated globals, an
// empty config file and an in-memory keyring.
func runCLI(t *testing.T, opts cliOptions, args ...string) cliResult {
	t.Helper()
	restore := snapshotCLIState()
	t.Cleanup(restore)

	// Each run starts from defaults, not from what an earlier run parsed.
	resetFlags(rootCmd)
	outputType = ""
	queryExpr = ""
	activeConfig = nil

	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	in := strings.NewReader(opts.stdin)

	rootCmd.SetOut(out)
	rootCmd.SetErr(errBuf)
	rootCmd.SetIn(in)
	rootCmd.SetContext(withIO(context.Background(), in, out, errBuf))

	envGet = func(key string) string { return opts.env[key] }
	loadEnvFunc = func() {}

	store := opts.secrets
	if store == nil {
		store = newMemorySecrets()
	}
	openSecretsStore = func(*config.Config) (secrets.Store, error) { return store, nil }
	ensureKeychainAccess = func() error { return nil }
	if opts.unlock != nil {
		ensureKeychainAccess = opts.unlock
	}

	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath = filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(cfgPath, []byte(""), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}

	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := rootCmd.Execute()
	if err != nil {
		printCommandError(rootCmd.Context(), err)
	}
	return cliResult{out: out.String(), err: errBuf.String(), run: err}
}

func newMemorySecrets() secrets.Store {
	return secrets.NewKeyringStore(keyring.NewArrayKeyring(nil))
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// withTestContext installs a context with buffered IO and the given output
// format on the root command.
func withTestContext(t *testing.T, format output.Format) (*bytes.Buffer, *bytes.Buffer, func()) {
	t.Helper()
	in := &bytes.Buffer{}
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}

	ctx := withIO(context.Background(), in, out, errBuf)
	ctx = output.WithFormat(ctx, format)
	ctx = output.WithQuiet(ctx, true)
	prevCtx := rootCmd.Context()
	rootCmd.SetContext(ctx)

	prevType := outputType
	prevFmt := outputFmt
	outputType = format
	outputFmt = string(format)

	return out, errBuf, func() {
		outputType = prevType
		outputFmt = prevFmt
		rootCmd.SetContext(prevCtx)
	}
}

func snapshotCLIState() func() {
	prevOutputFmt := outputFmt
	prevOutputType := outputType
	prevDebug := debugFlag
	prevConfig := configFile
	prevQueryExpr := queryExpr
	prevQueryFile := queryFile
	prevErrorFmt := errorFmt
	prevQuiet := quietFlag
	prevLogger := logger
	prevSlog := slog.Default()
	prevActive := activeConfig

	prevEnvGet := envGet
	prevLoadEnv := loadEnvFunc
	prevSecrets := openSecretsStore
	prevKeychain := ensureKeychainAccess
	prevSource := openSourceFunc
	prevSink := openSinkFunc

	prevOut := rootCmd.OutOrStdout()
	prevErr := rootCmd.ErrOrStderr()
	prevIn := rootCmd.InOrStdin()
	prevCtx := rootCmd.Context()

	return func() {
		outputFmt = prevOutputFmt
		outputType = prevOutputType
		debugFlag = prevDebug
		configFile = prevConfig
		queryExpr = prevQueryExpr
		queryFile = prevQueryFile
		errorFmt = prevErrorFmt
		quietFlag = prevQuiet
		logger = prevLogger
		slog.SetDefault(prevSlog)
		activeConfig = prevActive

		envGet = prevEnvGet
		loadEnvFunc = prevLoadEnv
		openSecretsStore = prevSecrets
		ensureKeychainAccess = prevKeychain
		openSourceFunc = prevSource
		openSinkFunc = prevSink

		rootCmd.SetOut(prevOut)
		rootCmd.SetErr(prevErr)
		rootCmd.SetIn(prevIn)
		rootCmd.SetContext(prevCtx)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	}
}

// resetFlags restores every flag of cmd and its subcommands to its default,
// since command flag variables outlive a single Execute.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestCLIHarnessHelp(t *testing.T) {
	res := runCLI(t, cliOptions{}, "--help")
	if res.run != nil {
		t.Fatalf("execute: %v", res.run)
	}
	for _, name := range []string{"build", "show", "convert", "lookup", "config", "auth"} {
		if !strings.Contains(res.out, name) {
			t.Errorf("help output missing %q command", name)
		}
	}
}

func TestCLIHarnessResetsFlags(t *testing.T) {
	dir := t.TempDir()
	res := runCLI(t, cliOptions{}, "build", "--sample", "--source", "none", "--format", "json", "-d", dir)
	if res.run != nil {
		t.Fatalf("execute: %v", res.run)
	}
	resetFlags(rootCmd)
	if buildFlags.codes.sample || buildFlags.docs.format != "" || buildFlags.codes.source.kind != "" {
		t.Errorf("flags not reset: %+v", buildFlags)
	}
}

func TestCLIHarnessRunsStartFromDefaults(t *testing.T) {
	res := runCLI(t, cliOptions{}, "show", "--sample", "--source", "none", "--stats", "-o", "json")
	if res.run != nil {
		t.Fatalf("first run: %v", res.run)
	}
	if !strings.HasPrefix(strings.TrimSpace(res.out), "{") {
		t.Fatalf("expected JSON stats, got %q", res.out)
	}

	res = runCLI(t, cliOptions{}, "show", "--sample", "--source", "none", "--depth", "1")
	if res.run != nil {
		t.Fatalf("second run: %v", res.run)
	}
	if strings.HasPrefix(strings.TrimSpace(res.out), "{") {
		t.Errorf("second run inherited -o json: %q", res.out)
	}
	if !strings.HasPrefix(res.out, "- A00") {
		t.Errorf("unexpected text tree %q", res.out)
	}
}
