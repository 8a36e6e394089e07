package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/icdtree/internal/catalog"
	"github.com/salmonumbrella/icdtree/internal/config"
	"github.com/salmonumbrella/icdtree/internal/secrets"
	"github.com/salmonumbrella/icdtree/internal/store"
)

// loadConfigFromFlag loads config from --config if provided, otherwise from default path.
func loadConfigFromFlag() (*config.Config, error) {
	if strings.TrimSpace(configFile) != "" {
		return config.Load(configFile)
	}
	return config.ReadConfig()
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	if cmd.Flags().Changed(name) {
		return true
	}
	return cmd.InheritedFlags().Changed(name)
}

func formatConfigLoadError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load config: %w", err)
}

func envKey(key string) string {
	return config.EnvPrefix + strings.ToUpper(key)
}

// setting resolves one value with precedence flag > env > config > default.
// The flag only counts when it was set explicitly.
func setting(cmd *cobra.Command, flagName, flagValue, key, configValue, def string) string {
	if flagName != "" && flagChanged(cmd, flagName) {
		if v := strings.TrimSpace(flagValue); v != "" {
			return v
		}
	}
	if v := strings.TrimSpace(envGet(envKey(key))); v != "" {
		return v
	}
	if v := strings.TrimSpace(configValue); v != "" {
		return v
	}
	return def
}

// secretSetting resolves a credential with precedence env > keyring > config.
// The keyring is only opened when the environment does not supply it.
func secretSetting(key, configValue string) string {
	if v := strings.TrimSpace(envGet(envKey(key))); v != "" {
		return v
	}
	if s, err := openSecretsStore(activeConfig); err == nil {
		if v, err := s.Get(key); err == nil && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	} else {
		logger.Debug("keyring unavailable", "key", key, "error", err)
	}
	return strings.TrimSpace(configValue)
}

// sourceFlags are the data source flags shared by build, show and lookup.
type sourceFlags struct {
	kind          string
	tsvFile       string
	lookupTimeout time.Duration
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "source", "", "Code data source ("+strings.Join(catalog.Kinds(), "|")+")")
	cmd.Flags().StringVar(&f.tsvFile, "tsv-file", "", "Tab-separated code<TAB>name file for --source tsv")
	cmd.Flags().DurationVar(&f.lookupTimeout, "lookup-timeout", 0, "Timeout for each code lookup (default 10s)")
}

// resolve combines flags, environment, keyring and config into source
// settings and the per-lookup timeout.
func (f *sourceFlags) resolve(cmd *cobra.Command, cfg *config.Config) (catalog.Settings, time.Duration, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}

	timeout, err := resolveTimeout(cmd, f.lookupTimeout, cfg)
	if err != nil {
		return catalog.Settings{}, 0, err
	}

	cacheSize := catalog.DefaultCacheSize
	if cfg.CacheSize > 0 {
		cacheSize = cfg.CacheSize
	}
	if raw := strings.TrimSpace(envGet(envKey("cache_size"))); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return catalog.Settings{}, 0, fmt.Errorf("invalid %s %q", envKey("cache_size"), raw)
		}
		cacheSize = n
	}

	s := catalog.Settings{
		Kind:          strings.ToLower(setting(cmd, "source", f.kind, "source", cfg.Source, catalog.KindNLM)),
		NLMBaseURL:    setting(cmd, "", "", "nlm_base_url", cfg.NLMBaseURL, ""),
		HTTPTimeout:   timeout,
		TSVPath:       setting(cmd, "tsv-file", f.tsvFile, "tsv_path", cfg.TSVPath, ""),
		PostgresTable: setting(cmd, "", "", "postgres_table", cfg.PostgresTable, ""),
		CacheSize:     cacheSize,
	}
	if s.Kind == catalog.KindPostgres {
		s.PostgresDSN = secretSetting("postgres_dsn", cfg.PostgresDSN)
	}
	return s, timeout, nil
}

func resolveTimeout(cmd *cobra.Command, flagValue time.Duration, cfg *config.Config) (time.Duration, error) {
	if flagChanged(cmd, "lookup-timeout") {
		if flagValue <= 0 {
			return 0, usageError{msg: "--lookup-timeout must be positive"}
		}
		return flagValue, nil
	}
	if raw := strings.TrimSpace(envGet(envKey("lookup_timeout"))); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("invalid %s %q", envKey("lookup_timeout"), raw)
		}
		return d, nil
	}
	d, err := cfg.Timeout()
	if err != nil {
		return 0, err
	}
	if d > 0 {
		return d, nil
	}
	return catalog.DefaultLookupTimeout, nil
}

// resolveS3 gathers the S3 settings used when the destination is an s3:// URL.
func resolveS3(cfg *config.Config) store.S3Config {
	if cfg == nil {
		cfg = &config.Config{}
	}
	useSSL := cfg.S3UseSSL
	if raw := strings.TrimSpace(envGet(envKey("s3_use_ssl"))); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			useSSL = b
		}
	}
	return store.S3Config{
		Endpoint:  setting(nil, "", "", "s3_endpoint", cfg.S3Endpoint, ""),
		Region:    setting(nil, "", "", "s3_region", cfg.S3Region, ""),
		AccessKey: setting(nil, "", "", "s3_access_key", cfg.S3AccessKey, ""),
		SecretKey: secretSetting("s3_secret_key", cfg.S3SecretKey),
		UseSSL:    useSSL,
	}
}

// openSink opens the destination, resolving S3 credentials only for s3 URLs.
func openSink(dest string, cfg *config.Config) (store.Sink, error) {
	var s3 store.S3Config
	if _, _, ok := store.ParseS3URL(dest); ok {
		s3 = resolveS3(cfg)
	}
	return openSinkFunc(dest, s3)
}

// usageError marks invalid flag combinations.
type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

func isSecretNotFound(err error) bool {
	return errors.Is(err, secrets.ErrNotFound)
}
