package cmd

import (
	"os"

	"github.com/salmonumbrella/icdtree/internal/catalog"
	"github.com/salmonumbrella/icdtree/internal/config"
	"github.com/salmonumbrella/icdtree/internal/secrets"
	"github.com/salmonumbrella/icdtree/internal/store"
)

var (
	openSecretsStore = func(cfg *config.Config) (secrets.Store, error) {
		backend := ""
		if cfg != nil {
			backend = cfg.KeyringBackend
		}
		return secrets.Open(secrets.ResolveKeyringBackendInfo(backend))
	}
	ensureKeychainAccess = secrets.EnsureKeychainAccess
	openSourceFunc       = catalog.Open
	openSinkFunc         = store.Open
	loadEnvFunc          = func() { config.LoadEnv() }
	envGet               = os.Getenv
)
