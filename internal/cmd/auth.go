package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/salmonumbrella/icdtree/internal/config"
	"github.com/salmonumbrella/icdtree/internal/output"
	"github.com/salmonumbrella/icdtree/internal/secrets"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage credentials in the system keyring",
	Long: `Manage credentials stored in your system keychain (macOS Keychain,
Windows Credential Manager, Secret Service, or an encrypted file on Linux).

Stored keys: ` + strings.Join(config.SecretKeys, ", ") + `

Examples:
  icdtree auth set postgres_dsn
  echo "$SECRET" | icdtree auth set s3_secret_key
  icdtree auth status
  icdtree auth remove postgres_dsn`,
}

var authSetCmd = &cobra.Command{
	Use:   "set <key>",
	Short: "Store a credential",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthSet,
}

var authRemoveCmd = &cobra.Command{
	Use:   "remove <key>",
	Short: "Remove a stored credential",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthRemove,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which credentials are stored",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authRemoveCmd)
	authCmd.AddCommand(authStatusCmd)

	rootCmd.AddCommand(authCmd)
}

func secretKeyArg(arg string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(arg))
	if !config.IsSecret(key) {
		return "", usageError{msg: fmt.Sprintf("unknown credential %q (expected %s)", arg, strings.Join(config.SecretKeys, "|"))}
	}
	return key, nil
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	key, err := secretKeyArg(args[0])
	if err != nil {
		return err
	}

	value, err := promptSecret(cmd.Context(), fmt.Sprintf("Enter %s: ", key))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if value == "" {
		return usageError{msg: key + " is required"}
	}

	if secrets.ResolveKeyringBackendInfo(activeConfig.KeyringBackend).Value != "file" {
		if err := ensureKeychainAccess(); err != nil {
			return fmt.Errorf("failed to unlock keychain: %w", err)
		}
	}

	store, err := openSecretsStore(activeConfig)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}

	if structuredOutputRequested() {
		return printStructured(map[string]string{"status": "stored", "key": key})
	}
	fmt.Fprintf(stdoutFromContext(cmd.Context()), "Stored %s in the keyring.\n", key)
	return nil
}

func runAuthRemove(cmd *cobra.Command, args []string) error {
	key, err := secretKeyArg(args[0])
	if err != nil {
		return err
	}

	store, err := openSecretsStore(activeConfig)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	if err := store.Delete(key); err != nil && !isSecretNotFound(err) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}

	if structuredOutputRequested() {
		return printStructured(map[string]string{"status": "removed", "key": key})
	}
	fmt.Fprintf(stdoutFromContext(cmd.Context()), "Removed %s.\n", key)
	return nil
}

// credentialStatus describes one credential key.
type credentialStatus struct {
	Key     string `json:"key" yaml:"key"`
	Stored  bool   `json:"stored" yaml:"stored"`
	Preview string `json:"preview,omitempty" yaml:"preview,omitempty"`
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	store, err := openSecretsStore(activeConfig)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}

	statuses := make([]credentialStatus, 0, len(config.SecretKeys))
	for _, key := range config.SecretKeys {
		st := credentialStatus{Key: key}
		value, err := store.Get(key)
		switch {
		case err == nil:
			st.Stored = true
			st.Preview = maskToken(value)
		case !isSecretNotFound(err):
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		statuses = append(statuses, st)
	}

	if GetOutputFormat() != output.FormatText {
		return printStructured(statuses)
	}
	out := stdoutFromContext(cmd.Context())
	for _, st := range statuses {
		state := "not stored"
		if st.Stored {
			state = "stored (" + st.Preview + ")"
		}
		fmt.Fprintf(out, "%s: %s\n", st.Key, state)
	}
	return nil
}

// promptSecret prompts for a secret input (no echo)
func promptSecret(ctx context.Context, prompt string) (string, error) {
	in := stdinFromContext(ctx)
	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		fmt.Fprint(stderrFromContext(ctx), prompt)
		password, err := term.ReadPassword(int(file.Fd()))
		fmt.Fprintln(stderrFromContext(ctx))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(password)), nil
	}

	// Piped input: read one line without prompting.
	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// maskToken masks a secret for display, showing only first and last 4 characters
func maskToken(token string) string {
	if len(token) <= 12 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
