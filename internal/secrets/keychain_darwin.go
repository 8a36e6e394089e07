//go:build darwin

package secrets

import (
	"os"
	"os/exec"
	"path/filepath"
)

func loginKeychainPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, "Library", "Keychains", "login.keychain-db")
}

// CheckKeychainLocked reports whether the login keychain is locked.
func CheckKeychainLocked() bool {
	return exec.Command("security", "show-keychain-info", loginKeychainPath()).Run() != nil
}

// UnlockKeychain prompts for the login password through security(1).
func UnlockKeychain() error {
	cmd := exec.Command("security", "unlock-keychain", loginKeychainPath())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// EnsureKeychainAccess unlocks the login keychain when it is locked.
func EnsureKeychainAccess() error {
	if !CheckKeychainLocked() {
		return nil
	}
	return UnlockKeychain()
}
