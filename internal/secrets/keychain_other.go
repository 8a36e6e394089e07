//go:build !darwin

package secrets

func loginKeychainPath() string { return "login.keychain-db" }

func CheckKeychainLocked() bool { return false }

func UnlockKeychain() error { return nil }

func EnsureKeychainAccess() error { return nil }
