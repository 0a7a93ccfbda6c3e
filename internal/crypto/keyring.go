package crypto

import "errors"

// Keyring stores the database passphrase outside the database
type Keyring interface {
	// GetKey returns an error wrapping ErrKeyNotFound before the first SetKey
	GetKey() (string, error)
	SetKey(key string) error
}

const (
	ServiceName = "swiftbill"
	KeyName     = "db-encryption-key"

	// EnvKey is read on platforms without a system keyring. A .env file in
	// the working directory may set it.
	EnvKey = "SWIFTBILL_DB_KEY"
)

var (
	ErrKeyNotFound = errors.New("database key not found")
	ErrEmptyKey    = errors.New("database key cannot be empty")
)

// NewKeyring returns the keyring for this platform
func NewKeyring() Keyring {
	return newPlatformKeyring()
}
