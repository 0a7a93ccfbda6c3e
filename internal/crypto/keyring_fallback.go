//go:build !darwin

package crypto

import (
	"fmt"
	"os"
)

// envKeyring reads the key from SWIFTBILL_DB_KEY. It cannot store anything.
type envKeyring struct{}

func newPlatformKeyring() Keyring {
	return envKeyring{}
}

func (envKeyring) GetKey() (string, error) {
	key := os.Getenv(EnvKey)
	if key == "" {
		return "", fmt.Errorf("%w: %s is not set", ErrKeyNotFound, EnvKey)
	}
	return key, nil
}

func (envKeyring) SetKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return fmt.Errorf("no system keyring on this platform: set %s in the environment or in a .env file to the password you chose", EnvKey)
}
