//go:build darwin

package crypto

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// keychain keeps the key in the macOS login keychain
type keychain struct {
	service, user string
}

func newPlatformKeyring() Keyring {
	return &keychain{service: ServiceName, user: KeyName}
}

func (k *keychain) GetKey() (string, error) {
	key, err := keyring.Get(k.service, k.user)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return "", fmt.Errorf("%w in keychain", ErrKeyNotFound)
	case err != nil:
		return "", fmt.Errorf("failed to read keychain: %w", err)
	case key == "":
		return "", fmt.Errorf("%w: keychain entry is blank", ErrKeyNotFound)
	}
	return key, nil
}

func (k *keychain) SetKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := keyring.Set(k.service, k.user, key); err != nil {
		return fmt.Errorf("failed to store key in keychain: %w", err)
	}
	return nil
}
