package repository

import (
	"context"
	"errors"

	"github.com/andy/swiftbill/internal/domain"
)

// Storage keys. Each key holds one whole-document JSON snapshot.
const (
	KeyUser       = "swiftbill_user"
	KeyClients    = "swiftbill_clients"
	KeyItems      = "swiftbill_items"
	KeyInvoices   = "swiftbill_invoices"
	KeyTheme      = "swiftbill_theme"
	KeyInvoiceSeq = "swiftbill_invoice_seq"
)

// AllKeys lists every key the application writes
var AllKeys = []string{KeyUser, KeyClients, KeyItems, KeyInvoices, KeyTheme, KeyInvoiceSeq}

var (
	// ErrInvalidData is returned when a stored snapshot cannot be decoded
	ErrInvalidData = errors.New("stored data is malformed")
	// ErrInvalidPatch is returned when an update patch is not a JSON object
	ErrInvalidPatch = errors.New("patch must encode to a JSON object")
)

// KV is the raw key/value backend the stores persist through
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error) // ok is false when the key is absent
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Collection persists an ordered list of records under a single key
type Collection[T any] interface {
	Load(ctx context.Context) ([]T, error)
	Save(ctx context.Context, records []T) error
	Insert(ctx context.Context, record T) ([]T, error) // the new record is last
	Update(ctx context.Context, id string, patch any) ([]T, error)
	Remove(ctx context.Context, id string) ([]T, error)
	Get(ctx context.Context, id string) (T, bool, error)
}

// Singleton persists one value under a single key
type Singleton[T any] interface {
	Load(ctx context.Context) (T, bool, error)
	Save(ctx context.Context, value T) error
	Clear(ctx context.Context) error
}

// Counter hands out increasing integers that survive restarts
type Counter interface {
	// Next returns max(current, floor) + 1 and persists it
	Next(ctx context.Context, floor int) (int, error)
	Reset(ctx context.Context) error
}

// ClientRepository manages client persistence
type ClientRepository = Collection[domain.Client]

// ItemRepository manages catalog item persistence
type ItemRepository = Collection[domain.Item]

// InvoiceRepository manages invoice persistence
type InvoiceRepository = Collection[domain.Invoice]

// ProfileRepository manages the signed-in user profile
type ProfileRepository = Singleton[domain.UserProfile]

// ThemeRepository manages the theme preference
type ThemeRepository = Singleton[domain.Theme]

// Repositories bundles every store built over one KV backend
type Repositories struct {
	KV       KV
	Clients  ClientRepository
	Items    ItemRepository
	Invoices InvoiceRepository
	Profile  ProfileRepository
	Theme    ThemeRepository
	Sequence Counter
}

// New wires all stores to kv
func New(kv KV) *Repositories {
	return &Repositories{
		KV:       kv,
		Clients:  NewStore[domain.Client](kv, KeyClients),
		Items:    NewStore[domain.Item](kv, KeyItems),
		Invoices: NewStore[domain.Invoice](kv, KeyInvoices),
		Profile:  NewDocument[domain.UserProfile](kv, KeyUser),
		Theme:    NewDocument[domain.Theme](kv, KeyTheme),
		Sequence: NewSequence(kv, KeyInvoiceSeq),
	}
}

// Clear deletes every application key
func (r *Repositories) Clear(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		keys = AllKeys
	}
	for _, key := range keys {
		if err := r.KV.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
