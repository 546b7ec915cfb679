package credentials

import (
	"context"
)

// SettingsDB is the subset of *db.DB the Postgres store needs.
type SettingsDB interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	PutSetting(ctx context.Context, key, value string) error
}

// Postgres stores the key as a row of the settings table.
type Postgres struct {
	db SettingsDB
}

// NewPostgres creates a Postgres store.
func NewPostgres(db SettingsDB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Get(ctx context.Context) (string, bool, error) {
	val, ok, err := p.db.GetSetting(ctx, StorageKey)
	if err != nil {
		return "", false, err
	}
	return val, ok && val != "", nil
}

func (p *Postgres) Set(ctx context.Context, key string) error {
	k, err := normalizeKey(key)
	if err != nil {
		return err
	}
	return p.db.PutSetting(ctx, StorageKey, k)
}
