package db

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// GetSetting returns the value stored under key. ok is false when no row exists.
func (db *DB) GetSetting(ctx context.Context, key string) (value string, ok bool, err error) {
	query, args, err := getSettingQuery(key)
	if err != nil {
		return "", false, fmt.Errorf("failed to build query: %w", err)
	}

	err = db.pool.QueryRow(ctx, query, args...).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, true, nil
}

// PutSetting inserts or replaces the value stored under key.
func (db *DB) PutSetting(ctx context.Context, key, value string) error {
	query, args, err := putSettingQuery(key, value)
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := db.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to put setting %s: %w", key, err)
	}
	return nil
}

// DeleteSetting removes key. Deleting a missing key is not an error.
func (db *DB) DeleteSetting(ctx context.Context, key string) error {
	query, args, err := deleteSettingQuery(key)
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := db.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

func getSettingQuery(key string) (string, []any, error) {
	return psql.Select("value").
		From(SettingsTable).
		Where(sq.Eq{"key": key}).
		ToSql()
}

func putSettingQuery(key, value string) (string, []any, error) {
	return psql.Insert(SettingsTable).
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		ToSql()
}

func deleteSettingQuery(key string) (string, []any, error) {
	return psql.Delete(SettingsTable).
		Where(sq.Eq{"key": key}).
		ToSql()
}
