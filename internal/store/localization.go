package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/trgovina/internal/model"
)

// SetLocalized stores the translation of a field for a language.
func SetLocalized(ctx context.Context, db *sql.DB, key model.LocaleKey, languageID int64, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO localized_properties (locale_key_group, entity_id, locale_key, language_id, locale_value)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (locale_key_group, entity_id, locale_key, language_id) DO UPDATE SET locale_value = excluded.locale_value`,
		key.Group, key.EntityID, string(key.Field), languageID, value,
	)
	if err != nil {
		return fmt.Errorf("setting localized value: %w", err)
	}
	return nil
}

// GetLocalized returns the translation of a field, or fallback when the
// language has no non-empty translation. Language 0 always yields fallback.
func GetLocalized(ctx context.Context, db *sql.DB, key model.LocaleKey, languageID int64, fallback string) (string, error) {
	if languageID == 0 {
		return fallback, nil
	}

	var value string
	err := db.QueryRowContext(ctx,
		`SELECT locale_value FROM localized_properties
		 WHERE locale_key_group = ? AND entity_id = ? AND locale_key = ? AND language_id = ?`,
		key.Group, key.EntityID, string(key.Field), languageID,
	).Scan(&value)
	if err == sql.ErrNoRows || (err == nil && value == "") {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("getting localized value: %w", err)
	}
	return value, nil
}
