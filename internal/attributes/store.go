package attributes

import (
	"context"
	"database/sql"

	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/store"
)

// Store serves attribute definitions, values and translations of one kind
// from the database.
type Store struct {
	DB   *sql.DB
	Kind model.AttributeKind
}

// Attribute implements DefinitionLookup.
func (s *Store) Attribute(ctx context.Context, id int64) (*model.Attribute, error) {
	return store.GetAttribute(ctx, s.DB, s.Kind, id)
}

// AttributeValue implements ValueLookup.
func (s *Store) AttributeValue(ctx context.Context, id int64) (*model.AttributeValue, error) {
	return store.GetAttributeValue(ctx, s.DB, s.Kind, id)
}

// Localize implements Localizer.
func (s *Store) Localize(ctx context.Context, key model.LocaleKey, languageID int64, fallback string) (string, error) {
	return store.GetLocalized(ctx, s.DB, key, languageID, fallback)
}

// NewStoreFormatter returns a Formatter for XML payloads of the given kind
// backed by the database.
func NewStoreFormatter(db *sql.DB, kind model.AttributeKind, text TextFormatter, language LanguageFunc) *Formatter {
	s := &Store{DB: db, Kind: kind}
	return &Formatter{
		Parser:    &XMLParser{Kind: kind, Definitions: s},
		Values:    s,
		Localizer: s,
		Text:      text,
		Language:  language,
	}
}

type languageKey struct{}

// WithLanguage returns a context carrying the display language.
func WithLanguage(ctx context.Context, languageID int64) context.Context {
	return context.WithValue(ctx, languageKey{}, languageID)
}

// ContextLanguage returns a LanguageFunc that reads the language stored by
// WithLanguage, or defaultID when none is set.
func ContextLanguage(defaultID int64) LanguageFunc {
	return func(ctx context.Context) (int64, error) {
		if id, ok := ctx.Value(languageKey{}).(int64); ok {
			return id, nil
		}
		return defaultID, nil
	}
}
