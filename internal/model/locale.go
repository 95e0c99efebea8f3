package model

// LocalizedField names a translatable field of a record.
type LocalizedField string

// Localized fields.
const (
	FieldName LocalizedField = "Name"
)

// LocaleKey addresses one translatable field of one record.
type LocaleKey struct {
	Group    string
	EntityID int64
	Field    LocalizedField
}
