// Package attributes renders address and customer attribute payloads as
// display text.
package attributes

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/erazemk/trgovina/internal/htmltext"
	"github.com/erazemk/trgovina/internal/model"
)

// Parser reads attribute payloads.
type Parser interface {
	// ParseAttributes returns the definitions of the attributes present in
	// the payload, in payload order.
	ParseAttributes(ctx context.Context, payload string) ([]model.Attribute, error)
	// ParseValues returns the raw values of one attribute, in payload order.
	ParseValues(payload string, attributeID int64) []string
}

// ValueLookup resolves predefined attribute values. A missing value is
// reported as nil without an error.
type ValueLookup interface {
	AttributeValue(ctx context.Context, id int64) (*model.AttributeValue, error)
}

// Localizer translates a record field, returning fallback when no
// translation exists.
type Localizer interface {
	Localize(ctx context.Context, key model.LocaleKey, languageID int64, fallback string) (string, error)
}

// TextFormatter renders multiline input as safe HTML.
type TextFormatter interface {
	FormatText(text string) string
}

// LanguageFunc returns the current display language.
type LanguageFunc func(ctx context.Context) (int64, error)

// Options controls how a payload is rendered.
type Options struct {
	Separator  string
	HTMLEncode bool
}

// DefaultOptions returns the options used for HTML receipts and emails.
func DefaultOptions() Options {
	return Options{Separator: "<br />", HTMLEncode: true}
}

// Formatter renders attribute payloads.
type Formatter struct {
	Parser    Parser
	Values    ValueLookup
	Localizer Localizer
	Text      TextFormatter
	Language  LanguageFunc
}

// Format renders every (attribute, value) pair of payload as "name: value",
// joined by opts.Separator. Pairs that render to nothing, such as file uploads
// or unknown predefined values, are left out together with their separator.
func (f *Formatter) Format(ctx context.Context, payload string, opts Options) (string, error) {
	var languageID int64
	if f.Language != nil {
		id, err := f.Language(ctx)
		if err != nil {
			return "", fmt.Errorf("resolving display language: %w", err)
		}
		languageID = id
	}

	attrs, err := f.Parser.ParseAttributes(ctx, payload)
	if err != nil {
		return "", fmt.Errorf("parsing attributes: %w", err)
	}

	var segments []string
	for i := range attrs {
		a := &attrs[i]
		for _, raw := range f.Parser.ParseValues(payload, a.ID) {
			segment, err := f.segment(ctx, a, raw, languageID, opts.HTMLEncode)
			if err != nil {
				return "", err
			}
			if segment != "" {
				segments = append(segments, segment)
			}
		}
	}

	return strings.Join(segments, opts.Separator), nil
}

func (f *Formatter) segment(ctx context.Context, a *model.Attribute, raw string, languageID int64, encode bool) (string, error) {
	if !a.HasPredefinedValues() {
		if a.ControlType == model.ControlFileUpload {
			return "", nil
		}

		name, err := f.localize(ctx, a.LocaleKey(model.FieldName), languageID, a.Name)
		if err != nil {
			return "", err
		}

		if a.ControlType == model.ControlMultilineTextbox {
			// The rich text is already HTML; only the label is escaped.
			if encode {
				name = html.EscapeString(name)
			}
			return name + ": " + f.text().FormatText(raw), nil
		}
		return escapeIf(encode, name+": "+raw), nil
	}

	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return "", nil
	}
	v, err := f.Values.AttributeValue(ctx, id)
	if err != nil {
		return "", fmt.Errorf("looking up attribute value %d: %w", id, err)
	}
	if v == nil {
		return "", nil
	}

	name, err := f.localize(ctx, a.LocaleKey(model.FieldName), languageID, a.Name)
	if err != nil {
		return "", err
	}
	valueName, err := f.localize(ctx, v.LocaleKey(model.FieldName), languageID, v.Name)
	if err != nil {
		return "", err
	}
	return escapeIf(encode, name+": "+valueName), nil
}

func (f *Formatter) localize(ctx context.Context, key model.LocaleKey, languageID int64, fallback string) (string, error) {
	if f.Localizer == nil {
		return fallback, nil
	}
	s, err := f.Localizer.Localize(ctx, key, languageID, fallback)
	if err != nil {
		return "", fmt.Errorf("localizing %s %d: %w", key.Group, key.EntityID, err)
	}
	return s, nil
}

func (f *Formatter) text() TextFormatter {
	if f.Text == nil {
		return htmltext.New(false)
	}
	return f.Text
}

func escapeIf(encode bool, s string) string {
	if encode {
		return html.EscapeString(s)
	}
	return s
}
