package attributes

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/trgovina/internal/model"
)

// staticParser serves a fixed attribute list and per-attribute values,
// ignoring the payload.
type staticParser struct {
	attrs  []model.Attribute
	values map[int64][]string
}

func (p *staticParser) ParseAttributes(context.Context, string) ([]model.Attribute, error) {
	return p.attrs, nil
}

func (p *staticParser) ParseValues(_ string, id int64) []string {
	return p.values[id]
}

type valueMap map[int64]*model.AttributeValue

func (m valueMap) AttributeValue(_ context.Context, id int64) (*model.AttributeValue, error) {
	return m[id], nil
}

// suffixLocalizer appends the language id to every name.
type suffixLocalizer struct{}

func (suffixLocalizer) Localize(_ context.Context, _ model.LocaleKey, languageID int64, fallback string) (string, error) {
	if languageID == 0 {
		return fallback, nil
	}
	return fallback + "@" + strconv.FormatInt(languageID, 10), nil
}

type fixedText string

func (t fixedText) FormatText(string) string { return string(t) }

func newFormatter(attrs []model.Attribute, values map[int64][]string, options valueMap) *Formatter {
	return &Formatter{
		Parser: &staticParser{attrs: attrs, values: values},
		Values: options,
		Text:   fixedText("<b>Hi</b>"),
	}
}

func TestFormatTextboxEscapesSegment(t *testing.T) {
	f := newFormatter(
		[]model.Attribute{{ID: 1, Name: "Notes & <extras>", ControlType: model.ControlTextbox}},
		map[int64][]string{1: {"Gift wrap"}},
		nil,
	)

	got, err := f.Format(context.Background(), "", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "Notes &amp; &lt;extras&gt;: Gift wrap", got)

	got, err = f.Format(context.Background(), "", Options{Separator: ", "})
	require.NoError(t, err)
	assert.Equal(t, "Notes & <extras>: Gift wrap", got)
}

func TestFormatMultilineKeepsRichText(t *testing.T) {
	f := newFormatter(
		[]model.Attribute{{ID: 1, Name: "Note <1>", ControlType: model.ControlMultilineTextbox}},
		map[int64][]string{1: {"Hi"}},
		nil,
	)

	got, err := f.Format(context.Background(), "", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "Note &lt;1&gt;: <b>Hi</b>", got)
}

func TestFormatSkipsFileUploadAndUnresolvableValues(t *testing.T) {
	f := newFormatter(
		[]model.Attribute{
			{ID: 1, Name: "Attachment", ControlType: model.ControlFileUpload},
			{ID: 2, Name: "Size", ControlType: model.ControlDropdown},
			{ID: 3, Name: "Color", ControlType: model.ControlRadioList},
			{ID: 4, Name: "Floor", ControlType: model.ControlTextbox},
		},
		map[int64][]string{
			1: {"guid"},
			2: {"not-a-number"},
			3: {"99"},
			4: {"3"},
		},
		valueMap{},
	)

	got, err := f.Format(context.Background(), "", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "Floor: 3", got, "no leading separator for skipped segments")
}

func TestFormatPreservesValueOrder(t *testing.T) {
	f := newFormatter(
		[]model.Attribute{
			{ID: 1, Name: "Color", ControlType: model.ControlCheckboxes},
			{ID: 2, Name: "Date", ControlType: model.ControlDatepicker},
		},
		map[int64][]string{1: {"1", "2"}, 2: {"2024-03-01"}},
		valueMap{
			1: {ID: 1, AttributeID: 1, Name: "Red"},
			2: {ID: 2, AttributeID: 1, Name: "Blue"},
		},
	)

	got, err := f.Format(context.Background(), "", Options{Separator: " | ", HTMLEncode: true})
	require.NoError(t, err)
	assert.Equal(t, "Color: Red | Color: Blue | Date: 2024-03-01", got)
}

func TestFormatEmpty(t *testing.T) {
	f := newFormatter(nil, nil, nil)
	got, err := f.Format(context.Background(), "", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFormatLocalizesNames(t *testing.T) {
	f := newFormatter(
		[]model.Attribute{{ID: 1, Name: "Color", ControlType: model.ControlDropdown}},
		map[int64][]string{1: {"7"}},
		valueMap{7: {ID: 7, AttributeID: 1, Name: "Red"}},
	)
	f.Localizer = suffixLocalizer{}
	f.Language = ContextLanguage(2)

	got, err := f.Format(context.Background(), "", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "Color@2: Red@2", got)

	got, err = f.Format(WithLanguage(context.Background(), 5), "", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "Color@5: Red@5", got)
}

type failingValues struct{}

func (failingValues) AttributeValue(context.Context, int64) (*model.AttributeValue, error) {
	return nil, errors.New("store unavailable")
}

func TestFormatPropagatesCollaboratorErrors(t *testing.T) {
	f := newFormatter(
		[]model.Attribute{{ID: 1, Name: "Color", ControlType: model.ControlDropdown}},
		map[int64][]string{1: {"7"}},
		nil,
	)
	f.Values = failingValues{}

	_, err := f.Format(context.Background(), "", DefaultOptions())
	assert.ErrorContains(t, err, "store unavailable")

	f.Language = func(context.Context) (int64, error) { return 0, errors.New("no language") }
	_, err = f.Format(context.Background(), "", DefaultOptions())
	assert.ErrorContains(t, err, "no language")
}
