package htmltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTextPlain(t *testing.T) {
	f := New(false)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"plain", "Ring twice", "Ring twice"},
		{"escapes markup", "<b>bold</b> & co", "&lt;b&gt;bold&lt;/b&gt; &amp; co"},
		{"unix newlines", "first\nsecond", "first<br />second"},
		{"windows newlines", "first\r\nsecond", "first<br />second"},
		{"old mac newlines", "first\rsecond", "first<br />second"},
		{"tab indent", "list:\n\titem", "list:<br />&nbsp;&nbsp;item"},
		{"double space", "a  b", "a&nbsp;&nbsp;b"},
		{"triple space", "a   b", "a&nbsp;&nbsp; b"},
		{"single spaces kept", "a b c", "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.FormatText(tt.input))
		})
	}
}

func TestFormatTextAllowHTML(t *testing.T) {
	f := New(true)

	assert.Equal(t, "<b>bold</b>", f.FormatText("<b>bold</b>"))
	assert.Equal(t, "hi<br />there", f.FormatText("hi\nthere"))
	assert.Equal(t, "<b>a</b>&nbsp;&nbsp;b", f.FormatText("<b>a</b>\tb"))
	assert.NotContains(t, f.FormatText(`<script>alert(1)</script>ok`), "<script>")
	assert.NotContains(t, f.FormatText(`<a href="javascript:alert(1)">x</a>`), "javascript:")
}

func TestZeroFormatterAllowHTML(t *testing.T) {
	f := &Formatter{AllowHTML: true}
	assert.Equal(t, "<i>x</i>", f.FormatText("<i>x</i>"))
}
