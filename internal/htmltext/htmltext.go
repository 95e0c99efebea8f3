// Package htmltext turns user supplied text into HTML fragments.
package htmltext

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Formatter renders free-form text for display in HTML.
//
// Without AllowHTML the text is escaped. With AllowHTML, markup is kept but
// sanitized through a user-generated-content policy. In both modes line
// breaks become <br /> elements and indentation is kept with &nbsp;.
type Formatter struct {
	AllowHTML bool

	policy *bluemonday.Policy
}

// New returns a Formatter.
func New(allowHTML bool) *Formatter {
	f := &Formatter{AllowHTML: allowHTML}
	if allowHTML {
		f.policy = bluemonday.UGCPolicy()
	}
	return f
}

// FormatText returns text as an HTML fragment.
func (f *Formatter) FormatText(text string) string {
	if text == "" {
		return ""
	}

	if f.AllowHTML {
		policy := f.policy
		if policy == nil {
			policy = bluemonday.UGCPolicy()
		}
		text = policy.Sanitize(text)
	} else {
		text = html.EscapeString(text)
	}

	return convertWhitespace(text)
}

// whitespace keeps plain-text layout in HTML: line breaks become <br />,
// tabs and double spaces become two non-breaking spaces.
var whitespace = strings.NewReplacer(
	"\r\n", "<br />",
	"\r", "<br />",
	"\n", "<br />",
	"\t", "&nbsp;&nbsp;",
	"  ", "&nbsp;&nbsp;",
)

func convertWhitespace(text string) string {
	return whitespace.Replace(text)
}
