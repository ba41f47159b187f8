// Package markup builds the small HTML fragments preprocessors splice into
// chapters.
package markup

import (
	"bytes"
	"encoding/json"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/bookproc/internal/foundation/errors"
)

type attribute struct {
	key   string
	value string
}

// ElementBuilder assembles a single HTML element with escaped attributes.
//
// Attributes are rendered in the order they were added. Values set through
// DataJSON are JSON encoded first, then HTML escaped, which is the form a
// client-side script reads back with JSON.parse(el.dataset.x).
type ElementBuilder struct {
	tag   string
	attrs []attribute
	inner string
	err   error
}

// NewElement starts an element with the given tag name.
func NewElement(tag string) *ElementBuilder {
	return &ElementBuilder{tag: tag}
}

// Div starts a <div> element.
func Div() *ElementBuilder { return NewElement("div") }

// Attr adds a plain attribute. Empty keys are ignored.
func (b *ElementBuilder) Attr(key, value string) *ElementBuilder {
	if key != "" {
		b.attrs = append(b.attrs, attribute{key: key, value: value})
	}
	return b
}

// Class sets the class attribute, skipping it when empty.
func (b *ElementBuilder) Class(class string) *ElementBuilder {
	if class == "" {
		return b
	}
	return b.Attr("class", class)
}

// Data adds a data-<key> attribute holding value verbatim.
func (b *ElementBuilder) Data(key, value string) *ElementBuilder {
	return b.Attr("data-"+key, value)
}

// DataJSON adds a data-<key> attribute holding the JSON encoding of value.
func (b *ElementBuilder) DataJSON(key string, value any) *ElementBuilder {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // the attribute is HTML escaped on render
	if err := enc.Encode(value); err != nil {
		if b.err == nil {
			b.err = errors.WrapError(err, errors.CategoryInternal, "encode data attribute").
				WithContext("attribute", "data-"+key).
				Build()
		}
		return b
	}
	return b.Data(key, strings.TrimSuffix(buf.String(), "\n"))
}

// Text sets escaped inner text.
func (b *ElementBuilder) Text(text string) *ElementBuilder {
	b.inner = html.EscapeString(text)
	return b
}

// Build renders the element on a single line.
func (b *ElementBuilder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}

	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(b.tag)
	for _, a := range b.attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.key)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(a.value))
		sb.WriteByte('"')
	}
	sb.WriteByte('>')
	sb.WriteString(b.inner)
	sb.WriteString("</")
	sb.WriteString(b.tag)
	sb.WriteByte('>')
	return sb.String(), nil
}
