// Package layout renders labeled fixed-width fields for the pre-formatted certificate bodies.
//
// A field is its label, an optional colon, one space and an underlined slot. The slot holds
// the value left-aligned and is right-padded with non-breaking spaces up to the requested
// width so the underline always spans the whole slot. Longer values are not truncated.
package layout

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// NBSP is the padding unit inside a slot.
	NBSP = "&nbsp;"
	// WrapThreshold is the length above which RenderWrappedField splits a value.
	WrapThreshold = 50

	// LeavePlaceholder is printed in empty leave certificate slots.
	LeavePlaceholder = "---"
	// BonafidePlaceholder is printed in empty bonafide certificate slots.
	BonafidePlaceholder = ""
)

// Padding returns how many padding units a slot of width needs for value.
func Padding(value string, width int) int {
	if n := width - utf8.RuneCountInString(value); n > 0 {
		return n
	}
	return 0
}

// Slot renders the underlined, padded slot without a label.
func Slot(value string, width int, placeholder string) string {
	if value == "" {
		value = placeholder
	}
	return slot(html.EscapeString(value), value, width)
}

// MarkupSlot renders a slot for a value that is already markup, such as a standard with a
// superscript suffix. The markup is written as is and padding counts only its visible text.
func MarkupSlot(markup string, width int, placeholder string) string {
	if markup == "" {
		return Slot("", width, placeholder)
	}
	return slot(markup, VisibleText(markup), width)
}

func slot(body, visible string, width int) string {
	var b strings.Builder
	b.WriteString(`<span class="slot">`)
	b.WriteString(body)
	b.WriteString(strings.Repeat(NBSP, Padding(visible, width)))
	b.WriteString(`</span>`)
	return b.String()
}

// VisibleText strips tags and decodes entities, leaving the text a reader sees.
func VisibleText(markup string) string {
	var b strings.Builder
	inTag := false
	for _, r := range markup {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return html.UnescapeString(b.String())
}

// RenderField renders "label: <slot>".
func RenderField(label, value string, width int, withColon bool, placeholder string) string {
	return renderLabel(label, withColon) + Slot(value, width, placeholder)
}

// RenderMarkupField is RenderField for a value that is already markup.
func RenderMarkupField(label, markup string, width int, withColon bool, placeholder string) string {
	return renderLabel(label, withColon) + MarkupSlot(markup, width, placeholder)
}

func renderLabel(label string, withColon bool) string {
	if label == "" {
		return ""
	}
	if withColon {
		return html.EscapeString(label) + ": "
	}
	return html.EscapeString(label) + " "
}

// RenderWrappedField renders values longer than WrapThreshold over two lines: the head as a
// normal field of firstWidth, the tail as an unlabeled slot of contWidth on the next line.
func RenderWrappedField(label, value string, firstWidth, contWidth int, withColon bool, placeholder string) string {
	if utf8.RuneCountInString(value) <= WrapThreshold {
		return RenderField(label, value, firstWidth, withColon, placeholder)
	}
	head, tail := Split(value, WrapThreshold)
	return RenderField(label, head, firstWidth, withColon, placeholder) + "\n" + Slot(tail, contWidth, "")
}

// Split cuts value at the last whitespace at or before threshold, or at threshold when the
// head contains no whitespace. The whitespace at the cut is dropped.
func Split(value string, threshold int) (head, tail string) {
	runes := []rune(value)
	if len(runes) <= threshold {
		return value, ""
	}
	for i := threshold; i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return string(runes[:i]), string(runes[i+1:])
		}
	}
	return string(runes[:threshold]), string(runes[threshold:])
}
