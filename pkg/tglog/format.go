package tglog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

type argClass int

const (
	argPrimitive argClass = iota
	argText
	argArray
	argStructured
)

// classify sorts an argument into one of the rendering branches.
// error and fmt.Stringer values render as text even when they are structs.
func classify(v any) argClass {
	switch v.(type) {
	case nil:
		return argStructured
	case string:
		return argText
	case []byte, error, fmt.Stringer:
		return argPrimitive
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return argArray
	case reflect.Map, reflect.Struct, reflect.Pointer, reflect.Interface:
		return argStructured
	default:
		return argPrimitive
	}
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escapeHTML escapes the characters Telegram's HTML parse mode reserves.
func escapeHTML(s string) string { return htmlEscaper.Replace(s) }

// Format renders args as an HTML message for kind:
//
//	<b>{icon} {LABEL}</b>
//	{#tags}
//
//	<pre>{body}</pre>
//
//	{@mentions}
//
// Strings starting with "@" go to the mention line, strings starting with "#"
// to the tag line. The output depends only on kind and args.
func Format(kind Kind, args ...any) string {
	icon, label := Header(kind)

	var (
		body     strings.Builder
		tags     []string
		mentions []string
		prev     = argPrimitive
	)

	for _, arg := range args {
		class := classify(arg)
		switch class {
		case argArray, argStructured:
			if body.Len() > 0 {
				body.WriteByte('\n')
			}
			body.WriteString(escapeHTML(encodeJSON(arg, class == argStructured)))
		case argText:
			s := arg.(string)
			switch {
			case strings.HasPrefix(s, "@"):
				mentions = append(mentions, escapeHTML(s))
				continue
			case strings.HasPrefix(s, "#"):
				tags = append(tags, escapeHTML(s))
				continue
			}
			appendText(&body, escapeHTML(s), prev)
		default:
			appendText(&body, escapeHTML(renderPrimitive(arg)), prev)
		}
		prev = class
	}

	var b strings.Builder
	b.Grow(body.Len() + 64)
	b.WriteString("<b>")
	b.WriteString(icon)
	b.WriteByte(' ')
	b.WriteString(label)
	b.WriteString("</b>\n")
	b.WriteString(strings.Join(tags, " "))
	b.WriteString("\n\n<pre>")
	b.WriteString(body.String())
	b.WriteString("</pre>\n\n")
	b.WriteString(strings.Join(mentions, " "))
	return b.String()
}

// FormatPlain renders args without header or markup, separated by spaces.
// The result is not escaped: callers may embed their own HTML.
func FormatPlain(args ...any) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		switch class := classify(arg); class {
		case argText:
			parts = append(parts, arg.(string))
		case argArray, argStructured:
			parts = append(parts, encodeJSON(arg, class == argStructured))
		default:
			parts = append(parts, renderPrimitive(arg))
		}
	}
	return strings.Join(parts, " ")
}

func appendText(b *strings.Builder, s string, prev argClass) {
	if b.Len() > 0 {
		if prev == argArray || prev == argStructured {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteString(s)
}

// renderPrimitive goes through fmt so typed-nil errors and Stringers
// print as "<nil>" instead of panicking.
func renderPrimitive(v any) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprint(v)
}

// encodeJSON renders v as JSON (indented when indent is set), falling back
// to %+v for values encoding/json cannot represent (channels, funcs, cycles)
// and for structs whose fields it cannot see.
func encodeJSON(v any, indent bool) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%+v", v)
	}
	out := strings.TrimSuffix(buf.String(), "\n")
	if out == "{}" && hasFields(v) {
		return fmt.Sprintf("%+v", v)
	}
	return out
}

// hasFields reports whether v is a struct (or pointer to one) with at least
// one field.
func hasFields(v any) bool {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Struct && rv.NumField() > 0
}
