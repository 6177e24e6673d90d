package app

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ParseArg converts a command-line or piped value into a message argument.
// Values that are a JSON object or array decode into structured values;
// anything else stays a string.
func ParseArg(s string) any {
	t := strings.TrimSpace(s)
	if len(t) < 2 {
		return s
	}
	if !(t[0] == '{' && t[len(t)-1] == '}') && !(t[0] == '[' && t[len(t)-1] == ']') {
		return s
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(t)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return s
	}
	return v
}

// ParseArgs applies ParseArg to every value.
func ParseArgs(ss []string) []any {
	out := make([]any, 0, len(ss))
	for _, s := range ss {
		out = append(out, ParseArg(s))
	}
	return out
}

// ParseLine turns one piped line into message arguments.
//
// Leading "@user" and "#tag" tokens become separate arguments so they land
// on the mention and tag lines; the rest of the line is kept verbatim (or
// decoded when it is JSON). An empty line yields no arguments.
func ParseLine(line string) []any {
	rest := strings.TrimSpace(line)
	if rest == "" {
		return nil
	}

	var marks []any
	for rest != "" && (rest[0] == '@' || rest[0] == '#') {
		tok, after := rest, ""
		if i := strings.IndexAny(rest, " \t"); i >= 0 {
			tok, after = rest[:i], rest[i:]
		}
		if len(tok) == 1 {
			break
		}
		marks = append(marks, tok)
		rest = strings.TrimLeft(after, " \t")
	}

	args := make([]any, 0, len(marks)+1)
	if rest != "" {
		args = append(args, ParseArg(rest))
	}
	return append(args, marks...)
}
