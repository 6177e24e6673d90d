package tglog

import (
	"strings"

	"github.com/rs/zerolog"
)

// Kind selects the header of a formatted message.
type Kind string

const (
	KindLog   Kind = "log"
	KindDebug Kind = "debug"
	KindWarn  Kind = "warn"
	KindError Kind = "error"

	// KindPlain marks messages sent verbatim, without header or markup.
	KindPlain Kind = "plain"
)

type header struct {
	icon  string
	label string
}

var headers = map[Kind]header{
	KindLog:   {icon: "ℹ️", label: "LOG"},
	KindDebug: {icon: "⚙️", label: "DEBUG"},
	KindWarn:  {icon: "⚠️", label: "WARN"},
	KindError: {icon: "🆘", label: "ERROR"},
}

// Header returns the icon and label for kind. Unknown kinds get the log header.
func Header(kind Kind) (icon, label string) {
	h, ok := headers[kind]
	if !ok {
		h = headers[KindLog]
	}
	return h.icon, h.label
}

// ParseKind maps user input (flags, config) to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "log", "info", "informational", "":
		return KindLog, true
	case "debug", "trace":
		return KindDebug, true
	case "warn", "warning":
		return KindWarn, true
	case "error", "err":
		return KindError, true
	case "plain":
		return KindPlain, true
	default:
		return "", false
	}
}

// KindForLevel maps a zerolog level onto the closest message kind.
func KindForLevel(level zerolog.Level) Kind {
	switch {
	case level <= zerolog.DebugLevel:
		return KindDebug
	case level == zerolog.WarnLevel:
		return KindWarn
	case level >= zerolog.ErrorLevel && level <= zerolog.PanicLevel:
		return KindError
	default:
		return KindLog
	}
}
