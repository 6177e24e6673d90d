// Package tglog forwards application log messages to a Telegram chat.
//
// A Client is created unvalidated with New and must be connected before it
// accepts messages:
//
//	c, err := tglog.New(token, chatID)
//	if err != nil {
//		return err
//	}
//	if err := c.Connect(ctx); err != nil {
//		return err // token or chat rejected by the Bot API
//	}
//	_ = c.Error(ctx, "@oncall", "#billing", "charge failed:", map[string]any{"id": 42})
//
// Connect calls getMe and getChat once. Every log call issues exactly one
// sendMessage request with parse_mode=HTML; nothing is queued or retried.
//
// Messages are rendered by Format: a bold header chosen by Kind, the "#tags"
// line, the body inside <pre>, then the "@mentions" line. Strings are appended
// to the body, slices render as compact JSON and other structured values
// (maps, structs, pointers, nil) as indented JSON on their own lines.
//
// Writer adapts a Client into a zerolog sink so regular structured logs at or
// above a threshold are forwarded to the chat.
package tglog
