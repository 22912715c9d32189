package fxreply

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fxlink/go-fxcli/fxwire"
)

// Pair is one "sub:value" item of a field. Values has more than one entry
// when the value is a comma-separated list.
type Pair struct {
	Key    string
	Values []string
}

// Value returns the first value of p, or "" when p has none.
func (p Pair) Value() string {
	if len(p.Values) == 0 {
		return ""
	}
	return p.Values[0]
}

// Field is one decoded segment.
type Field struct {
	Key string
	// Value is the item without a sub-key, such as "up" in "NET: up, ip:...".
	Value string
	// Pairs holds the "sub:value" items in order of appearance.
	Pairs []Pair
}

// Lookup returns the pair with the given sub-key, matched case-insensitively.
func (f Field) Lookup(sub string) (Pair, bool) {
	for _, p := range f.Pairs {
		if strings.EqualFold(p.Key, sub) {
			return p, true
		}
	}
	return Pair{}, false
}

// Float returns the first value of sub as a float.
func (f Field) Float(sub string) (float64, error) {
	p, ok := f.Lookup(sub)
	if !ok {
		return 0, fmt.Errorf("fxreply: %s: no %q item", f.Key, sub)
	}
	return strconv.ParseFloat(p.Value(), 64)
}

// Int returns the first value of sub as an integer.
func (f Field) Int(sub string) (int64, error) {
	p, ok := f.Lookup(sub)
	if !ok {
		return 0, fmt.Errorf("fxreply: %s: no %q item", f.Key, sub)
	}
	return strconv.ParseInt(p.Value(), 10, 64)
}

// Record is a decoded reply.
type Record struct {
	Tag  fxwire.Tag
	Word string
	// Head holds what follows the routing word in the first segment, such as
	// "pong" in "OK <PING pong>". Head.Key is the routing word.
	Head Field
	// Flags are the segments without a colon.
	Flags  []string
	Fields []Field

	payload string
}

// Get returns the field with the given key, matched case-insensitively.
func (r Record) Get(key string) (Field, bool) {
	for _, f := range r.Fields {
		if strings.EqualFold(f.Key, key) {
			return f, true
		}
	}
	return Field{}, false
}

// HasFlag reports whether the reply carries the flag segment name.
func (r Record) HasFlag(name string) bool {
	for _, flag := range r.Flags {
		if strings.EqualFold(flag, name) {
			return true
		}
	}
	return false
}

// Seq returns the reply sequence number.
func (r Record) Seq() (uint64, bool) {
	return fxwire.ParseSeq(r.payload)
}

// Decode decodes a raw reply payload. Replies with an unknown routing word
// are decoded too, with Tag set to fxwire.TagUnknown. Malformed replies
// return the fxwire parse error.
func Decode(payload string) (Record, error) {
	reply, err := fxwire.ParseReply(payload)
	if err != nil && !errors.Is(err, fxwire.ErrUnknownTag) {
		return Record{}, err
	}

	rec := Record{Tag: reply.Tag, Word: reply.Word, Head: Field{Key: reply.Word}, payload: reply.Payload}

	segments := splitSegments(body(reply.Payload))
	if len(segments) == 0 {
		return rec, nil
	}

	// the first segment starts with the routing word
	first := strings.TrimSpace(segments[0][len(leadingWord(segments[0])):])
	if first != "" {
		rec.Head = parseItems(reply.Word, first)
	}

	for _, seg := range segments[1:] {
		key, rest, ok := strings.Cut(seg, ":")
		key, rest = strings.TrimSpace(key), strings.TrimSpace(rest)
		if !ok || rest == "" {
			if key != "" {
				rec.Flags = append(rec.Flags, key)
			}
			continue
		}
		if key == "" {
			continue
		}
		rec.Fields = append(rec.Fields, parseItems(key, rest))
	}

	return rec, nil
}

// body returns the text inside the outermost "<...>" of payload.
func body(payload string) string {
	l := strings.IndexByte(payload, '<')
	r := strings.LastIndexByte(payload, '>')
	if l < 0 || r <= l {
		return ""
	}
	return payload[l+1 : r]
}

func splitSegments(s string) []string {
	parts := strings.Split(s, ";")
	segments := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

func leadingWord(s string) string {
	if i := strings.IndexAny(s, " \t("); i >= 0 {
		return s[:i]
	}
	return s
}

// parseItems parses "a:1, b:2, 3" into a field. A comma ends an item only
// when a "sub:" follows it; other commas separate list values.
func parseItems(key, rest string) Field {
	f := Field{Key: key}

	for _, item := range splitItems(rest) {
		sub, value, ok := cutSubKey(item)
		if !ok {
			if f.Value == "" {
				f.Value = item
			}
			continue
		}
		f.Pairs = append(f.Pairs, Pair{Key: sub, Values: splitList(value)})
	}

	return f
}

func splitItems(s string) []string {
	var items []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			continue
		}
		if _, _, ok := cutSubKey(strings.TrimLeft(s[i+1:], " \t")); ok {
			if item := strings.TrimSpace(s[start:i]); item != "" {
				items = append(items, item)
			}
			start = i + 1
		}
	}
	if item := strings.TrimSpace(s[start:]); item != "" {
		items = append(items, item)
	}
	return items
}

// cutSubKey splits "sub:value" where sub is an identifier.
func cutSubKey(s string) (string, string, bool) {
	end := 0
	for end < len(s) && isIdentChar(s[end]) {
		end++
	}
	if end == 0 || end >= len(s) || s[end] != ':' {
		return "", "", false
	}
	return s[:end], strings.TrimSpace(s[end+1:]), true
}

func isIdentChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '_' || c == '[' || c == ']'
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
