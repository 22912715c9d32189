package fxwire

import (
	"strconv"
	"strings"
	"time"
)

const (
	seqFieldKey = "SEQ_NUM"
	seqCountKey = "cnt:"
)

// Reply is one parsed reply datagram.
type Reply struct {
	// Tag is the routing tag; TagUnknown when Word is not a known keyword.
	Tag Tag
	// Word is the routing word as received.
	Word string
	// Payload is the whole reply text with surrounding whitespace trimmed.
	Payload string
	// Seq is the reply sequence number, valid when HasSeq is true.
	Seq    uint64
	HasSeq bool
	// Arrival is set by the receiver, never by ParseReply.
	Arrival time.Time
}

// ParseReply parses a reply datagram.
//
// It returns ErrNotOK or ErrNoTag for malformed replies. For a well-formed
// reply whose routing word is not a known tag it returns the reply, with Tag
// set to TagUnknown, together with ErrUnknownTag.
func ParseReply(raw string) (Reply, error) {
	s := strings.TrimSpace(raw)
	if len(s) < 2 || !strings.EqualFold(s[:2], "OK") {
		return Reply{}, ErrNotOK
	}

	word, ok := routingWord(s)
	if !ok {
		return Reply{}, ErrNoTag
	}

	r := Reply{Word: word, Payload: s}
	r.Seq, r.HasSeq = ParseSeq(s)

	tag, ok := ParseTag(word)
	if !ok {
		return r, ErrUnknownTag
	}
	r.Tag = tag

	return r, nil
}

// ParseSeq extracts the number following "cnt:" after a "SEQ_NUM" marker.
func ParseSeq(payload string) (uint64, bool) {
	i := strings.Index(payload, seqFieldKey)
	if i < 0 {
		return 0, false
	}
	rest := payload[i+len(seqFieldKey):]

	j := strings.Index(rest, seqCountKey)
	if j < 0 {
		return 0, false
	}
	rest = strings.TrimLeft(rest[j+len(seqCountKey):], " \t")

	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	seq, err := strconv.ParseUint(rest[:end], 10, 64)
	if err != nil {
		return 0, false
	}

	return seq, true
}

// routingWord returns the first word inside the first "<...>" group.
func routingWord(s string) (string, bool) {
	l := strings.IndexByte(s, '<')
	if l < 0 {
		return "", false
	}
	r := strings.IndexByte(s[l+1:], '>')
	if r < 0 {
		return "", false
	}
	inside := strings.TrimSpace(s[l+1 : l+1+r])

	end := strings.IndexAny(inside, " \t;(")
	if end >= 0 {
		inside = inside[:end]
	}
	if inside == "" {
		return "", false
	}

	return inside, true
}
