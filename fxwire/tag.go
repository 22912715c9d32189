package fxwire

import "strings"

// Tag identifies which command or query a reply answers.
type Tag uint8

const (
	// TagUnknown is the zero Tag; it is never routed.
	TagUnknown Tag = iota
	TagStart
	TagStop
	TagEStop
	TagSetZero
	// TagControl acknowledges MIT control frames.
	TagControl
	// TagReq answers a telemetry request.
	TagReq
	TagStatus
	// TagWhoAmI answers an identification request.
	TagWhoAmI
	// TagPing answers a keep-alive.
	TagPing

	tagEnd
)

// NumTags is the number of routable tags. Valid tags are 1..NumTags.
const NumTags = int(tagEnd) - 1

var tagKeywords = [...]string{
	TagUnknown: "",
	TagStart:   "START",
	TagStop:    "STOP",
	TagEStop:   "ESTOP",
	TagSetZero: "SETZERO",
	TagControl: "MIT",
	TagReq:     "REQ",
	TagStatus:  "STATUS",
	TagWhoAmI:  "WHOAMI",
	TagPing:    "PING",
}

// Tags returns every routable tag in ascending order.
func Tags() []Tag {
	tags := make([]Tag, 0, NumTags)
	for t := TagUnknown + 1; t < tagEnd; t++ {
		tags = append(tags, t)
	}
	return tags
}

// Valid reports whether t is a routable tag.
func (t Tag) Valid() bool {
	return t > TagUnknown && t < tagEnd
}

// Index returns the zero-based position of t among the routable tags, or -1.
func (t Tag) Index() int {
	if !t.Valid() {
		return -1
	}
	return int(t) - 1
}

// Keyword returns the protocol keyword of t, e.g. "ESTOP".
func (t Tag) Keyword() string {
	if int(t) >= len(tagKeywords) {
		return ""
	}
	return tagKeywords[t]
}

func (t Tag) String() string {
	if !t.Valid() {
		return "UNKNOWN"
	}
	return tagKeywords[t]
}

// ParseTag matches word against the known keywords, ignoring case.
func ParseTag(word string) (Tag, bool) {
	for t := TagUnknown + 1; t < tagEnd; t++ {
		if strings.EqualFold(word, tagKeywords[t]) {
			return t, true
		}
	}
	return TagUnknown, false
}
