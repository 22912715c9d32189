// Package fxreply decodes the payload of a firmware reply into fields.
//
// A reply body is a ";"-separated list of segments following the routing
// word:
//
//	OK <STATUS; FW: 1.1.0, proto:ATv1; UPTIME: 28761; NET: up, ip:10.0.0.2, gw:10.0.0.1>
//
// Each segment "KEY: items" becomes a Field. An item "sub:value" is a Pair;
// a value holding commas that are not followed by another "sub:" is a list,
// as in "POS: 1:0.5, 2:1.25" or "IDS: list:1, 2, 3". An item without a
// sub-key is the bare Value of the field. Segments without a colon are flags.
//
// The client never decodes replies itself; Decode is a convenience for
// callers that need more than the raw payload.
package fxreply
