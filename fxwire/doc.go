// Package fxwire builds and parses the text frames of the Fx motor-controller
// protocol.
//
// Commands are single ASCII datagrams without a line terminator:
//
//	AT+START <1 2>
//	AT+MIT <1 0.5 0 10 0.1 0> <2 0 0 10 0.1 0>
//	AT+STATUS
//
// An empty ID group "<>" addresses every motor.
//
// Replies start with "OK" and carry a bracketed routing word naming the
// command they answer, optionally followed by ";"-separated fields:
//
//	OK <START>
//	OK <REQ;SEQ_NUM: cnt:7;M1: pos:0.1, vel:0>
//
// The routing word is matched against the fixed Tag set case-insensitively
// and exactly, so "<STATUSX>" never answers a STATUS query. A "SEQ_NUM"
// field containing "cnt:<n>" yields the reply sequence number.
//
// All functions in this package are pure and safe for concurrent use.
package fxwire
