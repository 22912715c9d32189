package fxwire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		tag     Tag
		word    string
		seq     uint64
		hasSeq  bool
		wantErr error
	}{
		{name: "Plain ack", raw: "OK <START>", tag: TagStart, word: "START"},
		{name: "Lower case", raw: "ok <estop>", tag: TagEStop, word: "estop"},
		{name: "Trailing whitespace", raw: "  OK <STOP 1 2>\r\n", tag: TagStop, word: "STOP"},
		{name: "No space after OK", raw: "OK<PING>", tag: TagPing, word: "PING"},
		{
			name: "Sequence number", raw: "OK <REQ;SEQ_NUM: cnt:7;M1: pos:0.1, vel:0>",
			tag: TagReq, word: "REQ", seq: 7, hasSeq: true,
		},
		{
			name: "Sequence with space", raw: "OK <STATUS;SEQ_NUM: cnt: 12>",
			tag: TagStatus, word: "STATUS", seq: 12, hasSeq: true,
		},
		{name: "Sequence without digits", raw: "OK <REQ;SEQ_NUM: cnt:x>", tag: TagReq, word: "REQ"},
		{name: "Counter without marker", raw: "OK <REQ;cnt:9>", tag: TagReq, word: "REQ"},
		{name: "Exact match only", raw: "OK <STATUSX>", word: "STATUSX", wantErr: ErrUnknownTag},
		{name: "Unknown tag", raw: "OK <REBOOT>", word: "REBOOT", wantErr: ErrUnknownTag},
		{name: "Not OK", raw: "ERR <START>", wantErr: ErrNotOK},
		{name: "Too short", raw: "O", wantErr: ErrNotOK},
		{name: "Missing tag", raw: "OK", wantErr: ErrNoTag},
		{name: "Empty brackets", raw: "OK <>", wantErr: ErrNoTag},
		{name: "Unclosed bracket", raw: "OK <START", wantErr: ErrNoTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			r, err := ParseReply(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(err, tt.wantErr)
			} else {
				require.NoError(err)
			}
			require.Equal(tt.tag, r.Tag)
			require.Equal(tt.word, r.Word)
			require.Equal(tt.seq, r.Seq)
			require.Equal(tt.hasSeq, r.HasSeq)
		})
	}
}

func TestParseReply_Idempotent(t *testing.T) {
	require := require.New(t)

	raw := "OK <REQ;SEQ_NUM: cnt:7;M1: pos:0.1>"
	r1, err1 := ParseReply(raw)
	r2, err2 := ParseReply(raw)

	require.NoError(err1)
	require.NoError(err2)
	require.Equal(r1, r2)
	require.Equal(raw, r1.Payload)
}

func TestTag(t *testing.T) {
	require := require.New(t)

	tags := Tags()
	require.Len(tags, NumTags)
	for i, tag := range tags {
		require.True(tag.Valid())
		require.Equal(i, tag.Index())

		parsed, ok := ParseTag(tag.Keyword())
		require.True(ok)
		require.Equal(tag, parsed)
	}

	require.False(TagUnknown.Valid())
	require.Equal(-1, TagUnknown.Index())
	require.Equal("UNKNOWN", TagUnknown.String())
	require.Equal("MIT", TagControl.String())

	_, ok := ParseTag("start ")
	require.False(ok)
}

func FuzzParseReply(f *testing.F) {
	f.Add("OK <REQ;SEQ_NUM: cnt:7>")
	f.Add("OK <START>")
	f.Add("ok<")
	f.Fuzz(func(t *testing.T, raw string) {
		r1, err1 := ParseReply(raw)
		r2, err2 := ParseReply(raw)
		if r1 != r2 || err1 != err2 {
			t.Fatalf("non-deterministic parse of %q", raw)
		}
		if err1 == nil && !r1.Tag.Valid() {
			t.Fatalf("accepted reply with invalid tag: %q", raw)
		}
	})
}
