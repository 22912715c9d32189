package fxwire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDGroup(t *testing.T) {
	require := require.New(t)

	require.Equal("<>", IDGroup(nil))
	require.Equal("<7>", IDGroup([]uint8{7}))
	require.Equal("<1 2 255>", IDGroup([]uint8{1, 2, 255}))
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float32
		want string
	}{
		{0, "0"},
		{1, "1"},
		{10, "10"},
		{-3, "-3"},
		{1.5, "1.5"},
		{0.1, "0.1"},
		{-0.25, "-0.25"},
		{0.000001, "0.000001"},
		{0.0000001, "0"},
		{-0.0000001, "0"},
		{12.345678, "12.345678"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, FormatFloat(tt.in))
		})
	}
}

func TestBuildCommand(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		tag  Tag
		ids  []uint8
		want string
	}{
		{TagStart, []uint8{1, 2}, "AT+START <1 2>"},
		{TagStop, nil, "AT+STOP <>"},
		{TagEStop, []uint8{3}, "AT+ESTOP <3>"},
		{TagSetZero, []uint8{1, 3, 2, 4}, "AT+SETZERO <1 3 2 4>"},
		{TagReq, []uint8{1}, "AT+REQ <1>"},
		{TagStatus, []uint8{1}, "AT+STATUS"},
		{TagPing, nil, "AT+PING"},
		{TagWhoAmI, nil, "AT+WHOAMI"},
	}

	for _, tt := range tests {
		cmd, err := BuildCommand(tt.tag, tt.ids)
		require.NoError(err)
		require.Equal(tt.want, cmd)
	}

	_, err := BuildCommand(TagControl, []uint8{1})
	require.ErrorIs(err, ErrNotCommand)

	_, err = BuildCommand(TagUnknown, nil)
	require.ErrorIs(err, ErrNotCommand)
}

func TestBuildControl(t *testing.T) {
	require := require.New(t)

	t.Run("Two motors", func(t *testing.T) {
		cmd, err := BuildControl(
			[]uint8{1, 2},
			[]float32{0, 0.5},
			[]float32{1, 0},
			[]float32{0, 10},
			[]float32{0.1, 0.01},
			[]float32{0, -1.25},
		)
		require.NoError(err)
		require.Equal("AT+MIT <1 0 1 0 0.1 0> <2 0.5 0 10 0.01 -1.25>", cmd)
	})

	t.Run("Length mismatch", func(t *testing.T) {
		_, err := BuildControl([]uint8{1, 2}, []float32{0}, []float32{0, 0}, []float32{0, 0}, []float32{0, 0}, []float32{0, 0})
		require.ErrorIs(err, ErrParamLengthMismatch)

		_, err = BuildControl([]uint8{1}, []float32{0}, []float32{0}, []float32{0}, []float32{0}, nil)
		require.ErrorIs(err, ErrParamLengthMismatch)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := BuildControl(nil, nil, nil, nil, nil, nil)
		require.ErrorIs(err, ErrEmptyControl)

		_, err = BuildControlFrames()
		require.ErrorIs(err, ErrEmptyControl)
	})

	t.Run("Non-finite", func(t *testing.T) {
		nan := float32(math.NaN())
		inf := float32(math.Inf(1))

		_, err := BuildControlFrames(ControlFrame{ID: 1, Pos: nan})
		require.ErrorIs(err, ErrNonFiniteParam)

		_, err = BuildControlFrames(ControlFrame{ID: 1}, ControlFrame{ID: 2, Tau: -inf})
		require.ErrorIs(err, ErrNonFiniteParam)

		_, err = BuildControl([]uint8{1}, []float32{0}, []float32{inf}, []float32{0}, []float32{0}, []float32{0})
		require.ErrorIs(err, ErrNonFiniteParam)
	})

	t.Run("Frames", func(t *testing.T) {
		cmd, err := BuildControlFrames(ControlFrame{ID: 4, Kd: 0.1})
		require.NoError(err)
		require.Equal("AT+MIT <4 0 0 0 0.1 0>", cmd)
	})
}
