package fxwire

import (
	"math"
	"strconv"
	"strings"
)

// CommandPrefix precedes every outbound keyword.
const CommandPrefix = "AT+"

// ControlFrame holds the MIT setpoint of one motor.
type ControlFrame struct {
	ID  uint8
	Pos float32
	Vel float32
	Kp  float32
	Kd  float32
	Tau float32
}

// IDGroup renders ids as "<1 2 3>". An empty slice yields the broadcast
// group "<>".
func IDGroup(ids []uint8) string {
	var sb strings.Builder
	sb.Grow(2 + 4*len(ids))
	writeIDGroup(&sb, ids)

	return sb.String()
}

// FormatFloat renders v in fixed-point with six decimals, then trims
// trailing zeros and a dangling decimal point: 1.5 -> "1.5", 2 -> "2".
func FormatFloat(v float32) string {
	s := strconv.FormatFloat(float64(v), 'f', 6, 32)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

// BuildCommand returns the command for tag addressed to ids.
//
// STATUS, PING and WHOAMI are device-wide and ignore ids. MIT control frames
// need parameters and must be built with BuildControl instead.
func BuildCommand(tag Tag, ids []uint8) (string, error) {
	switch tag {
	case TagStatus, TagPing, TagWhoAmI:
		return CommandPrefix + tag.Keyword(), nil
	case TagStart, TagStop, TagEStop, TagSetZero, TagReq:
		var sb strings.Builder
		sb.WriteString(CommandPrefix)
		sb.WriteString(tag.Keyword())
		sb.WriteByte(' ')
		writeIDGroup(&sb, ids)
		return sb.String(), nil
	default:
		return "", ErrNotCommand
	}
}

// BuildControl returns an MIT control command with one parameter group per
// motor. Every parameter slice must have the same length as ids.
func BuildControl(ids []uint8, pos, vel, kp, kd, tau []float32) (string, error) {
	n := len(ids)
	if len(pos) != n || len(vel) != n || len(kp) != n || len(kd) != n || len(tau) != n {
		return "", ErrParamLengthMismatch
	}

	frames := make([]ControlFrame, n)
	for i := range ids {
		frames[i] = ControlFrame{ID: ids[i], Pos: pos[i], Vel: vel[i], Kp: kp[i], Kd: kd[i], Tau: tau[i]}
	}

	return BuildControlFrames(frames...)
}

// BuildControlFrames is like BuildControl but takes one struct per motor.
// A NaN or infinite parameter fails with ErrNonFiniteParam.
func BuildControlFrames(frames ...ControlFrame) (string, error) {
	if len(frames) == 0 {
		return "", ErrEmptyControl
	}
	for _, f := range frames {
		if !f.finite() {
			return "", ErrNonFiniteParam
		}
	}

	var sb strings.Builder
	sb.Grow(len(CommandPrefix) + 4 + 40*len(frames))
	sb.WriteString(CommandPrefix)
	sb.WriteString(TagControl.Keyword())
	for _, f := range frames {
		sb.WriteString(" <")
		sb.WriteString(strconv.FormatUint(uint64(f.ID), 10))
		for _, v := range [...]float32{f.Pos, f.Vel, f.Kp, f.Kd, f.Tau} {
			sb.WriteByte(' ')
			sb.WriteString(FormatFloat(v))
		}
		sb.WriteByte('>')
	}

	return sb.String(), nil
}

func (f ControlFrame) finite() bool {
	for _, v := range [...]float32{f.Pos, f.Vel, f.Kp, f.Kd, f.Tau} {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return false
		}
	}
	return true
}

func writeIDGroup(sb *strings.Builder, ids []uint8) {
	sb.WriteByte('<')
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	sb.WriteByte('>')
}
