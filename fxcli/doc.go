// Package fxcli is a UDP client for Fx motor-controller firmware.
//
// A Client owns one connected UDP socket and one background receive engine.
// The engine drains incoming datagrams, parses them with package fxwire and
// stores each reply in a single-value slot selected by its routing tag. A
// newer reply for the same tag replaces an older unread one, so callers
// always see the freshest answer and never a backlog.
//
// Operations fall in three groups:
//
//   - Fire-and-confirm: MotorStart, MotorStop, MotorEStop, MotorSetZero,
//     Ping and WhoAmI clear their tag's slot, send once and wait for the
//     acknowledgment within the general timeout (200 ms by default).
//   - Real-time queries: Req and Status do the same with the short
//     real-time timeout (5 ms by default) and return the raw reply.
//   - Fire-and-forget: OperationControl and SendControl send MIT setpoints
//     without waiting.
//
// "No reply in time" is an expected outcome and is reported as false or an
// empty string. Only construction failures and malformed caller input are
// reported as errors; Exchange exposes the underlying error values for
// callers that need them.
//
// Socket faults seen by the engine (reset, refused, network down, closed
// descriptor) or by a failed send cause the socket to be recreated in place
// with the same options. Both paths go through one mutually exclusive
// replace operation, so a fault is never handled twice.
//
// Example:
//
//	cfg, err := fxcli.NewConfig("192.168.10.10", 5101,
//	    fxcli.WithRealtimeTimeout(5*time.Millisecond),
//	)
//	if err != nil { ... }
//	cli, err := fxcli.NewClient(ctx, cfg)
//	if err != nil { ... }
//	defer cli.Close()
//
//	if !cli.MotorStart(1, 2) { ... }
//	obs := cli.Req(1, 2)
package fxcli
