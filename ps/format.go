// Package ps renders kernel.ProcInfo snapshots the way the original's ps
// and time user-space utilities format tick counts: whole seconds plus
// three sub-second digits, derived from a simulated 1000-tick-per-second
// clock rather than a generic duration.
package ps

import "fmt"

// FormatTicks renders a tick count the way procdump/ps/time do:
// "%d.%d%d%d" where the first field is whole seconds and the remaining
// three are the sub-second digits, assuming 1000 ticks per second.
func FormatTicks(ticks uint64) string {
	whole, h, t, o := ticksToParts(ticks)
	return fmt.Sprintf("%d.%d%d%d", whole, h, t, o)
}

// ticksToParts splits a tick count into whole seconds and its three
// sub-second digits, reproducing the original's
//
//	T1 = ticks % 10
//	T2 = (ticks % 100) / 10
//	T3 = (ticks % 1000) / 100
//	T4 = ticks / 1000
//
// in the order procdump prints them: whole, hundreds-digit, tens-digit,
// ones-digit.
func ticksToParts(ticks uint64) (whole, hundreds, tens, ones uint64) {
	ones = ticks % 10
	tens = (ticks % 100) / 10
	hundreds = (ticks % 1000) / 100
	whole = ticks / 1000
	return whole, hundreds, tens, ones
}
