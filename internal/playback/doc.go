// Package playback drives rule routines against a table and a pick
// protocol, recording or replaying the answers that make a session
// reproducible.
//
// A Controller owns at most one live session: a fresh table built from the
// game's seed and setup, plus the rule routine running on it. The routine
// suspends only in Game.Await; each time it does, the controller walks the
// round's requester buckets and sources one answer per bucket, either live
// from a player's Source (ModeRecord) or from the answer log (ModePlay,
// ModeSeek). ModePause makes no progress.
//
// Rollback restores table data but never control flow, so seeking to an
// earlier step discards the routine and re-runs it from scratch, replaying
// the log up to the target. The controller records a state digest at every
// step and checks it on replay; any mismatch is reported as a
// *DivergenceError.
package playback
