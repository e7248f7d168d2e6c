// Package replaystore persists replay artifacts in SQLite.
//
// A stored session is exactly what playback needs to reproduce it: the
// game name, the seed, and the flat answer log in step order. Each answer
// row also carries the state digest recorded after that step, so a replay
// can be checked against the original run.
//
// The database runs in WAL mode with a single connection; one process
// writes at a time.
package replaystore
