package playback

import (
	"errors"
	"fmt"
)

var (
	// ErrAbandoned is returned from Game.Await inside a routine whose
	// session was discarded by a seek or a new session.
	ErrAbandoned = errors.New("playback: session abandoned")

	// ErrLogDiverged reports that replaying a log did not reproduce the
	// recorded session. Use errors.As with *DivergenceError for details.
	ErrLogDiverged = errors.New("playback: log diverged")

	// ErrNoSource is returned when recording needs an answer from a player
	// without a decision source.
	ErrNoSource = errors.New("playback: no decision source")
)

// DivergenceError describes where a replay stopped matching its log.
type DivergenceError struct {
	// Step is the log position where the mismatch was detected.
	Step int

	// Reason is a human-readable description.
	Reason string
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("log diverged at step %d: %s", e.Step, e.Reason)
}

// Is makes errors.Is(err, ErrLogDiverged) match.
func (e *DivergenceError) Is(target error) bool {
	return target == ErrLogDiverged
}

// RoutinePanic wraps a panic raised inside setup or the rule routine.
// Contract violations keep their *table.ContractError as Value.
type RoutinePanic struct {
	Value any
	Stack []byte
}

func (e *RoutinePanic) Error() string {
	return fmt.Sprintf("rule routine panicked: %v", e.Value)
}

// Unwrap exposes an error panic value to errors.Is/As.
func (e *RoutinePanic) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// IsRoutinePanic reports whether err is (or wraps) a RoutinePanic.
func IsRoutinePanic(err error) bool {
	var rp *RoutinePanic
	return errors.As(err, &rp)
}
