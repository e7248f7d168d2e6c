package playback

import (
	"errors"
	"fmt"
)

// DefaultMaxRounds bounds the decision rounds of one session.
const DefaultMaxRounds = 10000

// roundQuota counts decision rounds handed to the driver by one session.
//
// A rule routine that keeps re-offering a request its sources can never
// satisfy would otherwise loop forever; the quota turns that into a
// RoundsExceededError that ends the session.
type roundQuota struct {
	max     int
	current int
}

func newRoundQuota(max int) *roundQuota {
	return &roundQuota{max: max}
}

// check counts one round and fails once the limit is passed.
func (q *roundQuota) check(game string) error {
	q.current++
	if q.current > q.max {
		return &RoundsExceededError{Game: game, Rounds: q.current, Limit: q.max}
	}
	return nil
}

// RoundsExceededError ends a session that asked for too many rounds.
type RoundsExceededError struct {
	Game   string
	Rounds int
	Limit  int
}

func (e *RoundsExceededError) Error() string {
	return fmt.Sprintf("game %s exceeded round quota: %d rounds > %d limit", e.Game, e.Rounds, e.Limit)
}

// IsRoundsExceededError reports whether err is (or wraps) a RoundsExceededError.
func IsRoundsExceededError(err error) bool {
	var re *RoundsExceededError
	return errors.As(err, &re)
}
