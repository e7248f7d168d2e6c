package playback

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/roach88/tabletop/internal/pick"
	"github.com/roach88/tabletop/internal/table"
)

// Mode selects where answers come from.
type Mode int

const (
	// ModeRecord sources answers live and appends them to the log.
	ModeRecord Mode = iota
	// ModePlay takes answers from the log until it runs out.
	ModePlay
	// ModeSeek replays the log towards a target step.
	ModeSeek
	// ModePause makes no progress.
	ModePause
)

func (m Mode) String() string {
	switch m {
	case ModeRecord:
		return "record"
	case ModePlay:
		return "play"
	case ModeSeek:
		return "seek"
	case ModePause:
		return "pause"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Controller runs sessions of one game with one seed.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	def       Definition
	seed      uint64
	sources   map[string]Source
	policy    pick.Policy
	maxRounds int
	logger    *zap.Logger
	observer  table.Observer

	mode    Mode
	log     []Entry
	digests []string
	pos     int
	gen     uint64
	sess    *session
}

// Option configures a Controller.
type Option func(*Controller)

// WithSource sets the decision source of one player.
func WithSource(player string, s Source) Option {
	return func(c *Controller) {
		c.sources[player] = s
	}
}

// WithSources sets decision sources for several players.
func WithSources(sources map[string]Source) Option {
	return func(c *Controller) {
		for p, s := range sources {
			c.sources[p] = s
		}
	}
}

// WithLog preloads an answer log. A controller with a log starts in
// ModePlay.
func WithLog(log []Entry) Option {
	return func(c *Controller) {
		c.log = cloneLog(log)
	}
}

// WithPolicy sets how many requests one answer may resolve.
func WithPolicy(p pick.Policy) Option {
	return func(c *Controller) {
		c.policy = p
	}
}

// WithMaxRounds sets the per-session round quota.
func WithMaxRounds(n int) Option {
	return func(c *Controller) {
		c.maxRounds = n
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithObserver installs a hook called after every table mutation outside
// of seeking.
func WithObserver(o table.Observer) Option {
	return func(c *Controller) {
		c.observer = o
	}
}

// New creates a controller. No session runs until the first Run, Step or
// Seek.
func New(def Definition, seed uint64, opts ...Option) (*Controller, error) {
	if def.Name == "" {
		return nil, errors.New("playback: definition has no name")
	}
	if def.Setup == nil || def.Rules == nil {
		return nil, fmt.Errorf("playback: game %s needs setup and rules", def.Name)
	}
	c := &Controller{
		def:       def,
		seed:      seed,
		sources:   make(map[string]Source),
		policy:    pick.ResolveFirst,
		maxRounds: DefaultMaxRounds,
		logger:    zap.NewNop(),
		mode:      ModeRecord,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxRounds <= 0 {
		return nil, fmt.Errorf("playback: max rounds must be positive, got %d", c.maxRounds)
	}
	if len(c.log) > 0 {
		c.mode = ModePlay
	}
	return c, nil
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// SetMode switches between ModeRecord, ModePlay and ModePause. Seeking is
// only entered through Seek.
func (c *Controller) SetMode(m Mode) error {
	if m == ModeSeek || m < ModeRecord || m > ModePause {
		return fmt.Errorf("playback: cannot switch to mode %s", m)
	}
	c.setMode(m)
	return nil
}

func (c *Controller) setMode(m Mode) {
	if c.mode == m {
		return
	}
	c.logger.Debug("mode changed", zap.Stringer("from", c.mode), zap.Stringer("to", m))
	c.mode = m
}

// Run steps until the session finishes, the controller pauses, or an
// error occurs. In ModePlay an exhausted log pauses the controller. The
// routine's own error, if any, is returned once it finishes.
func (c *Controller) Run(ctx context.Context) error {
	if c.sess == nil {
		if err := c.restart(ctx); err != nil {
			return err
		}
	}
	for {
		ok, err := c.Step(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	if c.sess.finished {
		return c.sess.err
	}
	if c.mode == ModePlay {
		c.setMode(ModePause)
	}
	return nil
}

// Step applies one answer to the current round and reports whether the
// session advanced.
func (c *Controller) Step(ctx context.Context) (bool, error) {
	if c.mode == ModePause {
		return false, nil
	}
	return c.step(ctx)
}

func (c *Controller) step(ctx context.Context) (bool, error) {
	if c.sess == nil {
		if err := c.restart(ctx); err != nil {
			return false, err
		}
	}
	s := c.sess
	if s.round == nil && !s.finished {
		if err := c.settle(ctx); err != nil {
			return false, err
		}
	}
	if s.finished {
		return false, nil
	}

	b := s.queue[0]
	entry, ok, err := c.answer(ctx, b)
	if err != nil || !ok {
		return false, err
	}

	resolved, err := s.round.Offer(s.table, s.reg, b.Requester, entry.Answer, c.policy)
	if errors.Is(err, pick.ErrStaleRound) {
		s.logger.Warn("stale round dropped", zap.Int("step", c.pos), zap.String("requester", b.Requester))
	}
	s.logger.Debug("answer applied",
		zap.Int("step", c.pos),
		zap.String("requester", b.Requester),
		zap.Strings("answer", entry.Answer),
		zap.Int("bucket", len(b.Requests)),
		zap.Int("resolved", len(resolved)),
	)
	c.pos++
	s.queue = s.queue[1:]
	if len(s.queue) > 0 {
		return true, c.checkpoint()
	}

	s.round = nil
	select {
	case s.resume <- struct{}{}:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	return true, c.settle(ctx)
}

// answer sources the answer for bucket b according to the mode.
func (c *Controller) answer(ctx context.Context, b pick.Bucket) (Entry, bool, error) {
	switch c.mode {
	case ModeRecord:
		src, ok := c.sources[b.Requester]
		if !ok {
			return Entry{}, false, fmt.Errorf("%w for player %q", ErrNoSource, b.Requester)
		}
		ans, err := src.Decide(ctx, c.sess.table, b.Requests)
		if err != nil {
			return Entry{}, false, fmt.Errorf("decide for %s: %w", b.Requester, err)
		}
		if c.pos < len(c.log) {
			c.logger.Info("log truncated", zap.Int("step", c.pos), zap.Int("dropped", len(c.log)-c.pos))
			c.log = c.log[:c.pos]
			if len(c.digests) > c.pos+1 {
				c.digests = c.digests[:c.pos+1]
			}
		}
		e := Entry{Requester: b.Requester, Answer: slices.Clone(ans)}
		c.log = append(c.log, e)
		return e, true, nil

	case ModePlay, ModeSeek:
		if c.pos >= len(c.log) {
			return Entry{}, false, nil
		}
		e := c.log[c.pos]
		if e.Requester != b.Requester {
			return Entry{}, false, &DivergenceError{
				Step:   c.pos,
				Reason: fmt.Sprintf("log answers for %q but %q is asked", e.Requester, b.Requester),
			}
		}
		return e, true, nil

	default:
		return Entry{}, false, nil
	}
}

// restart discards the live session and starts a new one at step 0.
func (c *Controller) restart(ctx context.Context) error {
	if c.sess != nil {
		c.sess.abandon()
	}
	c.gen++
	c.pos = 0

	sctx, cancel := context.WithCancelCause(context.Background())
	s := &session{
		gen:    c.gen,
		table:  table.New(c.seed, table.WithObserver(c.notify)),
		reg:    pick.NewRegistry(),
		logger: c.logger.With(zap.String("game", c.def.Name), zap.Uint64("session", c.gen)),
		quota:  newRoundQuota(c.maxRounds),
		ctx:    sctx,
		cancel: cancel,
		yield:  make(chan *pick.Round),
		resume: make(chan struct{}),
		done:   make(chan error, 1),
	}
	c.sess = s

	err := protect(func() error {
		if c.def.Predicates != nil {
			c.def.Predicates(s.reg)
		}
		c.def.Setup(s.table)
		return nil
	})
	if err != nil {
		s.finished = true
		s.err = err
		cancel(err)
		return fmt.Errorf("setup %s: %w", c.def.Name, err)
	}

	s.logger.Info("session started", zap.Uint64("seed", c.seed), zap.Stringer("mode", c.mode))
	s.start(c.def.Rules)
	return c.settle(ctx)
}

// settle runs the routine until it yields its next round or returns, then
// checkpoints the state.
func (c *Controller) settle(ctx context.Context) error {
	s := c.sess
	r, err := s.wait(ctx)
	if err != nil {
		return err
	}
	if s.finished {
		s.cancel(nil)
		if s.err != nil {
			s.logger.Warn("session failed", zap.Int("step", c.pos), zap.Error(s.err))
		} else {
			s.logger.Info("session finished", zap.Int("steps", c.pos))
		}
		return c.checkpoint()
	}
	if err := s.quota.check(c.def.Name); err != nil {
		s.logger.Warn("round quota exceeded", zap.Int("step", c.pos), zap.Error(err))
		s.abandon()
		s.finished = true
		s.err = err
		return c.checkpoint()
	}
	s.round = r
	s.queue = r.Buckets()
	s.logger.Debug("round yielded",
		zap.Int("step", c.pos),
		zap.Int("requests", len(r.Requests())),
		zap.Int("buckets", len(s.queue)),
	)
	return c.checkpoint()
}

// checkpoint records the digest of the state at the current step, or
// checks it against the one recorded earlier.
func (c *Controller) checkpoint() error {
	d, err := c.sess.table.Digest()
	if err != nil {
		return fmt.Errorf("digest step %d: %w", c.pos, err)
	}
	switch {
	case c.pos < len(c.digests):
		if c.digests[c.pos] != d {
			return &DivergenceError{Step: c.pos, Reason: "state differs from the recorded state"}
		}
	case c.pos == len(c.digests):
		c.digests = append(c.digests, d)
	}
	return nil
}

func (c *Controller) notify(op string) {
	if c.observer != nil && c.mode != ModeSeek {
		c.observer(op)
	}
}

// Seek discards the live session, re-runs the game from scratch replaying
// the log up to step target, and pauses there.
func (c *Controller) Seek(ctx context.Context, target int) error {
	if target < 0 || target > len(c.log) {
		return fmt.Errorf("seek %d: out of range [0, %d]", target, len(c.log))
	}
	c.logger.Info("seek", zap.String("game", c.def.Name), zap.Int("from", c.pos), zap.Int("to", target))
	c.setMode(ModeSeek)
	if err := c.restart(ctx); err != nil {
		c.setMode(ModePause)
		return err
	}
	for c.pos < target {
		ok, err := c.step(ctx)
		if err != nil {
			c.setMode(ModePause)
			return err
		}
		if !ok {
			c.setMode(ModePause)
			return &DivergenceError{Step: c.pos, Reason: "session ended before the log"}
		}
	}
	c.setMode(ModePause)
	return nil
}

// StepForward seeks one step ahead.
func (c *Controller) StepForward(ctx context.Context) error {
	return c.Seek(ctx, c.pos+1)
}

// StepBack seeks one step back.
func (c *Controller) StepBack(ctx context.Context) error {
	return c.Seek(ctx, c.pos-1)
}

// Close abandons the live session.
func (c *Controller) Close() {
	if c.sess != nil {
		c.sess.abandon()
	}
}

// Position returns the number of log entries the live session consumed.
func (c *Controller) Position() int {
	return c.pos
}

// Log returns a copy of the answer log.
func (c *Controller) Log() []Entry {
	return cloneLog(c.log)
}

// Artifact returns the replay artifact of the log.
func (c *Controller) Artifact() Artifact {
	return Artifact{Game: c.def.Name, Seed: c.seed, Log: c.Log()}
}

// Digests returns the recorded state digest of every step reached so far.
func (c *Controller) Digests() []string {
	return slices.Clone(c.digests)
}

// Digest returns the recorded state digest at step.
func (c *Controller) Digest(step int) (string, bool) {
	if step < 0 || step >= len(c.digests) {
		return "", false
	}
	return c.digests[step], true
}

// Table returns the live session's table, or nil before the first session.
// It must not be mutated.
func (c *Controller) Table() *table.Table {
	if c.sess == nil {
		return nil
	}
	return c.sess.table
}

// Pending returns the buckets still waiting for an answer in the current
// round.
func (c *Controller) Pending() []pick.Bucket {
	if c.sess == nil {
		return nil
	}
	return slices.Clone(c.sess.queue)
}

// Finished reports whether the live session's routine has returned.
func (c *Controller) Finished() bool {
	return c.sess != nil && c.sess.finished
}

// Err returns the error the finished routine ended with.
func (c *Controller) Err() error {
	if c.sess == nil {
		return nil
	}
	return c.sess.err
}
