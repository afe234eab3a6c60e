package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/maauso/trailerforge/internal/generation"
	"github.com/maauso/trailerforge/internal/trailer"
)

// FailureNotice is the user-facing message surfaced after any failed generation.
const FailureNotice = "AI pipeline failed. Check if your backend is running!"

// Static errors for controller operations.
var (
	// ErrSubmitUnavailable is returned when Submit is called without a staged
	// artifact, outside StateIdle, or while an earlier request is still
	// outstanding. The session is left untouched.
	ErrSubmitUnavailable = errors.New("pipeline: submit is not available in the current state")
	// ErrSuperseded is returned when a request finished after the session was
	// reset. Its outcome is discarded.
	ErrSuperseded = errors.New("pipeline: request outcome discarded after reset")
)

// Generator is the port used to request a trailer for an uploaded artifact.
type Generator interface {
	Generate(ctx context.Context, upload generation.Upload) (trailer.Result, error)
}

// Observer receives a snapshot after every state change. Observers are
// called in order while the controller is locked and must not call back
// into the controller.
type Observer func(Snapshot)

// Snapshot is an immutable view of a session.
type Snapshot struct {
	// State is the current pipeline state.
	State State
	// HasArtifact is true when an artifact is staged.
	HasArtifact bool
	// ArtifactName is the display name of the staged artifact.
	ArtifactName string
	// ArtifactType is the media type of the staged artifact.
	ArtifactType string
	// ArtifactSize is the content length of the staged artifact.
	ArtifactSize int
	// Result is the generated trailer, set only in StateComplete.
	Result *trailer.Result
	// Notice is the failure notice from the last attempt, if any.
	Notice string
	// Pending is true while a generation request is outstanding, including
	// one whose outcome will be discarded after a reset.
	Pending bool
}

// CanSubmit returns true when Submit would start a request.
func (s Snapshot) CanSubmit() bool {
	return s.State == StateIdle && s.HasArtifact && !s.Pending
}

// Controller owns the selected artifact, the pipeline state and the
// generated result of one session. All methods are safe for concurrent use.
//
// At most one generation request is in flight at a time, even across a
// reset: Submit stays unavailable until the previous request resolves. Requests are
// never retried, cancelled or timed out by the controller: a request that
// never resolves leaves the session in StateProcessing until it is reset.
type Controller struct {
	mu sync.Mutex

	state    State
	artifact *Artifact
	result   *trailer.Result
	notice   string
	// epoch increments on every submission and reset so that a request
	// resolving after a reset cannot touch the new session.
	epoch uint64
	// pending is set from begin until the request resolves, whatever the epoch.
	pending bool

	generator Generator
	logger    *slog.Logger
	observers []Observer
	inflight  sync.WaitGroup
}

// Option is a function that configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers an observer for state changes.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observers = append(c.observers, o)
	}
}

// NewController creates a Controller in StateIdle with no artifact and no result.
func NewController(generator Generator, opts ...Option) *Controller {
	c := &Controller{
		state:     StateIdle,
		generator: generator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the current session view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SelectArtifact stages a new artifact, replacing any previous one and
// discarding any result or notice. The session returns to StateIdle.
// An empty selection is ignored. Artifacts that are neither images nor
// PDFs are accepted with a warning.
func (c *Controller) SelectArtifact(a Artifact) {
	if a.IsEmpty() {
		return
	}
	if !a.Accepted() {
		c.logger.Warn("artifact is neither an image nor a PDF",
			slog.String("artifact", a.Name),
			slog.String("media_type", a.MediaType),
		)
	}

	staged := a.clone()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.artifact = &staged
	c.resetLocked("artifact selected")
	c.logger.Info("artifact selected",
		slog.String("artifact", staged.Name),
		slog.String("media_type", staged.MediaType),
		slog.Int("size", staged.Size()),
	)
	c.notifyLocked()
}

// ClearArtifact discards the staged artifact and returns to StateIdle.
// It is idempotent.
func (c *Controller) ClearArtifact() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.artifact = nil
	c.resetLocked("artifact cleared")
	c.notifyLocked()
}

// StartNewProject discards the artifact and the generated result, returning
// the session to its initial state.
func (c *Controller) StartNewProject() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.artifact = nil
	c.resetLocked("new project")
	c.notifyLocked()
}

// Submit sends the staged artifact to the generation service and blocks
// until the request resolves. It returns ErrSubmitUnavailable without any
// effect unless an artifact is staged, the session is in StateIdle and no
// earlier request is still outstanding.
//
// On success the session moves to StateComplete. On failure the session
// passes through StateFailed back to StateIdle with FailureNotice set, and
// the error is returned.
func (c *Controller) Submit(ctx context.Context) error {
	sub, err := c.begin()
	if err != nil {
		return err
	}
	return c.resolve(ctx, sub)
}

// SubmitAsync is like Submit but returns as soon as the session has moved
// to StateProcessing. The request resolves in the background; use Wait to
// block until it has.
func (c *Controller) SubmitAsync(ctx context.Context) error {
	sub, err := c.begin()
	if err != nil {
		return err
	}

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		_ = c.resolve(ctx, sub)
	}()
	return nil
}

// Wait blocks until every request started by SubmitAsync has resolved.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// submission carries what a request needs outside the lock.
type submission struct {
	epoch  uint64
	upload generation.Upload
}

// begin checks the submit precondition and moves the session to StateProcessing.
func (c *Controller) begin() (submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle || c.artifact == nil || c.pending {
		return submission{}, ErrSubmitUnavailable
	}
	if err := c.transitionLocked(StateProcessing); err != nil {
		return submission{}, err
	}

	c.notice = ""
	c.result = nil
	c.epoch++
	c.pending = true

	sub := submission{
		epoch: c.epoch,
		upload: generation.Upload{
			Name:      c.artifact.Name,
			MediaType: c.artifact.MediaType,
			Content:   c.artifact.Content,
		},
	}

	c.logger.Info("generation started",
		slog.String("artifact", c.artifact.Name),
		slog.Int("size", c.artifact.Size()),
	)
	c.notifyLocked()
	return sub, nil
}

// resolve issues the request and applies its outcome to the session.
func (c *Controller) resolve(ctx context.Context, sub submission) error {
	start := time.Now()
	res, genErr := c.generator.Generate(ctx, sub.upload)
	elapsed := time.Since(start)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = false

	if sub.epoch != c.epoch || c.state != StateProcessing {
		c.logger.Info("discarding generation outcome after reset",
			slog.String("artifact", sub.upload.Name),
			slog.Duration("duration", elapsed),
		)
		c.notifyLocked()
		return ErrSuperseded
	}

	if genErr != nil {
		c.logger.Error("generation failed",
			slog.String("artifact", sub.upload.Name),
			slog.Duration("duration", elapsed),
			slog.String("error", genErr.Error()),
		)
		if err := c.transitionLocked(StateFailed); err != nil {
			return err
		}
		c.notice = FailureNotice
		c.result = nil
		if err := c.transitionLocked(StateIdle); err != nil {
			return err
		}
		c.notifyLocked()
		return fmt.Errorf("pipeline: generate: %w", genErr)
	}

	if err := c.transitionLocked(StateComplete); err != nil {
		return err
	}
	c.result = &res
	c.logger.Info("generation complete",
		slog.String("artifact", sub.upload.Name),
		slog.String("kind", string(res.Kind)),
		slog.Duration("duration", elapsed),
	)
	c.notifyLocked()
	return nil
}

// resetLocked drops the result and notice and returns to StateIdle.
// Any in-flight request is left running; its outcome will be discarded.
func (c *Controller) resetLocked(reason string) {
	if c.state == StateProcessing {
		c.logger.Warn("session reset while a request is in flight",
			slog.String("reason", reason),
		)
	}
	c.result = nil
	c.notice = ""
	c.epoch++
	// Every state may return to idle.
	_ = c.transitionLocked(StateIdle)
}

// transitionLocked changes the state if the transition is allowed.
func (c *Controller) transitionLocked(to State) error {
	if !canTransition(c.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.state, to)
	}
	if c.state != to {
		c.logger.Debug("pipeline state changed",
			slog.String("from", string(c.state)),
			slog.String("to", string(to)),
		)
	}
	c.state = to
	return nil
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:   c.state,
		Notice:  c.notice,
		Pending: c.pending,
	}
	if c.artifact != nil {
		snap.HasArtifact = true
		snap.ArtifactName = c.artifact.Name
		snap.ArtifactType = c.artifact.MediaType
		snap.ArtifactSize = c.artifact.Size()
	}
	if c.result != nil {
		res := c.result.Clone()
		snap.Result = &res
	}
	return snap
}

func (c *Controller) notifyLocked() {
	if len(c.observers) == 0 {
		return
	}
	snap := c.snapshotLocked()
	for _, o := range c.observers {
		o(snap)
	}
}
