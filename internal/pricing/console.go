package pricing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/courtsidehq/court-pricing-backend/internal/court"
	"github.com/courtsidehq/court-pricing-backend/internal/notify"
	"github.com/courtsidehq/court-pricing-backend/internal/pkg/apperror"
)

var (
	ErrCommitInFlight = apperror.New(http.StatusConflict, "a save is already in progress for this court")
	ErrNoSession      = errors.New("console session not loaded")
)

// ErrPersistence wraps a failed commit; the underlying cause is kept for
// logging while the user-facing message stays generic.
var ErrPersistence = apperror.New(http.StatusBadGateway, "failed to save pricing configuration")

// State describes where a court editing session is in its lifecycle.
type State string

const (
	StateClean   State = "clean"   // in-memory value matches persisted value
	StateEditing State = "editing" // unsaved optimistic edits exist
	StateSaving  State = "saving"  // a commit is in flight
	StateFailed  State = "failed"  // last commit failed, unsaved edits retained
)

// Store is the persistence collaborator of the console. Put is a
// whole-object replace; there are no partial-patch semantics.
type Store interface {
	Get(ctx context.Context, courtID string) (*court.Court, error)
	Put(ctx context.Context, c *court.Court) (*court.Court, error)
}

// Console drives one court's pricing edits: every mutation produces a new
// in-memory Court value immediately (the optimistic update), and Commit
// replaces the persisted record as a whole.
//
// A failed commit deliberately keeps the optimistic value in place so the
// operator can inspect and retry; the session surfaces the divergence
// through StateFailed rather than silently rolling back.
type Console struct {
	courtID string
	store   Store
	sink    notify.Sink

	mu     sync.Mutex
	court  *court.Court
	state  State
	saving bool
}

// NewConsole creates an idle session for one court. Load must be called
// before edits.
func NewConsole(courtID string, store Store, sink notify.Sink) *Console {
	return &Console{courtID: courtID, store: store, sink: sink, state: StateClean}
}

// Load fetches the persisted court and resets the session to Clean. It is a
// no-op while unsaved edits or an in-flight save exist, so a concurrent
// reader cannot wipe another request's optimistic state.
func (cs *Console) Load(ctx context.Context) error {
	cs.mu.Lock()
	if cs.saving || cs.state == StateEditing || cs.state == StateFailed {
		cs.mu.Unlock()
		return nil
	}
	cs.mu.Unlock()

	loaded, err := cs.store.Get(ctx, cs.courtID)
	if err != nil {
		return err
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.saving || cs.state == StateEditing || cs.state == StateFailed {
		return nil
	}
	cs.court = loaded
	cs.state = StateClean
	return nil
}

// State returns the current session state.
func (cs *Console) State() State {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.state
}

// Court returns the current in-memory value, which may be ahead of the
// persisted record while Editing, Saving or Failed.
func (cs *Console) Court() (*court.Court, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.court == nil {
		return nil, ErrNoSession
	}
	c := *cs.court
	return &c, nil
}

// Apply runs an edit against the current value and installs the result as
// the new optimistic value. Validation failures leave the prior value and
// state untouched.
func (cs *Console) Apply(edit func(court.Court) (court.Court, error)) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.court == nil {
		return ErrNoSession
	}
	next, err := edit(*cs.court)
	if err != nil {
		return err
	}
	cs.court = &next
	cs.state = StateEditing
	return nil
}

// SetBasePrice, SetDynamicPricing and the multiplier setters are the field
// edits the pricing form exposes.

func (cs *Console) SetBasePrice(price int64) error {
	return cs.Apply(func(c court.Court) (court.Court, error) { return c.WithBasePrice(price) })
}

func (cs *Console) SetDynamicPricing(enabled bool) error {
	return cs.Apply(func(c court.Court) (court.Court, error) { return c.WithDynamicPricing(enabled), nil })
}

func (cs *Console) SetPeakMultiplier(m float64) error {
	return cs.Apply(func(c court.Court) (court.Court, error) { return c.WithPeakMultiplier(m) })
}

func (cs *Console) SetWeekendMultiplier(m float64) error {
	return cs.Apply(func(c court.Court) (court.Court, error) { return c.WithWeekendMultiplier(m) })
}

func (cs *Console) AddPeriod(tpl court.PeriodTemplate) error {
	return cs.Apply(func(c court.Court) (court.Court, error) { return c.AddSpecialPeriod(tpl) })
}

func (cs *Console) RemovePeriod(periodID string) error {
	return cs.Apply(func(c court.Court) (court.Court, error) { return c.RemoveSpecialPeriod(periodID) })
}

func (cs *Console) SetPeriodActive(periodID string, active bool) error {
	return cs.Apply(func(c court.Court) (court.Court, error) { return c.SetSpecialPeriodActive(periodID, active) })
}

// Commit persists the optimistic value with a single whole-court replace.
// Commits for the same session are serialized: a second Commit while one is
// in flight fails fast with ErrCommitInFlight. Cancellation returns the
// session to Editing since nothing was persisted.
func (cs *Console) Commit(ctx context.Context) (*court.Court, error) {
	cs.mu.Lock()
	if cs.court == nil {
		cs.mu.Unlock()
		return nil, ErrNoSession
	}
	if cs.saving {
		cs.mu.Unlock()
		return nil, ErrCommitInFlight
	}
	if cs.state == StateClean {
		c := *cs.court
		cs.mu.Unlock()
		return &c, nil
	}
	cs.saving = true
	cs.state = StateSaving
	attempt := *cs.court
	cs.mu.Unlock()

	saved, err := cs.store.Put(ctx, &attempt)

	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.saving = false

	if err != nil {
		if ctx.Err() != nil {
			// Nothing was committed; the edits are simply still unsaved.
			cs.state = StateEditing
			return nil, fmt.Errorf("commit cancelled: %w", ctx.Err())
		}
		cs.state = StateFailed
		cs.sink.Error(ctx, cs.courtID, "failed to save pricing for "+attempt.Name)
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			// Domain rejects (version conflict, validation) keep their own
			// status; only unknown failures collapse into ErrPersistence.
			return nil, err
		}
		return nil, apperror.Wrap(err, ErrPersistence.Code, ErrPersistence.Message)
	}

	cs.court = saved
	cs.state = StateClean
	cs.sink.Success(ctx, cs.courtID, "pricing saved for "+saved.Name)
	c := *saved
	return &c, nil
}

// Hub hands out one Console per court so that all edits against a court go
// through the same serialized session.
type Hub struct {
	store Store
	sink  notify.Sink

	mu       sync.Mutex
	sessions map[string]*Console
}

// NewHub creates an empty session registry.
func NewHub(store Store, sink notify.Sink) *Hub {
	return &Hub{store: store, sink: sink, sessions: make(map[string]*Console)}
}

// Session returns the console for a court, creating it on first use.
func (h *Hub) Session(courtID string) *Console {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cs, ok := h.sessions[courtID]; ok {
		return cs
	}
	cs := NewConsole(courtID, h.store, h.sink)
	h.sessions[courtID] = cs
	return cs
}

// Drop discards a court's session, e.g. after the court is deleted.
func (h *Hub) Drop(courtID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, courtID)
}
