package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// State is the display state of a View.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateEmpty
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateEmpty:
		return "empty"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is what a View shows at one point in time.
type Snapshot struct {
	Generation uint64
	City       string // The selected city, as requested
	State      State
	Result     *Result // Set only in StateReady
	Message    string  // Spinner text or alert text
}

// View holds the shop list of the currently selected city. Each Select
// supersedes the previous one: the older query is canceled and its result,
// should it still arrive, is dropped.
type View struct {
	finder   ShopFinder
	log      *slog.Logger
	onChange func(Snapshot)

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	snap   Snapshot
	wg     sync.WaitGroup
}

// NewView creates an idle View. onChange, if not nil, is called with every
// committed snapshot while the View's lock is held, so it must not call back
// into the View.
func NewView(finder ShopFinder, log *slog.Logger, onChange func(Snapshot)) *View {
	return &View{finder: finder, log: log, onChange: onChange}
}

// Select starts loading the shops of city and returns the generation stamped on it.
func (v *View) Select(ctx context.Context, city string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancel != nil {
		v.cancel()
	}

	v.gen++
	gen := v.gen
	queryCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel

	v.commitLocked(Snapshot{Generation: gen, City: city, State: StateLoading, Message: MsgLoading})

	v.wg.Add(1)
	go v.run(queryCtx, cancel, gen, city)

	return gen
}

func (v *View) run(ctx context.Context, cancel context.CancelFunc, gen uint64, city string) {
	defer v.wg.Done()
	defer cancel()

	result, err := v.finder.FindShops(ctx, city)

	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.gen {
		v.log.DebugContext(ctx, "Dropping stale shop result", "city", city, "generation", gen, "latest", v.gen)
		return
	}

	snap := Snapshot{Generation: gen, City: city}
	switch {
	case err == nil:
		snap.State = StateReady
		snap.Result = result
	case errors.Is(err, ErrNoShops):
		snap.State = StateEmpty
		snap.Message = UserMessage(err, city)
	default:
		snap.State = StateFailed
		snap.Message = UserMessage(err, city)
	}

	v.commitLocked(snap)
}

func (v *View) commitLocked(snap Snapshot) {
	v.snap = snap
	if v.onChange != nil {
		v.onChange(snap)
	}
}

// Snapshot returns the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.snap
}

// Wait blocks until every started query has returned.
func (v *View) Wait() {
	v.wg.Wait()
}

// Close cancels the in-flight query and waits for it to return.
func (v *View) Close() {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	v.mu.Unlock()

	v.wg.Wait()
}
