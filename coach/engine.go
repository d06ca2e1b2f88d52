// Coach response engine - Idle → Thinking → Typing → Idle state machine
package coach

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/finmate/finmate/state"
)

// Scheduler abstracts the engine's staged waits so tests can run instantly.
type Scheduler interface {
	// Wait blocks for d or until ctx is cancelled.
	Wait(ctx context.Context, d time.Duration) error
}

// TimerScheduler waits on real timers.
type TimerScheduler struct{}

// Wait implements Scheduler.
func (TimerScheduler) Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Config tunes the engine. Zero values get defaults.
type Config struct {
	// Scheduler drives the thinking and per-character waits.
	Scheduler Scheduler

	// Rand selects the prelude and answer variants. Inject a seeded source
	// to pin output in tests.
	Rand *rand.Rand

	// ThinkingDelay is the simulated latency before any reply text appears.
	ThinkingDelay time.Duration

	// MinTypeDelay and MaxTypeDelay bound the randomized wait between
	// revealed characters.
	MinTypeDelay time.Duration
	MaxTypeDelay time.Duration
}

const (
	defaultThinkingDelay = time.Second
	defaultMinTypeDelay  = 40 * time.Millisecond
	defaultMaxTypeDelay  = 60 * time.Millisecond
)

// Events lets a transport observe the flow as it progresses. All fields are
// optional.
type Events struct {
	OnThinking func()
	OnTyping   func()
	OnChunk    func(chunk string)
	OnComplete func(full string)
}

// Engine stages coach responses through thinking and typing phases, mutating
// the shared state store at each step. Only one flow runs at a time: starting
// a new response cancels any flow still streaming.
type Engine struct {
	store *state.Store
	sched Scheduler
	cfg   Config

	randMu sync.Mutex
	rng    *rand.Rand

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    uint64
}

// New creates an engine bound to the given state store.
func New(store *state.Store, cfg Config) *Engine {
	if cfg.Scheduler == nil {
		cfg.Scheduler = TimerScheduler{}
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.ThinkingDelay == 0 {
		cfg.ThinkingDelay = defaultThinkingDelay
	}
	if cfg.MinTypeDelay == 0 {
		cfg.MinTypeDelay = defaultMinTypeDelay
	}
	if cfg.MaxTypeDelay == 0 {
		cfg.MaxTypeDelay = defaultMaxTypeDelay
	}
	return &Engine{
		store: store,
		sched: cfg.Scheduler,
		cfg:   cfg,
		rng:   cfg.Rand,
	}
}

// Respond runs one full response flow for the most recent user message. When
// no user message exists the flow aborts silently and the state returns to
// idle without a coach message. Returns ctx.Err when cancelled mid-flow,
// either by the caller or by a newer Respond.
func (e *Engine) Respond(ctx context.Context, ev Events) error {
	ctx, gen := e.begin(ctx)
	defer e.end(gen)

	e.store.SetThinking(true)
	if ev.OnThinking != nil {
		ev.OnThinking()
	}

	if err := e.sched.Wait(ctx, e.cfg.ThinkingDelay); err != nil {
		e.clearFlags(gen)
		return err
	}

	lastUser, ok := e.store.LastUserMessage()
	if !ok {
		// Nothing to respond to. Documented no-op.
		e.clearFlags(gen)
		return nil
	}

	full := e.selectResponse(lastUser.Text)

	msg := e.store.AppendCoachMessage()
	e.store.SetThinking(false)
	e.store.SetTyping(true)
	if ev.OnTyping != nil {
		ev.OnTyping()
	}

	for _, r := range full {
		if err := e.sched.Wait(ctx, e.typeDelay()); err != nil {
			e.clearFlags(gen)
			return err
		}
		chunk := string(r)
		e.store.AppendToCoachMessage(msg.ID, chunk)
		if ev.OnChunk != nil {
			ev.OnChunk(chunk)
		}
	}

	e.store.SetTyping(false)
	if ev.OnComplete != nil {
		ev.OnComplete(full)
	}
	return nil
}

// selectResponse picks the reply text: demo phrase table first, rule-based
// summary otherwise, always behind a random prelude.
func (e *Engine) selectResponse(question string) string {
	e.randMu.Lock()
	defer e.randMu.Unlock()

	answer, ok := findDemoAnswer(question, e.rng)
	if !ok {
		answer = RuleFallback(e.store.Snapshot())
	}
	return randomPrelude(e.rng) + " " + answer
}

func (e *Engine) typeDelay() time.Duration {
	e.randMu.Lock()
	defer e.randMu.Unlock()

	spread := e.cfg.MaxTypeDelay - e.cfg.MinTypeDelay
	if spread <= 0 {
		return e.cfg.MinTypeDelay
	}
	return e.cfg.MinTypeDelay + time.Duration(e.rng.Int63n(int64(spread)))
}

// begin cancels any in-flight flow and registers this one as current.
func (e *Engine) begin(parent context.Context) (context.Context, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	e.cancel = cancel
	e.gen++
	return ctx, e.gen
}

func (e *Engine) end(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen == gen && e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// clearFlags resets the thinking/typing flags, but only when this flow is
// still the current one. A superseded flow must not stomp its successor.
func (e *Engine) clearFlags(gen uint64) {
	e.mu.Lock()
	current := e.gen == gen
	e.mu.Unlock()
	if current {
		e.store.SetThinking(false)
		e.store.SetTyping(false)
	}
}
