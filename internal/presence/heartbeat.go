// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package presence keeps the marketplace informed that the signed-in user is online.

# Lifecycle

A [Heartbeat] follows the session status feed. Each time the session becomes
authenticated it starts one scope: a presence socket, a fixed-interval ping
and an activity-driven ping. Leaving authenticated (or cancelling the context)
ends the scope: the socket is closed, the interval stopped, a pending
reconnect cancelled and in-flight pings awaited.

# Connection states

	Disconnected -> Connecting -> Connected
	                    ^             |
	                    |   drop/fail v
	                    +------ Reconnecting

Only one reconnect timer exists at a time. With a retry cap the scope settles
in Disconnected once the cap is reached, keeping the HTTP pings alive.
*/
package presence

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/RisinaLiliia/deczhen-client/internal/session"
)

// ConnState is the state of the presence socket.
type ConnState string

const (
	StateDisconnected ConnState = "disconnected"
	StateConnecting   ConnState = "connecting"
	StateConnected    ConnState = "connected"
	StateReconnecting ConnState = "reconnecting"
)

const pingWriteTimeout = 5 * time.Second

// Pinger sends the HTTP presence ping.
type Pinger interface {
	PingPresence(ctx context.Context) error
}

// TokenSource yields the current access token.
type TokenSource interface {
	AccessToken() string
}

// Options tunes the heartbeat. Zero values take the defaults.
type Options struct {
	// Interval between unconditional pings.
	Interval time.Duration
	// ActivityThrottle is the minimum gap between activity-driven pings.
	ActivityThrottle time.Duration
	// ReconnectDelay is the fixed wait before reopening a dropped socket.
	ReconnectDelay time.Duration
	// MaxReconnectAttempts caps consecutive reconnects; 0 means unlimited.
	MaxReconnectAttempts int
	// Clock drives the interval, the reconnect delay and the activity
	// throttle. Nil means the wall clock.
	Clock clockwork.Clock
}

func (opts Options) withDefaults() Options {
	if opts.Interval <= 0 {
		opts.Interval = 60 * time.Second
	}
	if opts.ActivityThrottle <= 0 {
		opts.ActivityThrottle = 15 * time.Second
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = 5 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return opts
}

// Stats is a diagnostic snapshot.
type Stats struct {
	State             ConnState `json:"state"`
	Active            bool      `json:"active"`
	Dials             int       `json:"dials"`
	ReconnectAttempts int       `json:"reconnectAttempts"`
	Pings             int       `json:"pings"`
	PingFailures      int       `json:"pingFailures"`
	ActivityDropped   int       `json:"activityDropped"`
	LastPingAt        time.Time `json:"lastPingAt,omitzero"`
}

// Heartbeat drives presence for one session.
type Heartbeat struct {
	pinger Pinger
	dialer Dialer
	tokens TokenSource
	opts   Options
	logger *slog.Logger

	activity chan ActivityKind

	mu    sync.Mutex
	stats Stats
}

// NewHeartbeat creates an idle heartbeat.
func NewHeartbeat(pinger Pinger, dialer Dialer, tokens TokenSource, opts Options, logger *slog.Logger) *Heartbeat {
	return &Heartbeat{
		pinger:   pinger,
		dialer:   dialer,
		tokens:   tokens,
		opts:     opts.withDefaults(),
		logger:   logger,
		activity: make(chan ActivityKind, 1),
		stats:    Stats{State: StateDisconnected},
	}
}

/*
Run follows updates until ctx ends or updates is closed.

Parameters:
  - ctx: Lifetime of the heartbeat.
  - updates: Session status feed, typically [session.Store.Subscribe].

Returns:
  - ctx.Err() on cancellation, nil when the feed closes. Either way the
    current scope is fully torn down first.
*/
func (heartbeat *Heartbeat) Run(ctx context.Context, updates <-chan session.Status) error {
	var stop func()
	defer func() {
		if stop != nil {
			stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case status, ok := <-updates:
			if !ok {
				return nil
			}

			switch {
			case status == session.StatusAuthenticated && stop == nil:
				stop = heartbeat.start(ctx)
			case status != session.StatusAuthenticated && stop != nil:
				stop()
				stop = nil
			}
		}
	}
}

// Activity reports a user interaction. It never blocks; pings it triggers are
// throttled, and it is a no-op while no scope runs.
func (heartbeat *Heartbeat) Activity(kind ActivityKind) error {
	if _, err := ParseActivity(string(kind)); err != nil {
		return err
	}

	select {
	case heartbeat.activity <- kind:
	default:
		heartbeat.update(func(stats *Stats) { stats.ActivityDropped++ })
	}
	return nil
}

// State returns the socket state.
func (heartbeat *Heartbeat) State() ConnState {
	return heartbeat.Stats().State
}

// Stats returns a diagnostic snapshot.
func (heartbeat *Heartbeat) Stats() Stats {
	heartbeat.mu.Lock()
	defer heartbeat.mu.Unlock()
	return heartbeat.stats
}

// # Scope

func (heartbeat *Heartbeat) start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	// Activity reported before this scope belongs to the previous one.
	select {
	case <-heartbeat.activity:
	default:
	}

	heartbeat.update(func(stats *Stats) {
		stats.Active = true
		stats.ReconnectAttempts = 0
	})
	heartbeat.logger.InfoContext(ctx, "presence_started")

	go func() {
		defer close(done)
		heartbeat.runScope(ctx)
	}()

	return func() {
		cancel()
		<-done
		heartbeat.update(func(stats *Stats) {
			stats.Active = false
			stats.State = StateDisconnected
		})
		heartbeat.logger.InfoContext(parent, "presence_stopped")
	}
}

// scope holds the state owned by the runScope goroutine.
type scope struct {
	conn       Conn
	dropped    chan Conn
	reconnect  clockwork.Timer
	reconnectC <-chan time.Time
	attempts   int
	exhausted  bool
	pings      sync.WaitGroup
	readers    sync.WaitGroup
	limiter    *rate.Limiter
}

func (heartbeat *Heartbeat) runScope(ctx context.Context) {
	current := &scope{
		dropped: make(chan Conn, 1),
		limiter: rate.NewLimiter(rate.Every(heartbeat.opts.ActivityThrottle), 1),
	}

	clock := heartbeat.opts.Clock
	ticker := clock.NewTicker(heartbeat.opts.Interval)

	defer func() {
		ticker.Stop()
		if current.reconnect != nil {
			current.reconnect.Stop()
		}
		if current.conn != nil {
			_ = current.conn.Close()
		}
		current.readers.Wait()
		current.pings.Wait()
	}()

	heartbeat.connect(ctx, current)
	heartbeat.ping(ctx, current, "start")

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.Chan():
			heartbeat.ping(ctx, current, "interval")
			if current.conn != nil {
				// The write deadline is for the network, so it stays on wall time.
				deadline := time.Now().Add(pingWriteTimeout)
				if err := current.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					// The reader sees the close and reports the drop.
					_ = current.conn.Close()
				}
			}

		case kind := <-heartbeat.activity:
			if current.limiter.AllowN(clock.Now(), 1) {
				heartbeat.ping(ctx, current, string(kind))
			}

		case conn := <-current.dropped:
			if conn != current.conn {
				continue
			}
			_ = conn.Close()
			current.conn = nil
			heartbeat.logger.InfoContext(ctx, "presence_socket_dropped")
			heartbeat.scheduleReconnect(ctx, current)

		case <-current.reconnectC:
			current.reconnect = nil
			current.reconnectC = nil
			heartbeat.connect(ctx, current)
		}
	}
}

func (heartbeat *Heartbeat) connect(ctx context.Context, current *scope) {
	heartbeat.setState(StateConnecting)
	heartbeat.update(func(stats *Stats) { stats.Dials++ })

	conn, err := heartbeat.dialer.Dial(ctx, heartbeat.tokens.AccessToken())
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		heartbeat.logger.DebugContext(ctx, "presence_dial_failed", slog.Any("error", err))
		heartbeat.scheduleReconnect(ctx, current)
		return
	}

	current.conn = conn
	current.attempts = 0
	heartbeat.update(func(stats *Stats) { stats.ReconnectAttempts = 0 })
	heartbeat.setState(StateConnected)
	heartbeat.logger.DebugContext(ctx, "presence_socket_connected")

	current.readers.Add(1)
	go func() {
		defer current.readers.Done()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && ctx.Err() == nil {
					heartbeat.logger.DebugContext(ctx, "presence_socket_read_failed", slog.Any("error", err))
				}
				select {
				case current.dropped <- conn:
				case <-ctx.Done():
				}
				return
			}
		}
	}()
}

// scheduleReconnect arms the reconnect timer unless one is already pending
// or the retry cap is reached.
func (heartbeat *Heartbeat) scheduleReconnect(ctx context.Context, current *scope) {
	if current.reconnect != nil {
		return
	}

	limit := heartbeat.opts.MaxReconnectAttempts
	if limit > 0 && current.attempts >= limit {
		if !current.exhausted {
			current.exhausted = true
			heartbeat.logger.WarnContext(ctx, "presence_reconnect_exhausted", slog.Int("attempts", current.attempts))
		}
		heartbeat.setState(StateDisconnected)
		return
	}

	// The timer is armed before the attempt becomes visible in Stats.
	current.reconnect = heartbeat.opts.Clock.NewTimer(heartbeat.opts.ReconnectDelay)
	current.reconnectC = current.reconnect.Chan()

	current.attempts++
	heartbeat.update(func(stats *Stats) {
		stats.ReconnectAttempts = current.attempts
		stats.State = StateReconnecting
	})
}

// ping fires the HTTP ping in the background. Failures are logged and dropped.
func (heartbeat *Heartbeat) ping(ctx context.Context, current *scope, reason string) {
	current.pings.Add(1)
	go func() {
		defer current.pings.Done()

		err := heartbeat.pinger.PingPresence(ctx)
		heartbeat.update(func(stats *Stats) {
			if err != nil {
				stats.PingFailures++
				return
			}
			stats.Pings++
			stats.LastPingAt = heartbeat.opts.Clock.Now()
		})
		if err != nil && ctx.Err() == nil {
			heartbeat.logger.DebugContext(ctx, "presence_ping_failed",
				slog.String("reason", reason),
				slog.Any("error", err),
			)
		}
	}()
}

func (heartbeat *Heartbeat) setState(state ConnState) {
	heartbeat.update(func(stats *Stats) { stats.State = state })
}

func (heartbeat *Heartbeat) update(mutate func(stats *Stats)) {
	heartbeat.mu.Lock()
	mutate(&heartbeat.stats)
	heartbeat.mu.Unlock()
}
