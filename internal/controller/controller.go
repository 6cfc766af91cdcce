// Package controller drives ad content requests from wallet connection changes.
package controller

import (
	"context"
	"strings"
	"sync"

	"adview/internal/model"
	"adview/internal/specify"

	"go.uber.org/zap"
)

// User-facing failure messages.
const (
	AuthenticationMessage = "Authentication failed. Please check your publisher key."
	ValidationMessage     = "Invalid wallet address format."
	GenericMessage        = "An error occurred while fetching content"
)

// Message maps a Serve failure to the message shown to the user.
func Message(err error) string {
	switch {
	case specify.IsAuthentication(err):
		return AuthenticationMessage
	case specify.IsValidation(err):
		return ValidationMessage
	case err.Error() != "":
		return err.Error()
	default:
		return GenericMessage
	}
}

// Observer is notified of every applied state transition, in order. It runs
// with the controller locked and must not call back into the Controller.
type Observer func(model.FetchState)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithObserver registers fn to receive state transitions.
func WithObserver(fn Observer) Option {
	return func(c *Controller) { c.observers = append(c.observers, fn) }
}

// Controller owns the FetchState for one wallet connection. Each connection
// change issues at most one Serve call. A newer change cancels the request in
// flight, and responses from superseded or cancelled requests are dropped.
type Controller struct {
	server    specify.Server
	logger    *zap.Logger
	observers []Observer

	mu     sync.Mutex
	state  model.FetchState
	last   *model.ConnectionState
	seq    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New returns an idle controller fetching from server.
func New(server specify.Server, opts ...Option) *Controller {
	c := &Controller{
		server: server,
		logger: zap.NewNop(),
		state:  model.Idle{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() model.FetchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Update reacts to a wallet connection change. Surrounding whitespace in the
// address is dropped, and a state identical to the previous one is ignored.
func (c *Controller) Update(ctx context.Context, conn model.ConnectionState) {
	conn.Address = strings.TrimSpace(conn.Address)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last != nil && *c.last == conn {
		return
	}
	c.last = &conn
	c.seq++
	c.cancelLocked()

	if !conn.Ready() {
		c.logger.Debug("wallet not connected", zap.Bool("connected", conn.Connected))
		c.setLocked(model.Idle{})
		return
	}

	reqCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.setLocked(model.Loading{Address: conn.Address})

	c.wg.Add(1)
	go c.fetch(reqCtx, c.seq, conn.Address)
}

// Wait blocks until every request started so far has returned.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels the request in flight, discards its result and waits for it.
func (c *Controller) Close() {
	c.mu.Lock()
	c.seq++
	c.cancelLocked()
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Controller) fetch(ctx context.Context, seq uint64, address string) {
	defer c.wg.Done()

	c.logger.Debug("serving ad content", zap.String("address", address), zap.Uint64("seq", seq))
	content, err := c.server.Serve(ctx, address)

	var next model.FetchState
	if err != nil {
		next = model.Failed{Message: Message(err)}
	} else {
		next = model.Loaded{Content: content}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq || ctx.Err() != nil {
		c.logger.Debug("dropping stale response",
			zap.String("address", address),
			zap.Uint64("seq", seq),
			zap.Uint64("current", c.seq),
			zap.Error(err))
		return
	}
	c.cancelLocked()
	if err != nil {
		c.logger.Debug("serve failed", zap.String("address", address), zap.Error(err))
	}
	c.setLocked(next)
}

func (c *Controller) cancelLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) setLocked(next model.FetchState) {
	if _, idle := c.state.(model.Idle); idle {
		if _, stillIdle := next.(model.Idle); stillIdle {
			return
		}
	}
	c.logger.Debug("state transition",
		zap.String("from", string(c.state.Phase())),
		zap.String("to", string(next.Phase())))
	c.state = next
	for _, fn := range c.observers {
		fn(next)
	}
}
