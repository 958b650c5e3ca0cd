package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cv-builder/internal/domain"
	"cv-builder/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const sseKeepAlive = 25 * time.Second

// writeEvent sends one server-sent event and flushes it.
func writeEvent(w *bufio.Writer, event string, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, b); err != nil {
		return err
	}
	return w.Flush()
}

// latestState keeps only the newest state pushed to a stream.
type latestState struct {
	mu      sync.Mutex
	state   domain.AppState
	pending bool
	notify  chan struct{}
}

func newLatestState() *latestState {
	return &latestState{notify: make(chan struct{}, 1)}
}

func (l *latestState) set(s domain.AppState) {
	l.mu.Lock()
	l.state, l.pending = s, true
	l.mu.Unlock()
	select {
	case l.notify <- struct{}{}:
	default:
	}
}

func (l *latestState) take() (domain.AppState, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.state, l.pending
	l.pending = false
	return s, ok
}

// Events streams the state after every dispatch. The current state is sent
// first so a new subscriber never starts blank. A slow client skips
// intermediate states but always receives the newest one.
func (h *Handler) Events(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	latest := newLatestState()
	unsubscribe := h.store.Subscribe(latest.set)
	initial := h.store.State()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()
		if err := writeEvent(w, "state", initial); err != nil {
			return
		}
		flush := func() error {
			if s, ok := latest.take(); ok {
				return writeEvent(w, "state", s)
			}
			return nil
		}
		ticker := time.NewTicker(sseKeepAlive)
		defer ticker.Stop()
		for {
			select {
			case <-latest.notify:
				if err := flush(); err != nil {
					logger.Debug().Err(err).Msg("event stream closed")
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-h.done:
				_ = flush()
				return
			}
		}
	}))
	return nil
}
