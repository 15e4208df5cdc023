package eventloop

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"screen-snip/src/config"
	"screen-snip/src/errs"
	"screen-snip/src/handoff"
	"screen-snip/src/hotkey"
	"screen-snip/src/messages"
	"screen-snip/src/monitor"
	"screen-snip/src/screenshot"
	"screen-snip/src/singleinstance"
	"screen-snip/src/worker"
)

const (
	idleTooltip = "screen-snip"
	busyTooltip = "screen-snip: capturing..."
)

// Capturer grabs one monitor by enumeration index.
type Capturer interface {
	Capture(index int) (*screenshot.Frame, error)
}

type Options struct {
	Pointer    monitor.Pointer
	Topology   monitor.Topology
	Capturer   Capturer
	Dispatcher handoff.Dispatcher
	// Server enables `capture` delegation; nil disables it.
	Server  singleinstance.Server
	Tracker *hotkey.Tracker
	Tooltip func(string)
	Notify  func(title, message string)
}

// Loop is the single-threaded coordinator of the resident listener. Every
// trigger (hotkey, tray, delegated) becomes one capture job on a one-slot
// worker pool; triggers that arrive while a job is in flight are dropped.
type Loop struct {
	opts        Options
	dispatcher  handoff.Dispatcher
	handoffPath string
	pool        *worker.Pool
	busy        bool
	triggers    chan trigger
	configs     chan *config.Config
	results     chan result
}

type trigger struct {
	req  messages.CaptureRequested
	conn singleinstance.Conn
}

type result struct {
	msg  messages.Message
	conn singleinstance.Conn
}

func New(cfg *config.Config, opts Options) *Loop {
	if opts.Tooltip == nil {
		opts.Tooltip = func(string) {}
	}
	if opts.Notify == nil {
		opts.Notify = func(title, message string) { log.Printf("%s: %s", title, message) }
	}
	l := &Loop{
		opts:       opts,
		dispatcher: opts.Dispatcher,
		pool:       worker.New(1),
		triggers:   make(chan trigger, 4),
		configs:    make(chan *config.Config, 1),
		results:    make(chan result, 1),
	}
	if cfg != nil {
		l.handoffPath = cfg.HandoffPath
	}
	return l
}

// Trigger posts a capture request from any goroutine. It returns false when
// the trigger queue is full.
func (l *Loop) Trigger(source string) bool {
	t := trigger{req: messages.CaptureRequested{ID: uuid.NewString(), Source: source}}
	select {
	case l.triggers <- t:
		return true
	default:
		log.Printf("[%s] trigger queue full, dropping %s trigger", t.req.ID, source)
		return false
	}
}

// ApplyConfig hands a reloaded configuration to the loop. Only the latest
// pending config is kept.
func (l *Loop) ApplyConfig(cfg *config.Config) {
	for {
		select {
		case l.configs <- cfg:
			return
		default:
		}
		select {
		case <-l.configs:
		default:
		}
	}
}

// Run blocks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.pool.Close()

	var reqCh chan singleinstance.Conn
	if l.opts.Server != nil {
		if err := l.opts.Server.Start(ctx); err != nil {
			return fmt.Errorf("start resident server: %w", err)
		}
		if p := l.opts.Server.Port(); p > 0 {
			log.Printf("Resident listening on 127.0.0.1:%d", p)
		}
		reqCh = make(chan singleinstance.Conn, 4)
		go func() {
			for {
				conn, err := l.opts.Server.Next(ctx)
				if err != nil {
					close(reqCh)
					return
				}
				reqCh <- conn
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-l.triggers:
			l.handleTrigger(ctx, t)
		case conn, ok := <-reqCh:
			if !ok {
				reqCh = nil
				continue
			}
			l.handleTrigger(ctx, trigger{
				req:  messages.CaptureRequested{ID: uuid.NewString(), Source: messages.SourceDelegated},
				conn: conn,
			})
		case cfg := <-l.configs:
			l.handleConfig(cfg)
		case res := <-l.results:
			l.handleResult(res)
		}
	}
}

func (l *Loop) handleTrigger(ctx context.Context, t trigger) {
	id := t.req.ID
	if l.busy {
		log.Printf("[%s] capture in flight, dropping %s trigger", id, t.req.Source)
		respondError(t.conn, "busy, please retry")
		return
	}
	if l.handoffPath == "" || l.dispatcher == nil {
		log.Printf("[%s] no hand-off path or dispatcher configured", id)
		respondError(t.conn, "resident not configured")
		return
	}
	log.Printf("[%s] capture requested by %s", id, t.req.Source)

	job := l.captureJob(id, l.handoffPath, l.dispatcher)
	l.setBusy(true)
	submitted := l.pool.Submit(ctx, id, job, func(msg messages.Message) {
		select {
		case l.results <- result{msg: msg, conn: t.conn}:
		case <-ctx.Done():
			closeConn(t.conn)
		}
	})
	if !submitted {
		l.setBusy(false)
		log.Printf("[%s] worker queue full, dropping trigger", id)
		respondError(t.conn, "busy, please retry")
	}
}

// captureJob binds the current path and dispatcher so a reload during the
// job does not change where its frame goes.
func (l *Loop) captureJob(id, path string, d handoff.Dispatcher) worker.Job {
	pointer, topology, capturer := l.opts.Pointer, l.opts.Topology, l.opts.Capturer
	return func(ctx context.Context) messages.Message {
		target, err := monitor.Locate(pointer, topology)
		if err != nil {
			return messages.CaptureFailed{ID: id, Error: err}
		}
		log.Printf("[%s] cursor %v on monitor %d %+v", id, target.Cursor, target.Index, target.Geometry)

		frame, err := capturer.Capture(target.Index)
		if err != nil {
			return messages.CaptureFailed{ID: id, Error: err}
		}
		if err := ctx.Err(); err != nil {
			return messages.CaptureFailed{ID: id, Error: err}
		}

		ev, err := handoff.Publish(d, id, frame, target.Geometry.Origin(), path)
		if err != nil {
			return messages.CaptureFailed{ID: id, Error: err}
		}
		return ev
	}
}

func (l *Loop) handleResult(res result) {
	l.setBusy(false)
	defer closeConn(res.conn)

	switch m := res.msg.(type) {
	case messages.CaptureCompleted:
		log.Printf("[%s] preview dispatched: origin=%v path=%s", m.ID, m.Origin, m.Path)
		if res.conn != nil {
			if err := res.conn.RespondSuccess(m.ID + " " + m.Path); err != nil {
				log.Printf("[%s] delegated reply failed: %v", m.ID, err)
			}
		}
	case messages.CaptureFailed:
		if errs.Retryable(m.Error) {
			log.Printf("[%s] capture skipped: %v", m.ID, m.Error)
		} else {
			log.Printf("[%s] capture failed: %v", m.ID, m.Error)
			l.opts.Notify("Capture failed", m.Error.Error())
		}
		respondError(res.conn, m.Error.Error())
	default:
		log.Printf("unexpected job result %T", res.msg)
	}
}

func (l *Loop) handleConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.HandoffPath != "" {
		l.handoffPath = cfg.HandoffPath
	}
	if _, ok := l.dispatcher.(handoff.SpawnDispatcher); ok && cfg.PreviewCommand != "" {
		l.dispatcher = handoff.SpawnDispatcher{Command: cfg.PreviewCommand}
	}
	if l.opts.Tracker != nil {
		chord, err := hotkey.ParseChord(cfg.Hotkey)
		if err != nil {
			log.Printf("Keeping hotkey %s: %v", l.opts.Tracker.Chord(), err)
		} else {
			l.opts.Tracker.SetChord(chord)
			log.Printf("Hotkey is now %s", chord)
		}
	}
}

func (l *Loop) setBusy(b bool) {
	l.busy = b
	if b {
		l.opts.Tooltip(busyTooltip)
	} else {
		l.opts.Tooltip(idleTooltip)
	}
}

// Busy reports whether a capture job is in flight. Coordinator goroutine only.
func (l *Loop) Busy() bool { return l.busy }

func respondError(conn singleinstance.Conn, msg string) {
	if conn == nil {
		return
	}
	_ = conn.RespondError(msg)
	_ = conn.Close()
}

func closeConn(conn singleinstance.Conn) {
	if conn != nil {
		_ = conn.Close()
	}
}
