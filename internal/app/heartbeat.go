package app

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"tglogger/internal/config"
	"tglogger/pkg/logx"
	"tglogger/pkg/tglog"
)

const heartbeatTimeout = 30 * time.Second

// heartbeat sends pipe.heartbeat_text on the pipe.heartbeat schedule while a
// pipe is running.
type heartbeat struct {
	mu     sync.Mutex
	active bool
	c      *cron.Cron
}

func (h *heartbeat) start(r *Runner, pc config.PipeConfig) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active = true
	h.scheduleLocked(r, pc)
}

// reschedule replaces the running schedule; no-op when no pipe is running.
func (h *heartbeat) reschedule(r *Runner, pc config.PipeConfig) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active {
		h.scheduleLocked(r, pc)
	}
}

func (h *heartbeat) stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active = false
	h.stopLocked()
}

func (h *heartbeat) stopLocked() {
	if h.c == nil {
		return
	}
	// wait for a running job so no heartbeat is sent after stop returns
	<-h.c.Stop().Done()
	h.c = nil
}

func (h *heartbeat) scheduleLocked(r *Runner, pc config.PipeConfig) {
	h.stopLocked()
	if pc.Heartbeat == "" {
		return
	}
	sched, err := cron.ParseStandard(pc.Heartbeat)
	if err != nil {
		r.log.Warn("invalid heartbeat schedule", logx.String("spec", pc.Heartbeat), logx.Err(err))
		return
	}

	text := pc.HeartbeatText
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(sched, cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), heartbeatTimeout)
		defer cancel()
		if err := r.Send(ctx, tglog.KindDebug, text); err != nil {
			r.log.Warn("heartbeat failed", logx.Err(err))
		}
	}))
	c.Start()
	h.c = c
	r.log.Debug("heartbeat scheduled", logx.String("spec", pc.Heartbeat))
}
