package app

import (
	"context"

	"tglogger/internal/config"
	"tglogger/internal/runtime/supervisor"
	"tglogger/pkg/logx"
)

// Watch hot-reloads m's config file into the runner until ctx is done or
// the returned stop function is called.
func (r *Runner) Watch(ctx context.Context, m *config.Manager) (stop func(context.Context) error) {
	m.SetLogger(r.root.With(logx.String("component", "config")))
	// a dead watcher ends the reload loop too
	sup := supervisor.New(ctx, supervisor.WithLogger(r.log), supervisor.WithCancelOnError(true))

	sub := m.Subscribe(1)
	sup.Go0("config.reload", func(c context.Context) {
		defer m.Unsubscribe(sub)
		for {
			select {
			case <-c.Done():
				return
			case cfg, ok := <-sub:
				if !ok {
					return
				}
				// error already logged; the previous config stays in effect
				_ = r.Apply(c, cfg)
			}
		}
	})
	sup.Go("config.watch", m.Watch)
	r.log.Info("watching config", logx.String("path", m.Path()))

	return func(c context.Context) error {
		err := sup.Stop(c)
		n := sup.Counters()
		r.log.Debug("config watch stopped", logx.Int64("active", n.Active), logx.Int("started", int(n.Started)), logx.Err(err))
		return err
	}
}
