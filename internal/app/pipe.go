package app

import (
	"bufio"
	"context"
	"io"

	"github.com/coreos/go-systemd/v22/daemon"

	"tglogger/pkg/logx"
	"tglogger/pkg/tglog"
)

const maxPipeLine = 1 << 20

// PipeStats counts what Pipe did with its input.
type PipeStats struct {
	Lines  int `json:"lines"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Pipe forwards every non-empty line of in as one message of the configured
// pipe kind, until EOF or ctx is done. A line that fails to send is logged
// and counted, never retried. The heartbeat runs while Pipe does.
func (r *Runner) Pipe(ctx context.Context, in io.Reader) (PipeStats, error) {
	var st PipeStats

	r.hb.start(r, r.Config().Pipe)
	defer r.hb.stop()

	r.sdNotify(daemon.SdNotifyReady)
	defer r.sdNotify(daemon.SdNotifyStopping)

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		sc.Buffer(make([]byte, 0, 64*1024), maxPipeLine)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	r.log.Info("pipe started", logx.String("kind", r.Config().Pipe.Kind))
	defer func() {
		r.log.Info("pipe stopped", logx.Int("lines", st.Lines), logx.Int("sent", st.Sent), logx.Int("failed", st.Failed))
	}()

	for {
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return st, err
				default:
					return st, ctx.Err()
				}
			}
			args := ParseLine(line)
			if len(args) == 0 {
				continue
			}
			st.Lines++
			kind, _ := tglog.ParseKind(r.Config().Pipe.Kind)
			if err := r.Send(ctx, kind, args...); err != nil {
				st.Failed++
				r.log.Warn("pipe line not delivered", logx.Int("line", st.Lines), logx.Err(err))
				continue
			}
			st.Sent++
		}
	}
}
