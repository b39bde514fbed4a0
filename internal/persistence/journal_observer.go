package persistence

import (
	"context"
	"log/slog"
	"time"

	"github.com/petrijr/exclusive/pkg/api"
)

// JournalObserver records worker activity into a Journal. Append failures
// are logged and otherwise ignored; the worker never sees them.
type JournalObserver struct {
	api.NoopObserver

	journal Journal
	logger  *slog.Logger
	now     func() time.Time
}

var _ api.Observer = (*JournalObserver)(nil)

// NewJournalObserver wraps j. A nil logger means slog.Default().
func NewJournalObserver(j Journal, logger *slog.Logger) *JournalObserver {
	if j == nil {
		j = NoopJournal{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &JournalObserver{journal: j, logger: logger, now: time.Now}
}

func (o *JournalObserver) OnWorkerStart(ctx context.Context, worker string) {
	o.append(ctx, api.TaskEvent{Worker: worker, Type: api.EventWorkerStarted})
}

func (o *JournalObserver) OnWorkerStop(ctx context.Context, worker string) {
	o.append(ctx, api.TaskEvent{Worker: worker, Type: api.EventWorkerStopped})
}

func (o *JournalObserver) OnTaskCompleted(ctx context.Context, info api.TaskInfo, err error, d time.Duration) {
	ev := api.TaskEvent{
		Worker:   info.Worker,
		TaskID:   info.ID,
		Seq:      info.Seq,
		Type:     api.EventTaskCompleted,
		Duration: d,
	}
	if err != nil {
		ev.Type = api.EventTaskFailed
		// PanicError.Error omits the stack.
		ev.Detail = err.Error()
	}
	o.append(ctx, ev)
}

func (o *JournalObserver) OnTaskThrottled(ctx context.Context, info api.TaskInfo, wait time.Duration) {
	o.append(ctx, api.TaskEvent{
		Worker:   info.Worker,
		TaskID:   info.ID,
		Seq:      info.Seq,
		Type:     api.EventTaskThrottled,
		Duration: wait,
	})
}

func (o *JournalObserver) append(ctx context.Context, ev api.TaskEvent) {
	ev.At = o.now()
	if err := o.journal.Append(ctx, ev); err != nil {
		o.logger.WarnContext(ctx, "journal_append_failed",
			slog.String("worker", ev.Worker),
			slog.String("type", string(ev.Type)),
			slog.Uint64("seq", ev.Seq),
			slog.Any("error", err),
		)
	}
}
