// Package journaltest holds the behavioural suite every persistence.Journal
// backend is expected to pass.
package journaltest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/petrijr/exclusive/internal/persistence"
	"github.com/petrijr/exclusive/pkg/api"
)

// Suite exercises a Journal. NewJournal is called before every test with
// that test's *testing.T and must return an empty journal.
type Suite struct {
	suite.Suite

	NewJournal func(t *testing.T) persistence.Journal

	journal persistence.Journal
	ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.ctx = context.Background()
	s.journal = s.NewJournal(s.T())
	s.Require().NotNil(s.journal)
}

func (s *Suite) TestListUnknownWorkerIsEmpty() {
	events, err := s.journal.List(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(events)
}

func (s *Suite) TestAppendAndListPreservesOrder() {
	base := time.Unix(1_700_000_000, 0)

	for i := 1; i <= 5; i++ {
		err := s.journal.Append(s.ctx, api.TaskEvent{
			Worker:   "counter",
			TaskID:   fmt.Sprintf("task-%d", i),
			Seq:      uint64(i),
			Type:     api.EventTaskCompleted,
			At:       base.Add(time.Duration(i) * time.Millisecond),
			Duration: time.Duration(i) * time.Microsecond,
		})
		s.Require().NoError(err)
	}

	events, err := s.journal.List(s.ctx, "counter")
	s.Require().NoError(err)
	s.Require().Len(events, 5)

	for i, ev := range events {
		n := i + 1
		s.Equal("counter", ev.Worker)
		s.Equal(fmt.Sprintf("task-%d", n), ev.TaskID)
		s.Equal(uint64(n), ev.Seq)
		s.Equal(api.EventTaskCompleted, ev.Type)
		s.True(ev.At.Equal(base.Add(time.Duration(n)*time.Millisecond)), "event %d at %v", n, ev.At)
		s.Equal(time.Duration(n)*time.Microsecond, ev.Duration)
	}
}

func (s *Suite) TestWorkersAreIsolated() {
	s.Require().NoError(s.journal.Append(s.ctx, api.TaskEvent{Worker: "a", Type: api.EventWorkerStarted}))
	s.Require().NoError(s.journal.Append(s.ctx, api.TaskEvent{Worker: "b", Type: api.EventWorkerStarted}))
	s.Require().NoError(s.journal.Append(s.ctx, api.TaskEvent{Worker: "a", Type: api.EventWorkerStopped}))

	a, err := s.journal.List(s.ctx, "a")
	s.Require().NoError(err)
	s.Require().Len(a, 2)
	s.Equal(api.EventWorkerStarted, a[0].Type)
	s.Equal(api.EventWorkerStopped, a[1].Type)

	b, err := s.journal.List(s.ctx, "b")
	s.Require().NoError(err)
	s.Require().Len(b, 1)
}

func (s *Suite) TestFailureDetailRoundTrips() {
	s.Require().NoError(s.journal.Append(s.ctx, api.TaskEvent{
		Worker: "w",
		TaskID: "t",
		Seq:    7,
		Type:   api.EventTaskFailed,
		Detail: "exclusive: task panicked: runtime error: integer divide by zero",
	}))

	events, err := s.journal.List(s.ctx, "w")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(api.EventTaskFailed, events[0].Type)
	s.Equal("exclusive: task panicked: runtime error: integer divide by zero", events[0].Detail)
	s.False(events[0].At.IsZero(), "missing timestamp should be filled in")
}

func (s *Suite) TestMissingWorkerIsRejected() {
	err := s.journal.Append(s.ctx, api.TaskEvent{Type: api.EventTaskCompleted})
	s.ErrorIs(err, persistence.ErrMissingWorker)
}
