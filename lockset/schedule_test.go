package lockset

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/curtisnewbie/lockset/util/errs"
)

func TestSchedule(t *testing.T) {
	var yoc int32 = 0
	var noc int32 = 0

	s := NewScheduler()
	err := s.Schedule(Job{
		Name:       "yo",
		Every:      50 * time.Millisecond,
		LogJobExec: true,
		Run: func() error {
			atomic.AddInt32(&yoc, 1)
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	err = s.Schedule(Job{
		Name:  "no",
		Every: 50 * time.Millisecond,
		Run: func() error {
			atomic.AddInt32(&noc, 1)
			return errors.New("no")
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 jobs, actual: %v", s.Len())
	}

	s.StartAsync()
	time.Sleep(500 * time.Millisecond)
	s.Stop()

	if atomic.LoadInt32(&yoc) < 1 {
		t.Error(yoc)
	}
	if atomic.LoadInt32(&noc) < 1 {
		t.Error(noc)
	}
	t.Logf("yoc: %v, noc: %v", atomic.LoadInt32(&yoc), atomic.LoadInt32(&noc))
}

func TestScheduleInvalidInterval(t *testing.T) {
	s := NewScheduler()
	err := s.Schedule(Job{Name: "never", Run: func() error { return nil }})
	if !errors.Is(err, errs.ErrIllegalArgument) {
		t.Fatalf("expected ErrIllegalArgument, actual: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected no job, actual: %v", s.Len())
	}
}
