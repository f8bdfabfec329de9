package scheduler_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/scheduler"
)

type fakeTriggers struct {
	recomputes int
	sweeps     int
}

func (f *fakeTriggers) TriggerFullRecompute(_ context.Context, _ int) error {
	f.recomputes++
	return nil
}

func (f *fakeTriggers) TriggerVettingSweep(_ context.Context) error {
	f.sweeps++
	return nil
}

func TestStart_AcceptsValidSpecs(t *testing.T) {
	s := scheduler.New(&fakeTriggers{}, scheduler.Config{
		RecomputeSpec: "0 2 * * *",
		VettingSpec:   "0 4 * * *",
	}, zap.NewNop())
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}

func TestStart_RejectsMalformedSpec(t *testing.T) {
	cases := []scheduler.Config{
		{RecomputeSpec: "not a spec", VettingSpec: "0 4 * * *"},
		{RecomputeSpec: "0 2 * * *", VettingSpec: "99 99 * * *"},
	}
	for _, cfg := range cases {
		s := scheduler.New(&fakeTriggers{}, cfg, zap.NewNop())
		if err := s.Start(context.Background()); err == nil {
			t.Errorf("Start accepted config %+v", cfg)
			s.Stop()
		}
	}
}

// Starting twice must not double the schedules.
func TestStart_Idempotent(t *testing.T) {
	s := scheduler.New(&fakeTriggers{}, scheduler.Config{
		RecomputeSpec: "@every 1h",
		VettingSpec:   "@every 2h",
	}, zap.NewNop())
	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := s.Start(ctx); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	s.Stop()
}
