package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.Mode != BackoffLinear {
		t.Fatalf("expected linear default mode got %s", p.Mode)
	}
	if p.MaxRetries != 2 {
		t.Fatalf("expected max retries 2 got %d", p.MaxRetries)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("default policy invalid: %v", err)
	}
}

func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(BackoffFixed, 5*time.Second, 2*time.Second, 5)
	if p.Initial != 2*time.Second {
		t.Fatalf("expected clamped initial 2s got %v", p.Initial)
	}
	if p.Mode != BackoffFixed {
		t.Fatalf("expected fixed mode got %s", p.Mode)
	}
	if p.MaxRetries != 5 {
		t.Fatalf("expected maxRetries 5 got %d", p.MaxRetries)
	}

	p = NewPolicy("bogus", 0, 0, -1)
	if p != DefaultPolicy() {
		t.Fatalf("expected defaults for invalid input got %+v", p)
	}
}

func TestDelayModes(t *testing.T) {
	cases := []struct {
		mode BackoffMode
		want []time.Duration
	}{
		{BackoffFixed, []time.Duration{100, 100, 100, 100}},
		{BackoffLinear, []time.Duration{100, 200, 300, 350}},
		{BackoffExponential, []time.Duration{100, 200, 350, 350}},
	}
	for _, tc := range cases {
		p := NewPolicy(tc.mode, 100*time.Millisecond, 350*time.Millisecond, 4)
		for i, want := range tc.want {
			if d := p.Delay(i + 1); d != want*time.Millisecond {
				t.Errorf("%s attempt %d expected %v got %v", tc.mode, i+1, want*time.Millisecond, d)
			}
		}
		if d := p.Delay(0); d != 0 {
			t.Errorf("%s attempt 0 expected 0 got %v", tc.mode, d)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := (Policy{Initial: 0, Max: time.Second}).Validate(); err == nil {
		t.Fatal("expected error for zero initial")
	}
	if err := (Policy{Initial: time.Second, Max: 0}).Validate(); err == nil {
		t.Fatal("expected error for zero max")
	}
	if err := (Policy{Initial: time.Second, Max: time.Second, MaxRetries: -1}).Validate(); err == nil {
		t.Fatal("expected error for negative retries")
	}
}

var errTransient = errors.New("transient")

func TestDo(t *testing.T) {
	p := NewPolicy(BackoffFixed, time.Millisecond, time.Millisecond, 2)
	transient := func(err error) bool { return errors.Is(err, errTransient) }

	calls := 0
	err := p.Do(context.Background(), transient, func() error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("expected success after 3 calls, got err=%v calls=%d", err, calls)
	}

	calls = 0
	err = p.Do(context.Background(), transient, func() error { calls++; return errTransient })
	if !errors.Is(err, errTransient) || calls != 3 {
		t.Fatalf("expected exhausted retries after 3 calls, got err=%v calls=%d", err, calls)
	}

	calls = 0
	permanent := errors.New("permanent")
	err = p.Do(context.Background(), transient, func() error { calls++; return permanent })
	if !errors.Is(err, permanent) || calls != 1 {
		t.Fatalf("expected no retry for permanent error, got err=%v calls=%d", err, calls)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls = 0
	slow := NewPolicy(BackoffFixed, time.Hour, time.Hour, 3)
	err = slow.Do(ctx, transient, func() error { calls++; return errTransient })
	if !errors.Is(err, errTransient) || calls != 1 {
		t.Fatalf("expected canceled retry after 1 call, got err=%v calls=%d", err, calls)
	}
}
