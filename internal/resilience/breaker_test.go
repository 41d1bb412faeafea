package resilience

import (
	"errors"
	"testing"
	"time"
)

var errFeed = errors.New("feed down")

func failingConfig() Config {
	return Config{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		Cooldown:         50 * time.Millisecond,
	}
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b := NewBreaker("test", failingConfig())

	for i := 0; i < 3; i++ {
		if err := b.Do(func() error { return errFeed }); !errors.Is(err, errFeed) {
			t.Fatalf("attempt %d: err = %v, want errFeed", i, err)
		}
	}

	if got := b.State(); got != StateOpen {
		t.Fatalf("state = %s, want OPEN", got)
	}
	if err := b.Do(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("err = %v, want ErrCircuitOpen", err)
	}

	_, _, rejected := b.Stats()
	if rejected != 1 {
		t.Errorf("rejected = %d, want 1", rejected)
	}
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	b := NewBreaker("test", failingConfig())

	for i := 0; i < 3; i++ {
		b.Do(func() error { return errFeed })
	}
	time.Sleep(60 * time.Millisecond)

	// Two successes in half-open close the circuit.
	for i := 0; i < 2; i++ {
		if err := b.Do(func() error { return nil }); err != nil {
			t.Fatalf("probe %d failed: %v", i, err)
		}
	}
	if got := b.State(); got != StateClosed {
		t.Errorf("state = %s, want CLOSED", got)
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b := NewBreaker("test", failingConfig())

	for i := 0; i < 3; i++ {
		b.Do(func() error { return errFeed })
	}
	time.Sleep(60 * time.Millisecond)

	b.Do(func() error { return errFeed })

	if err := b.Do(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("err = %v, want ErrCircuitOpen after failed probe", err)
	}
}

func TestDoWithResult(t *testing.T) {
	b := NewBreaker("test", failingConfig())

	got, err := DoWithResult(b, func() (int, error) { return 42, nil })
	if err != nil || got != 42 {
		t.Errorf("DoWithResult = %d, %v; want 42, nil", got, err)
	}

	_, err = DoWithResult(b, func() (int, error) { return 0, errFeed })
	if !errors.Is(err, errFeed) {
		t.Errorf("err = %v, want errFeed", err)
	}
}
