// Package resilience provides a circuit breaker guarding calls to the
// market data provider. Repeated failures open the circuit so a struggling
// feed is not hammered with retries for every ticker in a batch.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// State represents the state of a circuit breaker.
type State string

const (
	StateClosed   State = "CLOSED"    // normal operation
	StateOpen     State = "OPEN"      // failing, rejecting requests
	StateHalfOpen State = "HALF_OPEN" // probing whether the feed recovered
)

// ErrCircuitOpen is returned when the circuit is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Config holds circuit breaker configuration.
type Config struct {
	// FailureThreshold is the number of consecutive failures before opening.
	FailureThreshold int
	// SuccessThreshold is the number of successes in half-open state to close.
	SuccessThreshold int
	// Cooldown is how long to wait before probing an open circuit.
	Cooldown time.Duration
}

// DefaultConfig returns defaults sized for a batch of provider fetches.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Cooldown:         30 * time.Second,
	}
}

// Breaker implements the circuit breaker pattern.
type Breaker struct {
	name   string
	config Config

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	lastFailure time.Time

	totalRequests int64
	totalFailures int64
	totalRejected int64
}

// NewBreaker creates a circuit breaker with the given name.
func NewBreaker(name string, config Config) *Breaker {
	return &Breaker{
		name:   name,
		config: config,
		state:  StateClosed,
	}
}

// Do runs fn with circuit breaker protection.
func (b *Breaker) Do(fn func() error) error {
	if err := b.allow(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		b.recordFailure()
		return err
	}
	b.recordSuccess()
	return nil
}

// DoWithResult runs a function returning a result with breaker protection.
func DoWithResult[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	if err := b.allow(); err != nil {
		return zero, err
	}
	result, err := fn()
	if err != nil {
		b.recordFailure()
		return zero, err
	}
	b.recordSuccess()
	return result, nil
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && time.Since(b.lastFailure) > b.config.Cooldown {
		return StateHalfOpen
	}
	return b.state
}

// Stats reports request counters since creation.
func (b *Breaker) Stats() (requests, failures, rejected int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.totalRequests, b.totalFailures, b.totalRejected
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if time.Since(b.lastFailure) > b.config.Cooldown {
			b.state = StateHalfOpen
			b.successes = 0
		} else {
			b.totalRejected++
			return ErrCircuitOpen
		}
	}

	b.totalRequests++
	return nil
}

func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.totalFailures++
	b.lastFailure = time.Now()

	switch b.state {
	case StateHalfOpen:
		b.state = StateOpen
		b.failures = 0
	default:
		b.failures++
		if b.failures >= b.config.FailureThreshold {
			b.state = StateOpen
			b.failures = 0
		}
	}
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			b.state = StateClosed
			b.failures = 0
			b.successes = 0
		}
	case StateClosed:
		b.failures = 0
	}
}
