package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

var ErrOpen = errors.New("circuit breaker open")

// Settings configures a breaker.
type Settings struct {
	Name        string
	MaxFailures int
	Timeout     time.Duration
}

// CircuitBreaker trips after MaxFailures consecutive failures and
// stays open for Timeout before allowing a probe call through.
type CircuitBreaker struct {
	mu        sync.Mutex
	settings  Settings
	failures  int
	openUntil time.Time
}

func New(settings Settings) *CircuitBreaker {
	if settings.MaxFailures <= 0 {
		settings.MaxFailures = 5
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 10 * time.Second
	}
	return &CircuitBreaker{settings: settings}
}

// Execute runs fn unless the breaker is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if time.Now().Before(cb.openUntil) {
		cb.mu.Unlock()
		return ErrOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failures++
		if cb.failures >= cb.settings.MaxFailures {
			cb.openUntil = time.Now().Add(cb.settings.Timeout)
			cb.failures = 0
		}
		return err
	}
	cb.failures = 0
	return nil
}
