package restapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/sony/gobreaker"
)

type BreakerConfig struct {
	Name             string
	MaxRequests      uint32        // allowed while half-open
	Interval         time.Duration // failure count reset while closed, 0 = never
	Timeout          time.Duration // open -> half-open
	FailureThreshold uint32        // consecutive failures that trip the breaker
}

func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// Breaker guards one upstream service. Not-found responses do not count as failures.
type Breaker struct {
	cb     *gobreaker.CircuitBreaker
	name   string
	logger apt.Logger
}

func NewBreaker(cfg BreakerConfig, logger apt.Logger) *Breaker {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	b := &Breaker{name: cfg.Name, logger: logger}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Info("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return b
}

func (b *Breaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w for %s", ErrCircuitOpen, b.name)
	}
	return result, err
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
