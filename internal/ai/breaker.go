package ai

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/GobLyne/ECommerce/pkg/logger"
)

// BreakerClient wraps a Client with a circuit breaker so a dead upstream
// fails fast instead of holding a connection per chat request.
type BreakerClient struct {
	inner Client
	cb    *gobreaker.CircuitBreaker[string]
}

func NewBreakerClient(inner Client) *BreakerClient {
	settings := gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerClient{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[string](settings),
	}
}

func (b *BreakerClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.inner.GenerateText(ctx, prompt)
	})
}
