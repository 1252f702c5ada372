package usecase

import (
	"context"
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"
)

// OutcomePolicy decides whether a deposit settles successfully. The legacy
// system rolled a global die inline; making the policy injectable lets tests
// control outcomes exactly.
type OutcomePolicy interface {
	Settle(ctx context.Context, ownerID string, amount decimal.Decimal) bool
}

// RandomOutcomePolicy settles deposits with a fixed success rate.
type RandomOutcomePolicy struct {
	mu          sync.Mutex
	rng         *rand.Rand
	successRate float64
}

// NewRandomOutcomePolicy creates a policy that succeeds with the given rate.
// Rates outside [0,1] are clamped.
func NewRandomOutcomePolicy(successRate float64, seed int64) *RandomOutcomePolicy {
	if successRate < 0 {
		successRate = 0
	}

	if successRate > 1 {
		successRate = 1
	}

	return &RandomOutcomePolicy{
		rng:         rand.New(rand.NewSource(seed)),
		successRate: successRate,
	}
}

// Settle rolls against the configured success rate.
func (p *RandomOutcomePolicy) Settle(_ context.Context, _ string, _ decimal.Decimal) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.rng.Float64() < p.successRate
}

// StaticOutcomePolicy always returns the same outcome. Used by tests and by
// deployments that do not simulate settlement failures.
type StaticOutcomePolicy bool

// Settle returns the fixed outcome.
func (p StaticOutcomePolicy) Settle(context.Context, string, decimal.Decimal) bool {
	return bool(p)
}
