package domain

import "context"

// Service produces mode recommendations. It only informs the actor;
// committing a change is the transition service's job. Neither entry
// point returns an error: remote failures resolve to the local fallback
// and are logged, never surfaced.
type Service interface {
	RecommendFromUsage(ctx context.Context, signals UsageSignals) Recommendation
	RecommendFromIntent(ctx context.Context, req IntentRequest) Recommendation
}
