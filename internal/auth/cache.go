package auth

import "context"

// GrantCache memoises a user's explicit grants between requests.
type GrantCache interface {
	Get(ctx context.Context, userID int64) ([]Code, bool, error)
	Set(ctx context.Context, userID int64, codes []Code) error
	Invalidate(ctx context.Context, userID int64) error
}

type noopGrantCache struct{}

// NewNoopGrantCache always misses; used when redis is disabled.
func NewNoopGrantCache() GrantCache {
	return noopGrantCache{}
}

func (noopGrantCache) Get(context.Context, int64) ([]Code, bool, error) {
	return nil, false, nil
}

func (noopGrantCache) Set(context.Context, int64, []Code) error {
	return nil
}

func (noopGrantCache) Invalidate(context.Context, int64) error {
	return nil
}
