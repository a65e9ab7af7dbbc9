package ports

import "context"

// SigninLimiter throttles repeated failed signin attempts per email.
type SigninLimiter interface {
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
