// Package identity syncs signed-in user records to the upstream user store
// and decides whether a sync failure should block the session.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// User is the record pushed upstream after sign-in.
type User struct {
	Email     string
	Name      string
	AvatarURL string
	Subject   string // stable provider subject id
}

// ErrorKind classifies an upstream sync failure. Classification happens on
// the structured kind, never on message text.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindConflict
	KindUnavailable
	KindRateLimited
	KindInvalidRecord
	KindForbidden
)

// Error is a structured upstream failure.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("identity sync failure (kind %d)", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Decision is the outcome of classifying a sync failure.
type Decision int

const (
	// Allow lets the session proceed without a synced record.
	Allow Decision = iota
	// Block refuses the session.
	Block
)

// Classify maps a sync failure to Allow or Block. Transient upstream
// trouble never locks a user out; only a record the store actively refused
// does.
func Classify(err error) Decision {
	var se *Error
	if !errors.As(err, &se) {
		return Allow
	}
	switch se.Kind {
	case KindInvalidRecord, KindForbidden:
		return Block
	default:
		// NotFound and Conflict are normal create/update races;
		// Unavailable and RateLimited are transient.
		return Allow
	}
}

// retryable reports whether another attempt could succeed.
func retryable(err error) bool {
	var se *Error
	if !errors.As(err, &se) {
		return true
	}
	switch se.Kind {
	case KindUnavailable, KindRateLimited, KindUnknown:
		return true
	default:
		return false
	}
}

// Upstream is the user-store collaborator boundary.
type Upstream interface {
	Upsert(ctx context.Context, user User) error
}

// Syncer pushes user records upstream with bounded exponential retry.
type Syncer struct {
	upstream        Upstream
	log             *zap.Logger
	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
}

func NewSyncer(upstream Upstream, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{
		upstream:        upstream,
		log:             log,
		maxRetries:      3,
		initialInterval: 500 * time.Millisecond,
		maxInterval:     5 * time.Second,
	}
}

// Sync upserts the user record, retrying transient failures. The returned
// error, if any, has already been classified: callers should only refuse the
// session when Classify reports Block.
func (s *Syncer) Sync(ctx context.Context, user User) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.initialInterval
	policy.MaxInterval = s.maxInterval

	op := func() error {
		err := s.upstream.Upsert(ctx, user)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(policy, s.maxRetries), ctx))
	if err != nil {
		s.log.Warn("identity sync failed",
			zap.String("email", user.Email),
			zap.Bool("blocked", Classify(err) == Block),
			zap.Error(err))
		return err
	}
	return nil
}
