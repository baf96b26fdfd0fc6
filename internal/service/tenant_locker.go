package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type generationLockStore interface {
	Acquire(ctx context.Context, schoolID, token string, ttl time.Duration) (bool, error)
	Extend(ctx context.Context, schoolID, token string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, schoolID, token string) error
}

// TenantLockerConfig tunes lock acquisition.
type TenantLockerConfig struct {
	TTL   time.Duration
	Retry time.Duration
	Wait  time.Duration
}

// TenantLocker serialises timetable generation per school. A per-school
// semaphore covers this process; the optional store extends it across replicas.
// A held store lock is renewed every TTL/3 until released, so a generation
// may outlive the TTL.
type TenantLocker struct {
	mu     sync.Mutex
	local  map[string]chan struct{}
	store  generationLockStore
	cfg    TenantLockerConfig
	logger *zap.Logger
}

// NewTenantLocker builds a locker. store may be nil for single-instance deployments.
func NewTenantLocker(store generationLockStore, cfg TenantLockerConfig, logger *zap.Logger) *TenantLocker {
	if cfg.TTL <= 0 {
		cfg.TTL = 2 * time.Minute
	}
	if cfg.Retry <= 0 {
		cfg.Retry = 250 * time.Millisecond
	}
	if cfg.Wait <= 0 {
		cfg.Wait = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TenantLocker{local: make(map[string]chan struct{}), store: store, cfg: cfg, logger: logger}
}

// Lock blocks until the school is free, the wait budget runs out or ctx is
// done. The returned release func must be called exactly once.
func (l *TenantLocker) Lock(ctx context.Context, schoolID string) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, l.cfg.Wait)
	defer cancel()

	sem := l.semaphore(schoolID)
	select {
	case sem <- struct{}{}:
	case <-waitCtx.Done():
		l.logger.Info("generation lock busy", zap.String("school_id", schoolID), zap.String("scope", "local"))
		return nil, appErrors.ErrGenerationInProgress
	}
	unlockLocal := func() { <-sem }

	if l.store == nil {
		return unlockLocal, nil
	}

	token := uuid.NewString()
	if err := l.acquireRemote(waitCtx, schoolID, token); err != nil {
		unlockLocal()
		return nil, err
	}

	stop := make(chan struct{})
	renewed := make(chan struct{})
	go l.renew(schoolID, token, stop, renewed)

	return func() {
		close(stop)
		<-renewed

		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := l.store.Release(releaseCtx, schoolID, token); err != nil {
			l.logger.Warn("release generation lock failed", zap.String("school_id", schoolID), zap.Error(err))
		}
		unlockLocal()
	}, nil
}

// renew extends the store lock until stop is closed. A lost lock is logged and
// renewal ends; the holder keeps its local slot.
func (l *TenantLocker) renew(schoolID, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := l.cfg.TTL / 3
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), interval)
		ok, err := l.store.Extend(ctx, schoolID, token, l.cfg.TTL)
		cancel()
		switch {
		case err != nil:
			l.logger.Warn("extend generation lock failed", zap.String("school_id", schoolID), zap.Error(err))
		case !ok:
			l.logger.Error("generation lock lost before release", zap.String("school_id", schoolID))
			return
		}
	}
}

func (l *TenantLocker) acquireRemote(ctx context.Context, schoolID, token string) error {
	ticker := time.NewTicker(l.cfg.Retry)
	defer ticker.Stop()

	for {
		ok, err := l.store.Acquire(ctx, schoolID, token, l.cfg.TTL)
		if err != nil && ctx.Err() == nil {
			return appErrors.Wrap(err, appErrors.ErrServiceUnavailable.Code, appErrors.ErrServiceUnavailable.Status, "failed to acquire generation lock")
		}
		if ok {
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			l.logger.Info("generation lock busy", zap.String("school_id", schoolID), zap.String("scope", "cluster"))
			return appErrors.ErrGenerationInProgress
		}
	}
}

// semaphore returns the school's slot, creating it on first use. Entries are
// never evicted; there is one per school seen by this process.
func (l *TenantLocker) semaphore(schoolID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	sem, ok := l.local[schoolID]
	if !ok {
		sem = make(chan struct{}, 1)
		l.local[schoolID] = sem
	}
	return sem
}
