package aggregator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/domain"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/provider/dexscreener"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/provider/jupiter"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/store"
)

// DexScreenerProvider fetches raw pairs for a search query.
type DexScreenerProvider interface {
	Search(ctx context.Context, query string) ([]dexscreener.Pair, error)
}

// JupiterProvider fetches raw tokens for a search query.
type JupiterProvider interface {
	Search(ctx context.Context, query string) ([]jupiter.Token, error)
}

// Aggregator drives refresh cycles: fetch both providers concurrently, merge,
// persist the generation, swap the snapshot cache and notify subscribers.
// At most one cycle runs at a time; triggers that arrive mid-cycle are
// dropped, never queued.
type Aggregator struct {
	dex   DexScreenerProvider
	jup   JupiterProvider
	store store.TokenStore
	cache *store.SnapshotCache

	broadcaster *Broadcaster
	logger      *logrus.Entry

	dexQuery string
	jupQuery string

	refreshing atomic.Bool
	now        func() time.Time
}

func New(dex DexScreenerProvider, jup JupiterProvider, tokenStore store.TokenStore, cache *store.SnapshotCache, dexQuery, jupQuery string, logger *logrus.Entry) *Aggregator {
	return &Aggregator{
		dex:         dex,
		jup:         jup,
		store:       tokenStore,
		cache:       cache,
		broadcaster: NewBroadcaster(),
		logger:      logger,
		dexQuery:    dexQuery,
		jupQuery:    jupQuery,
		now:         time.Now,
	}
}

// Refresh runs one full cycle. Any provider or persistence failure aborts
// the cycle without touching the previous generation, which keeps serving
// reads. A call while another cycle is in flight is a no-op.
func (a *Aggregator) Refresh(ctx context.Context) error {
	if !a.refreshing.CompareAndSwap(false, true) {
		a.logger.Debug("Refresh already in flight, dropping trigger")
		return nil
	}
	defer a.refreshing.Store(false)

	var (
		wg     sync.WaitGroup
		pairs  []dexscreener.Pair
		tokens []jupiter.Token
		dexErr error
		jupErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		pairs, dexErr = a.dex.Search(ctx, a.dexQuery)
	}()
	go func() {
		defer wg.Done()
		tokens, jupErr = a.jup.Search(ctx, a.jupQuery)
	}()
	wg.Wait()

	if dexErr != nil {
		a.logger.WithError(dexErr).Error("Refresh aborted: DexScreener fetch failed")
		return fmt.Errorf("dexscreener fetch: %w", dexErr)
	}
	if jupErr != nil {
		a.logger.WithError(jupErr).Error("Refresh aborted: Jupiter fetch failed")
		return fmt.Errorf("jupiter fetch: %w", jupErr)
	}

	merged := Merge(pairs, tokens, a.now())

	records := make([]domain.TokenRecord, 0, len(merged))
	for _, record := range merged {
		records = append(records, record)
	}

	if err := a.store.Persist(ctx, records); err != nil {
		a.logger.WithError(err).Error("Refresh aborted: persistence failed")
		return fmt.Errorf("persisting generation: %w", err)
	}

	a.cache.Replace(merged)
	a.broadcaster.publish(records)

	a.logger.WithField("count", len(records)).Info("Aggregator refresh complete")
	return nil
}

// Subscribe attaches a push-transport subscriber to the snapshot feed.
func (a *Aggregator) Subscribe() (<-chan []domain.TokenRecord, func()) {
	return a.broadcaster.Subscribe()
}

// Snapshot returns the current in-memory generation, for late-joiner
// catch-up.
func (a *Aggregator) Snapshot() []domain.TokenRecord {
	return a.cache.All()
}
