package service

import (
	"context"

	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/domain"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/store"
)

// TokenService serves ranked, paginated reads against the token store.
type TokenService struct {
	store       store.TokenStore
	cursors     CursorCodec
	maxPageSize int
}

func NewTokenService(tokenStore store.TokenStore, cursors CursorCodec, maxPageSize int) *TokenService {
	return &TokenService{
		store:       tokenStore,
		cursors:     cursors,
		maxPageSize: maxPageSize,
	}
}

// List returns one page of records ordered by the requested ranking index.
// Cursors encode a rank offset, so they stay stable only for the lifetime of
// one generation; a page boundary crossing a refresh may observe score-based
// reordering.
func (s *TokenService) List(ctx context.Context, q domain.ListQuery) (domain.ListResult, error) {
	limit := q.Limit
	if limit < 1 {
		limit = 1
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	start := 0
	if q.Cursor != "" {
		var err error
		if start, err = s.cursors.Decode(q.Cursor); err != nil {
			return domain.ListResult{}, err
		}
	}

	// One extra rank is fetched purely to detect whether a next page exists.
	addresses, err := s.store.RangeByRank(ctx, q.SortBy, q.Period, q.SortDir, start, limit)
	if err != nil {
		return domain.ListResult{}, err
	}

	hasMore := len(addresses) > limit
	if hasMore {
		addresses = addresses[:limit]
	}

	items := make([]domain.TokenRecord, 0, len(addresses))
	for _, address := range addresses {
		record, ok, err := s.store.Get(ctx, address)
		if err != nil {
			return domain.ListResult{}, err
		}
		if !ok {
			// Expired between the range read and the lookup; the page
			// legitimately shrinks.
			continue
		}
		items = append(items, record)
	}

	result := domain.ListResult{Items: items}
	if hasMore {
		result.NextCursor = s.cursors.Encode(start + limit)
	}
	return result, nil
}

// GetToken is a pass-through to the store's point lookup. A miss is an
// ordinary outcome, not an error.
func (s *TokenService) GetToken(ctx context.Context, address string) (domain.TokenRecord, bool, error) {
	return s.store.Get(ctx, address)
}
