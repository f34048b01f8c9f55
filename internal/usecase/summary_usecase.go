package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pmholt/budgeteer/internal/domain"
	"github.com/pmholt/budgeteer/internal/infrastructure/metrics"
	"github.com/pmholt/budgeteer/internal/projection"
)

const summaryCachePrefix = "summary:"

// SummaryCacheInvalidator drops a user's cached summary after any ledger
// mutation. Safe to use with a nil receiver or nil cache (caching disabled).
type SummaryCacheInvalidator struct {
	cache Cache
}

// NewSummaryCacheInvalidator creates a new SummaryCacheInvalidator.
func NewSummaryCacheInvalidator(cache Cache) *SummaryCacheInvalidator {
	return &SummaryCacheInvalidator{cache: cache}
}

// Invalidate removes the cached summary for a user. Cache errors are logged
// and swallowed; a stale delete must never fail a write.
func (i *SummaryCacheInvalidator) Invalidate(ctx context.Context, ownerID string) {
	if i == nil || i.cache == nil {
		return
	}
	if err := i.cache.Delete(ctx, summaryCachePrefix+ownerID); err != nil {
		log.Warn().Err(err).Str("owner_id", ownerID).Msg("failed to invalidate summary cache")
	}
}

// SummaryUseCase computes the balance projection for a user.
type SummaryUseCase struct {
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	recurringRepo   RecurringRepository
	cache           Cache
	cacheTTL        time.Duration
	clock           Clock
}

// NewSummaryUseCase creates a new SummaryUseCase. A nil cache disables
// caching.
func NewSummaryUseCase(
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	recurringRepo RecurringRepository,
	cache Cache,
	cacheTTL time.Duration,
	clock Clock,
) *SummaryUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &SummaryUseCase{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		recurringRepo:   recurringRepo,
		cache:           cache,
		cacheTTL:        cacheTTL,
		clock:           clock,
	}
}

// GetSummary returns the projection summary for the owner, computed against
// today's date. The result is cached per user for a short TTL; every mutating
// use case invalidates it.
func (uc *SummaryUseCase) GetSummary(ctx context.Context, ownerID string) (*projection.Summary, error) {
	cacheKey := summaryCachePrefix + ownerID

	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, cacheKey); err == nil && data != nil {
			var cached projection.Summary
			if err := json.Unmarshal(data, &cached); err == nil {
				metrics.SummaryCacheHits.Inc()
				return &cached, nil
			}
		}
	}

	today := domain.DateOf(uc.clock())
	summary, err := uc.compute(ctx, ownerID, today)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, data, uc.cacheTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache summary")
			}
		}
	}

	return summary, nil
}

func (uc *SummaryUseCase) compute(ctx context.Context, ownerID string, today domain.Date) (*projection.Summary, error) {
	accounts, err := uc.accountRepo.List(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}

	transactions, err := uc.transactionRepo.List(ctx, ownerID, 0)
	if err != nil {
		return nil, err
	}

	recurrings, err := uc.recurringRepo.List(ctx, ownerID, "")
	if err != nil {
		return nil, err
	}

	summary := projection.Project(projection.Input{
		Today:        today,
		Accounts:     accounts,
		Transactions: transactions,
		Recurrings:   recurrings,
	})

	metrics.SummariesComputed.Inc()

	return &summary, nil
}
