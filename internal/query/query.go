// Package query answers smart-dial lookups: a coarse prefix-index fetch,
// ranking, then confirmation of every candidate by the prefix matcher.
package query

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-smartdial/internal/adapter"
	"github.com/feral-file/ff-smartdial/internal/domain"
	"github.com/feral-file/ff-smartdial/internal/keypad"
	"github.com/feral-file/ff-smartdial/internal/logger"
	"github.com/feral-file/ff-smartdial/internal/matcher"
	"github.com/feral-file/ff-smartdial/internal/store"
)

// Config holds configuration for the query engine
type Config struct {
	MaxResults int
}

// Result is the answer to a lookup
type Result struct {
	Matches []domain.ConfirmedMatch `json:"results"`
	// Syncing reports that a sync pass held the index; Matches is then empty
	Syncing bool `json:"syncing"`
}

// StateReader exposes the sync state queries are excluded by
type StateReader interface {
	State() domain.SyncState
}

// Engine answers lookups against the smart-dial index
//
//go:generate mockgen -source=query.go -destination=../mocks/query.go -package=mocks -mock_names=Engine=MockQueryEngine,StateReader=MockStateReader
type Engine interface {
	// Lookup returns at most MaxResults confirmed matches for a typed query, best first.
	// Index errors are logged and answered with an empty result.
	Lookup(ctx context.Context, query string) Result
}

type engine struct {
	config Config
	store  store.Store
	state  StateReader
	clock  adapter.Clock
}

// NewEngine creates a new query engine
func NewEngine(config Config, st store.Store, state StateReader, clock adapter.Clock) Engine {
	if config.MaxResults <= 0 || config.MaxResults > domain.MAX_RESULTS {
		config.MaxResults = domain.MAX_RESULTS
	}
	return &engine{
		config: config,
		store:  st,
		state:  state,
		clock:  clock,
	}
}

func (e *engine) Lookup(ctx context.Context, query string) Result {
	if e.state.State() == domain.SyncStateSyncing {
		return Result{Matches: []domain.ConfirmedMatch{}, Syncing: true}
	}

	normalized := keypad.Normalize(query)
	if normalized == "" {
		return Result{Matches: []domain.ConfirmedMatch{}}
	}

	candidates, err := e.store.QueryCandidates(ctx, normalized)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to query candidates: %w", err), zap.String("query", normalized))
		return Result{Matches: []domain.ConfirmedMatch{}}
	}

	rank(candidates, e.clock.Now())

	matches := make([]domain.ConfirmedMatch, 0, min(len(candidates), e.config.MaxResults))
	emitted := make(map[domain.ContactMatch]struct{})
	for i := range candidates {
		if len(matches) >= e.config.MaxResults {
			break
		}

		c := &candidates[i]
		key := domain.ContactMatch{LookupKey: c.LookupKey, ContactID: c.ContactID}
		if _, ok := emitted[key]; ok {
			continue
		}

		nameSpans := matcher.MatchesName(normalized, c.DisplayName)
		numberSpan := matcher.MatchesNumber(normalized, c.PhoneNumber)
		if nameSpans == nil && numberSpan == nil {
			continue
		}

		emitted[key] = struct{}{}
		matches = append(matches, domain.ConfirmedMatch{
			EntryID:         c.ID,
			ContactID:       c.ContactID,
			LookupKey:       c.LookupKey,
			DisplayName:     c.DisplayName,
			PhoneNumber:     c.PhoneNumber,
			PhotoRef:        c.PhotoRef,
			Starred:         c.Starred,
			CarrierPresence: c.CarrierPresence,
			NameSpans:       nameSpans,
			NumberSpan:      numberSpan,
		})
	}

	logger.DebugCtx(ctx, "Lookup answered",
		zap.String("query", normalized),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(matches)),
	)
	return Result{Matches: matches}
}
