package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"identitymap/internal/registry"
	"identitymap/internal/repository"
)

// RecalcService restores consistency after any answer that feeds a
// population-relative rule: every derived quantity is rebuilt for every
// respondent, in dependency order.
type RecalcService struct {
	answers     repository.AnswerRepo
	scoreSvc    *ScoreService
	axesSvc     *AxesService
	registry    *registry.Registry
	broadcaster Broadcaster

	// Serializes batch runs; concurrent sweeps over the same store
	// would read partially-updated score sets.
	mu sync.Mutex
}

// SetBroadcaster sets the broadcaster for dashboard events
func (s *RecalcService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// NewRecalcService creates a new recalculation service
func NewRecalcService(
	answers repository.AnswerRepo,
	scoreSvc *ScoreService,
	axesSvc *AxesService,
	reg *registry.Registry,
) *RecalcService {
	return &RecalcService{
		answers:  answers,
		scoreSvc: scoreSvc,
		axesSvc:  axesSvc,
		registry: reg,
	}
}

// RecalculateAll rebuilds every user's per-question scores, then raw
// axes, then final axes, then every rule-bearing question's aggregate
// statistics. The phase order matters: axis aggregation reads scores
// and normalization reads raw axes, so each phase must complete for the
// whole population before the next starts. The run is a blocking batch
// job; an interrupted run leaves the derived caches mutually
// inconsistent until it is rerun to completion.
func (s *RecalcService) RecalculateAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	users, err := s.answers.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	for _, userID := range users {
		if _, err := s.scoreSvc.CalculateUserScores(ctx, userID); err != nil {
			return err
		}
	}
	for _, userID := range users {
		if _, err := s.axesSvc.CalculateAxesScores(ctx, userID); err != nil {
			return err
		}
	}
	for _, userID := range users {
		if _, err := s.axesSvc.GetFinalAxesScores(ctx, userID); err != nil {
			return err
		}
	}

	for _, q := range s.registry.Scored() {
		if _, err := s.scoreSvc.CalculateQuestionScores(ctx, q.ID); err != nil {
			return err
		}
	}

	elapsed := time.Since(start)
	log.Printf("Recalculated %d users in %s", len(users), elapsed)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToDashboards(EventRecalcComplete, map[string]interface{}{
			"users":      len(users),
			"durationMs": elapsed.Milliseconds(),
		})
	}
	return nil
}
