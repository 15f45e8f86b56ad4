package service

import (
	"context"
	"fmt"
	"time"

	"identitymap/internal/cache"
	"identitymap/internal/model"
	"identitymap/internal/registry"
	"identitymap/internal/repository"
)

// ExportService assembles the full admin data dump: every respondent's
// answers and scores plus every question's tallies and answer list.
type ExportService struct {
	answers  repository.AnswerRepo
	scores   cache.ScoreCache
	stats    cache.StatsCache
	registry *registry.Registry
}

// NewExportService creates a new export service
func NewExportService(
	answers repository.AnswerRepo,
	scores cache.ScoreCache,
	stats cache.StatsCache,
	reg *registry.Registry,
) *ExportService {
	return &ExportService{
		answers:  answers,
		scores:   scores,
		stats:    stats,
		registry: reg,
	}
}

// ExportAll builds a point-in-time snapshot of the whole dataset.
// The snapshot is not transactional: answers arriving mid-export may
// appear in some sections and not others.
func (s *ExportService) ExportAll(ctx context.Context) (*model.Export, error) {
	export := &model.Export{
		Users:     make(map[string]model.UserExport),
		Questions: make(map[string]model.QuestionExport),
		Timestamp: time.Now(),
	}

	users, err := s.answers.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for _, userID := range users {
		answers, err := s.answers.GetUserAnswers(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load answers for %s: %w", userID, err)
		}
		scores, err := s.scores.GetUserScores(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load scores for %s: %w", userID, err)
		}
		export.Users[userID] = model.UserExport{
			Answers: answers,
			Scores:  scores,
		}
	}

	for _, q := range s.registry.All() {
		answers, err := s.answers.GetQuestionAnswers(ctx, q.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load answers for question %s: %w", q.ID, err)
		}
		if len(answers) == 0 {
			continue
		}
		stats, err := s.stats.GetQuestionStats(ctx, q.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load stats for question %s: %w", q.ID, err)
		}
		export.Questions[q.ID] = model.QuestionExport{
			Stats:   stats,
			Answers: answers,
		}
	}

	return export, nil
}
