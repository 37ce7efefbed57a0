package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"provider-billing/internal/core/domain"
	"provider-billing/internal/core/ports"
	"provider-billing/pkg/apperror"
)

// RandomAssigneeSelector picks a reviewer uniformly at random from the
// staff pool. Load-based or round-robin strategies would implement the
// same port.
type RandomAssigneeSelector struct {
	userRepo ports.UserRepository

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomAssigneeSelector creates a selector seeded from the clock.
func NewRandomAssigneeSelector(userRepo ports.UserRepository) *RandomAssigneeSelector {
	return &RandomAssigneeSelector{
		userRepo: userRepo,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SelectAssignee returns one eligible reviewer chosen uniformly at random.
func (s *RandomAssigneeSelector) SelectAssignee(ctx context.Context) (*domain.User, error) {
	reviewers, err := s.userRepo.ListEligibleReviewers(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list eligible reviewers: %w", err))
	}
	if len(reviewers) == 0 {
		return nil, apperror.ErrNoEligibleAssignee()
	}

	s.mu.Lock()
	idx := s.rng.Intn(len(reviewers))
	s.mu.Unlock()

	return &reviewers[idx], nil
}
