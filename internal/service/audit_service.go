package service

import (
	"context"
	"time"

	"provider-billing/internal/core/domain"
	"provider-billing/internal/core/ports"

	"github.com/rs/zerolog"
)

// AuditServiceImpl persists audit entries asynchronously. Callers invoke Log
// after their own transaction commits; a failed write is logged and dropped
// rather than failing the business operation.
type AuditServiceImpl struct {
	auditRepo ports.AuditRepository
	log       zerolog.Logger
}

// NewAuditService creates a new AuditServiceImpl.
func NewAuditService(auditRepo ports.AuditRepository, log zerolog.Logger) *AuditServiceImpl {
	return &AuditServiceImpl{
		auditRepo: auditRepo,
		log:       log,
	}
}

// Log records the entry in the background, detached from the caller's
// request context so a cancelled request does not lose the event.
func (s *AuditServiceImpl) Log(ctx context.Context, entry *domain.AuditLog) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.auditRepo.Create(bgCtx, entry); err != nil {
			s.log.Error().
				Err(err).
				Str("action", string(entry.Action)).
				Str("resource_id", entry.ResourceID).
				Msg("failed to persist audit log")
		}
	}()
}
