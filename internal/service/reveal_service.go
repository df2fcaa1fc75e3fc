package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pii-anonymizer-be/internal/dto"
	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/pkg/logger"
	"pii-anonymizer-be/internal/pkg/sessionlock"
	"pii-anonymizer-be/internal/repository/specification"
	"pii-anonymizer-be/internal/repository/unitofwork"
	"pii-anonymizer-be/pkg/anonymizer"
	"pii-anonymizer-be/pkg/apperrors"
	"pii-anonymizer-be/pkg/revealgate"
	"pii-anonymizer-be/pkg/vault"
)

const auditLogPageSize = 20

type IRevealService interface {
	Reveal(ctx context.Context, actorID, sessionID uuid.UUID, req *dto.RevealRequest) (*dto.RevealResponse, error)
	Status(ctx context.Context, actorID, sessionID uuid.UUID) (*dto.RevealStatusResponse, error)
	AuditLog(ctx context.Context, actorID, sessionID uuid.UUID) ([]dto.AuditEntryResponse, error)
}

type revealService struct {
	uowFactory     unitofwork.RepositoryFactory
	vault          *vault.Vault
	gate           *revealgate.Gate
	locks          *sessionlock.Keyring
	securityEvents ISecurityEventService
	logger         logger.ILogger
}

func NewRevealService(
	uowFactory unitofwork.RepositoryFactory,
	v *vault.Vault,
	gate *revealgate.Gate,
	locks *sessionlock.Keyring,
	securityEvents ISecurityEventService,
	log logger.ILogger,
) IRevealService {
	return &revealService{
		uowFactory:     uowFactory,
		vault:          v,
		gate:           gate,
		locks:          locks,
		securityEvents: securityEvents,
		logger:         log,
	}
}

// Reveal re-authenticates the actor and reconstructs the original document
// behind the rate-limited gate.
//
// Budget evaluation and slot consumption happen under the per-session lock
// so two concurrent requests cannot both take the last slot. The slot is
// spent before the password is checked, so a wrong password still counts
// against the budget. Every attempt is audited and a failed audit write
// denies the reveal.
func (s *revealService) Reveal(ctx context.Context, actorID, sessionID uuid.UUID, req *dto.RevealRequest) (*dto.RevealResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "invalid reveal payload", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := loadOwnedSession(ctx, uow, actorID, sessionID)
	if err != nil {
		return nil, err
	}

	status, err := s.admitAttempt(ctx, uow, actorID, sessionID)
	if err != nil {
		return nil, err
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: actorID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.New(apperrors.KindAuthentication, "account not found")
	}
	passwordOK := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) == nil

	attemptEntry := &entity.AuditLogEntry{
		Id:        uuid.New(),
		SessionId: &sessionID,
		ActorId:   actorID,
		Action:    entity.AuditDecryptAttempt,
		Details: map[string]interface{}{
			"success": passwordOK,
		},
		CreatedAt: time.Now(),
	}
	if err := uow.AuditLogRepository().Append(ctx, attemptEntry); err != nil {
		return nil, apperrors.Wrap(apperrors.KindAuditWrite, "record decrypt attempt", err)
	}
	s.securityEvents.Emit(ctx, entity.AuditDecryptAttempt, &sessionID, actorID, attemptEntry.Details)

	if !passwordOK {
		return nil, apperrors.New(apperrors.KindAuthentication, "invalid password")
	}

	// Vault work happens outside the session lock; only budget accounting
	// needs serialization.
	dek, err := s.vault.UnwrapSessionKey(session.SessionKeyEncrypted)
	if err != nil {
		return nil, err
	}

	mappings, err := uow.PIIMappingRepository().FindAll(ctx,
		specification.BySession{SessionID: sessionID},
	)
	if err != nil {
		return nil, err
	}

	originals := make(map[string]string, len(mappings))
	for _, m := range mappings {
		original, err := s.vault.DecryptValue(ctx, dek, m.OriginalValueEncrypted)
		if err != nil {
			return nil, err
		}
		originals[m.Placeholder] = original
	}
	originalText := anonymizer.Reconstruct(session.AnonymizedText, originals)

	successEntry := &entity.AuditLogEntry{
		Id:        uuid.New(),
		SessionId: &sessionID,
		ActorId:   actorID,
		Action:    entity.AuditDecryptSuccess,
		Details: map[string]interface{}{
			"mappings": len(mappings),
		},
		CreatedAt: time.Now(),
	}
	if err := uow.AuditLogRepository().Append(ctx, successEntry); err != nil {
		// Fail closed: no audit record, no reveal.
		return nil, apperrors.Wrap(apperrors.KindAuditWrite, "record reveal", err)
	}
	s.securityEvents.Emit(ctx, entity.AuditDecryptSuccess, &sessionID, actorID, successEntry.Details)

	_ = uow.SessionRepository().TouchLastAccessed(ctx, sessionID)

	return &dto.RevealResponse{
		OriginalText: originalText,
		Remaining:    status.Remaining - 1,
	}, nil
}

// admitAttempt holds the session lock across evaluate+consume so the budget
// decision and the slot it spends are atomic.
func (s *revealService) admitAttempt(ctx context.Context, uow unitofwork.UnitOfWork, actorID, sessionID uuid.UUID) (revealgate.Status, error) {
	s.locks.Lock(sessionID)
	defer s.locks.Unlock(sessionID)

	status, err := s.gate.Evaluate(ctx, sessionID)
	if err != nil {
		return status, err
	}

	if status.State == revealgate.StateLocked {
		deniedEntry := &entity.AuditLogEntry{
			Id:        uuid.New(),
			SessionId: &sessionID,
			ActorId:   actorID,
			Action:    entity.AuditDecryptDenied,
			Details: map[string]interface{}{
				"retry_after_seconds": int(status.RetryAfter.Seconds()),
			},
			CreatedAt: time.Now(),
		}
		if err := uow.AuditLogRepository().Append(ctx, deniedEntry); err != nil {
			return status, apperrors.Wrap(apperrors.KindAuditWrite, "record decrypt denial", err)
		}
		s.securityEvents.Emit(ctx, entity.AuditDecryptDenied, &sessionID, actorID, deniedEntry.Details)
		s.logger.Warn("reveal", "decrypt budget exhausted", map[string]interface{}{
			"session_id":          sessionID.String(),
			"retry_after_seconds": int(status.RetryAfter.Seconds()),
		})

		return status, apperrors.RateLimited("decrypt budget exhausted for this session", status.RetryAfter)
	}

	if err := s.gate.Consume(ctx, sessionID, actorID); err != nil {
		return status, err
	}
	return status, nil
}

func (s *revealService) Status(ctx context.Context, actorID, sessionID uuid.UUID) (*dto.RevealStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := loadOwnedSession(ctx, uow, actorID, sessionID); err != nil {
		return nil, err
	}

	status, err := s.gate.Evaluate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	lastSuccess, err := uow.AuditLogRepository().FindOne(ctx,
		specification.BySession{SessionID: sessionID},
		specification.ByAction{Actions: []string{string(entity.AuditDecryptSuccess)}},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	var lastDecryptAt *time.Time
	if lastSuccess != nil {
		lastDecryptAt = &lastSuccess.CreatedAt
	}

	return &dto.RevealStatusResponse{
		State:             string(status.State),
		Remaining:         status.Remaining,
		MaxAttempts:       status.MaxAttempts,
		WindowSeconds:     int(status.Window.Seconds()),
		RetryAfterSeconds: int(status.RetryAfter.Seconds()),
		LastDecryptAt:     lastDecryptAt,
	}, nil
}

func (s *revealService) AuditLog(ctx context.Context, actorID, sessionID uuid.UUID) ([]dto.AuditEntryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := loadOwnedSession(ctx, uow, actorID, sessionID); err != nil {
		return nil, err
	}

	// Latest entries first, capped; the full trail stays queryable in the store.
	entries, err := uow.AuditLogRepository().FindAll(ctx,
		specification.BySession{SessionID: sessionID},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: auditLogPageSize},
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AuditEntryResponse{
			Id:        e.Id,
			SessionId: e.SessionId,
			ActorId:   e.ActorId,
			Action:    string(e.Action),
			Details:   e.Details,
			CreatedAt: e.CreatedAt,
		})
	}
	return out, nil
}
