package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"pii-anonymizer-be/internal/dto"
	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/pkg/logger"
	"pii-anonymizer-be/internal/pkg/sessionlock"
	"pii-anonymizer-be/internal/repository/contract"
	"pii-anonymizer-be/internal/repository/specification"
	"pii-anonymizer-be/internal/repository/unitofwork"
	"pii-anonymizer-be/pkg/anonymizer"
	"pii-anonymizer-be/pkg/apperrors"
	"pii-anonymizer-be/pkg/detector"
	"pii-anonymizer-be/pkg/extract"
	"pii-anonymizer-be/pkg/vault"
)

type ISessionService interface {
	Upload(ctx context.Context, actorID uuid.UUID, filename string, content []byte) (*dto.UploadResponse, error)
	List(ctx context.Context, actorID uuid.UUID) ([]dto.SessionSummaryResponse, error)
	Get(ctx context.Context, actorID, sessionID uuid.UUID) (*dto.SessionDetailResponse, error)
	Delete(ctx context.Context, actorID, sessionID uuid.UUID) error
}

type sessionService struct {
	uowFactory     unitofwork.RepositoryFactory
	detector       detector.Detector
	engine         *anonymizer.Engine
	vault          *vault.Vault
	transcripts    contract.TranscriptStore
	locks          *sessionlock.Keyring
	securityEvents ISecurityEventService
	logger         logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	det detector.Detector,
	engine *anonymizer.Engine,
	v *vault.Vault,
	transcripts contract.TranscriptStore,
	locks *sessionlock.Keyring,
	securityEvents ISecurityEventService,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:     uowFactory,
		detector:       det,
		engine:         engine,
		vault:          v,
		transcripts:    transcripts,
		locks:          locks,
		securityEvents: securityEvents,
		logger:         log,
	}
}

// Upload runs the full anonymization pipeline: extract text, detect PII,
// substitute placeholders, encrypt originals under a fresh session key, and
// persist everything in one transaction. Raw text lives only on the stack of
// this call; it is never written anywhere.
func (s *sessionService) Upload(ctx context.Context, actorID uuid.UUID, filename string, content []byte) (*dto.UploadResponse, error) {
	rawText, err := extract.Text(filename, content)
	if err != nil {
		return nil, err
	}

	entities := s.detector.Detect(rawText)
	result, err := s.engine.Anonymize(rawText, entities)
	if err != nil {
		return nil, err
	}

	dek, wrappedKey, err := s.vault.NewSessionKey()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &entity.DocumentSession{
		Id:                  uuid.New(),
		UserId:              actorID,
		OriginalFilename:    filename,
		AnonymizedText:      result.AnonymizedText,
		SessionKeyEncrypted: wrappedKey,
		CreatedAt:           now,
		LastAccessed:        now,
	}

	mappings := make([]*entity.PIIMapping, 0, len(result.Mappings))
	for _, m := range result.Mappings {
		encrypted, err := s.vault.EncryptValue(dek, m.OriginalValue)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, &entity.PIIMapping{
			Id:                     uuid.New(),
			SessionId:              session.Id,
			EntityType:             m.EntityType,
			Placeholder:            m.Placeholder,
			OriginalValueEncrypted: encrypted,
			Confidence:             m.Confidence,
			DetectionMethod:        m.Method,
			CreatedAt:              now,
		})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	if err := uow.PIIMappingRepository().CreateBatch(ctx, mappings); err != nil {
		return nil, err
	}
	auditEntry := &entity.AuditLogEntry{
		Id:        uuid.New(),
		SessionId: &session.Id,
		ActorId:   actorID,
		Action:    entity.AuditUpload,
		Details: map[string]interface{}{
			"filename":     filename,
			"entity_count": len(mappings),
		},
		CreatedAt: now,
	}
	if err := uow.AuditLogRepository().Append(ctx, auditEntry); err != nil {
		return nil, apperrors.Wrap(apperrors.KindAuditWrite, "record upload", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.securityEvents.Emit(ctx, entity.AuditUpload, &session.Id, actorID, auditEntry.Details)
	s.logger.Info("session", "document anonymized", map[string]interface{}{
		"session_id":   session.Id.String(),
		"entity_count": len(mappings),
		"dropped":      len(result.Dropped),
	})

	return &dto.UploadResponse{
		SessionId:      session.Id,
		Filename:       filename,
		AnonymizedText: result.AnonymizedText,
		EntityCount:    len(mappings),
		Mappings:       toMappingResponses(mappings),
		CreatedAt:      now,
	}, nil
}

func toMappingResponses(mappings []*entity.PIIMapping) []dto.MappingResponse {
	out := make([]dto.MappingResponse, 0, len(mappings))
	for _, m := range mappings {
		out = append(out, dto.MappingResponse{
			Id:          m.Id,
			EntityType:  m.EntityType,
			Placeholder: m.Placeholder,
			Confidence:  m.Confidence,
			Method:      m.DetectionMethod,
		})
	}
	return out
}

func (s *sessionService) List(ctx context.Context, actorID uuid.UUID) ([]dto.SessionSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.SessionRepository().FindAll(ctx,
		specification.OwnedBy{UserID: actorID},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.SessionSummaryResponse, 0, len(sessions))
	for _, session := range sessions {
		count, err := uow.PIIMappingRepository().Count(ctx, specification.BySession{SessionID: session.Id})
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, dto.SessionSummaryResponse{
			Id:           session.Id,
			Filename:     session.OriginalFilename,
			EntityCount:  count,
			ExportCount:  session.ExportCount,
			CreatedAt:    session.CreatedAt,
			LastAccessed: session.LastAccessed,
		})
	}
	return summaries, nil
}

func (s *sessionService) Get(ctx context.Context, actorID, sessionID uuid.UUID) (*dto.SessionDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := loadOwnedSession(ctx, uow, actorID, sessionID)
	if err != nil {
		return nil, err
	}

	mappings, err := uow.PIIMappingRepository().FindAll(ctx,
		specification.BySession{SessionID: sessionID},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	_ = uow.SessionRepository().TouchLastAccessed(ctx, sessionID)

	return &dto.SessionDetailResponse{
		Id:             session.Id,
		Filename:       session.OriginalFilename,
		AnonymizedText: session.AnonymizedText,
		Mappings:       toMappingResponses(mappings),
		ExportCount:    session.ExportCount,
		CreatedAt:      session.CreatedAt,
		LastAccessed:   session.LastAccessed,
	}, nil
}

// Delete removes the session and every dependent row: mappings (and with
// them the only ciphertext copies of the originals), decrypt attempts,
// session-scoped audit entries, the volatile transcript, and the wrapped
// session key. A session_deleted account-level entry is the surviving trace.
func (s *sessionService) Delete(ctx context.Context, actorID, sessionID uuid.UUID) error {
	s.locks.Lock(sessionID)
	defer s.locks.Unlock(sessionID)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := loadOwnedSession(ctx, uow, actorID, sessionID)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.PIIMappingRepository().DeleteBySession(ctx, sessionID); err != nil {
		return err
	}
	if err := uow.DecryptAttemptRepository().DeleteBySession(ctx, sessionID); err != nil {
		return err
	}
	if err := uow.AuditLogRepository().DeleteBySession(ctx, sessionID); err != nil {
		return err
	}
	if err := uow.SessionRepository().Delete(ctx, sessionID); err != nil {
		return err
	}

	deletionEntry := &entity.AuditLogEntry{
		Id:      uuid.New(),
		ActorId: actorID,
		Action:  entity.AuditSessionDeleted,
		Details: map[string]interface{}{
			"session_id": sessionID.String(),
			"filename":   session.OriginalFilename,
		},
		CreatedAt: time.Now(),
	}
	if err := uow.AuditLogRepository().Append(ctx, deletionEntry); err != nil {
		return apperrors.Wrap(apperrors.KindAuditWrite, "record session deletion", err)
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	_ = s.transcripts.Clear(ctx, sessionID)
	s.locks.Forget(sessionID)

	s.securityEvents.Emit(ctx, entity.AuditSessionDeleted, nil, actorID, deletionEntry.Details)
	return nil
}

// loadOwnedSession fetches a session and enforces ownership before any
// budget or vault work happens.
func loadOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, actorID, sessionID uuid.UUID) (*entity.DocumentSession, error) {
	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionID})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "session not found")
	}
	if session.UserId != actorID {
		return nil, apperrors.New(apperrors.KindAuthorization, "session belongs to another account")
	}
	return session, nil
}

// entityTypesOf returns the distinct entity types in a mapping set, sorted.
func entityTypesOf(mappings []*entity.PIIMapping) []string {
	seen := make(map[string]bool)
	var types []string
	for _, m := range mappings {
		if !seen[m.EntityType] {
			seen[m.EntityType] = true
			types = append(types, m.EntityType)
		}
	}
	sort.Strings(types)
	return types
}
