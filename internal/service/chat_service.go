package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pii-anonymizer-be/internal/dto"
	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/pkg/logger"
	"pii-anonymizer-be/internal/repository/contract"
	"pii-anonymizer-be/internal/repository/specification"
	"pii-anonymizer-be/internal/repository/unitofwork"
	"pii-anonymizer-be/pkg/apperrors"
	"pii-anonymizer-be/pkg/chat"
)

type IChatService interface {
	Ask(ctx context.Context, actorID, sessionID uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error)
	History(ctx context.Context, actorID, sessionID uuid.UUID) ([]dto.TranscriptEntryResponse, error)
	Clear(ctx context.Context, actorID, sessionID uuid.UUID) error
	Suggestions(ctx context.Context, actorID, sessionID uuid.UUID) ([]string, error)
}

// chatService answers questions strictly from the anonymized document. It
// has no access to the vault and cannot be prompted into revealing an
// original value: nothing it reads contains one.
type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	retriever      *chat.Retriever
	transcripts    contract.TranscriptStore
	securityEvents ISecurityEventService
	logger         logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	retriever *chat.Retriever,
	transcripts contract.TranscriptStore,
	securityEvents ISecurityEventService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		retriever:      retriever,
		transcripts:    transcripts,
		securityEvents: securityEvents,
		logger:         log,
	}
}

func (s *chatService) Ask(ctx context.Context, actorID, sessionID uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "invalid chat payload", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := loadOwnedSession(ctx, uow, actorID, sessionID)
	if err != nil {
		return nil, err
	}

	mappings, err := uow.PIIMappingRepository().FindAll(ctx, specification.BySession{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	types := entityTypesOf(mappings)

	snippets := s.retriever.Retrieve(session.AnonymizedText, req.Query)
	answer := chat.ComposeAnswer(req.Query, snippets, types)

	now := time.Now()
	err = s.transcripts.Append(ctx, sessionID,
		entity.TranscriptEntry{Role: entity.ChatRoleUser, Content: req.Query, CreatedAt: now},
		entity.TranscriptEntry{Role: entity.ChatRoleAssistant, Content: answer, CreatedAt: now},
	)
	if err != nil {
		s.logger.Warn("chat", "transcript append failed", map[string]interface{}{
			"session_id": sessionID.String(),
			"error":      err.Error(),
		})
	}

	auditEntry := &entity.AuditLogEntry{
		Id:        uuid.New(),
		SessionId: &sessionID,
		ActorId:   actorID,
		Action:    entity.AuditChatQuery,
		Details: map[string]interface{}{
			"query_length":  len(req.Query),
			"snippet_count": len(snippets),
		},
		CreatedAt: now,
	}
	if err := uow.AuditLogRepository().Append(ctx, auditEntry); err != nil {
		return nil, apperrors.Wrap(apperrors.KindAuditWrite, "record chat query", err)
	}
	s.securityEvents.Emit(ctx, entity.AuditChatQuery, &sessionID, actorID, auditEntry.Details)

	_ = uow.SessionRepository().TouchLastAccessed(ctx, sessionID)

	resp := &dto.ChatResponse{Answer: answer}
	for _, snippet := range snippets {
		resp.Snippets = append(resp.Snippets, dto.SnippetResponse{
			Text:     snippet.Text,
			Position: snippet.Position,
			Keyword:  snippet.Keyword,
		})
	}
	if len(snippets) == 0 {
		resp.Suggestions = chat.Suggestions(types)
	}
	return resp, nil
}

func (s *chatService) History(ctx context.Context, actorID, sessionID uuid.UUID) ([]dto.TranscriptEntryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := loadOwnedSession(ctx, uow, actorID, sessionID); err != nil {
		return nil, err
	}

	entries, err := s.transcripts.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TranscriptEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.TranscriptEntryResponse{
			Role:      e.Role,
			Content:   e.Content,
			CreatedAt: e.CreatedAt,
		})
	}
	return out, nil
}

func (s *chatService) Clear(ctx context.Context, actorID, sessionID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := loadOwnedSession(ctx, uow, actorID, sessionID); err != nil {
		return err
	}

	return s.transcripts.Clear(ctx, sessionID)
}

func (s *chatService) Suggestions(ctx context.Context, actorID, sessionID uuid.UUID) ([]string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := loadOwnedSession(ctx, uow, actorID, sessionID); err != nil {
		return nil, err
	}

	mappings, err := uow.PIIMappingRepository().FindAll(ctx, specification.BySession{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	return chat.Suggestions(entityTypesOf(mappings)), nil
}
