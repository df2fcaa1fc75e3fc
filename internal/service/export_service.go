package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/pkg/logger"
	"pii-anonymizer-be/internal/repository/specification"
	"pii-anonymizer-be/internal/repository/unitofwork"
	"pii-anonymizer-be/pkg/apperrors"
	"pii-anonymizer-be/pkg/export"
)

// ExportResult carries the rendered payload plus download metadata.
type ExportResult struct {
	Data        []byte
	ContentType string
	Filename    string
}

type IExportService interface {
	Export(ctx context.Context, actorID, sessionID uuid.UUID, format string) (*ExportResult, error)
}

type exportService struct {
	uowFactory     unitofwork.RepositoryFactory
	securityEvents ISecurityEventService
	logger         logger.ILogger
}

func NewExportService(uowFactory unitofwork.RepositoryFactory, securityEvents ISecurityEventService, log logger.ILogger) IExportService {
	return &exportService{
		uowFactory:     uowFactory,
		securityEvents: securityEvents,
		logger:         log,
	}
}

// Export renders the anonymized document in the requested format. The render
// input is built exclusively from anonymized text and mapping metadata, so an
// export can never leak an original value regardless of format.
func (s *exportService) Export(ctx context.Context, actorID, sessionID uuid.UUID, format string) (*ExportResult, error) {
	parsed, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}

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

	metadata := make([]export.MappingMetadata, 0, len(mappings))
	for _, m := range mappings {
		metadata = append(metadata, export.MappingMetadata{
			EntityType:  m.EntityType,
			Placeholder: m.Placeholder,
			Confidence:  m.Confidence,
			Method:      m.DetectionMethod,
		})
	}

	data, contentType, err := export.Render(parsed, export.Document{
		SessionID:      session.Id.String(),
		Filename:       session.OriginalFilename,
		AnonymizedText: session.AnonymizedText,
		Mappings:       metadata,
		ExportedAt:     time.Now(),
	})
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.SessionRepository().IncrementExportCount(ctx, sessionID); err != nil {
		return nil, err
	}
	auditEntry := &entity.AuditLogEntry{
		Id:        uuid.New(),
		SessionId: &sessionID,
		ActorId:   actorID,
		Action:    entity.AuditExport,
		Details: map[string]interface{}{
			"format":     string(parsed),
			"size_bytes": len(data),
		},
		CreatedAt: time.Now(),
	}
	if err := uow.AuditLogRepository().Append(ctx, auditEntry); err != nil {
		return nil, apperrors.Wrap(apperrors.KindAuditWrite, "record export", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.securityEvents.Emit(ctx, entity.AuditExport, &sessionID, actorID, auditEntry.Details)
	s.logger.Info("export", "session exported", map[string]interface{}{
		"session_id": sessionID.String(),
		"format":     string(parsed),
	})

	return &ExportResult{
		Data:        data,
		ContentType: contentType,
		Filename:    fmt.Sprintf("anonymized_%s.%s", sessionID, export.FileExtension(parsed)),
	}, nil
}
