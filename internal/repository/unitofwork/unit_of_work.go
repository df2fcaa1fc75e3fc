package unitofwork

import (
	"context"

	"pii-anonymizer-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SessionRepository() contract.SessionRepository
	PIIMappingRepository() contract.PIIMappingRepository
	DecryptAttemptRepository() contract.DecryptAttemptRepository
	AuditLogRepository() contract.AuditLogRepository
}
