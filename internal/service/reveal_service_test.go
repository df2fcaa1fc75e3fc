package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pii-anonymizer-be/internal/dto"
	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/pkg/sessionlock"
	"pii-anonymizer-be/internal/repository/contract"
	"pii-anonymizer-be/internal/repository/specification"
	"pii-anonymizer-be/internal/repository/unitofwork"
	"pii-anonymizer-be/pkg/apperrors"
	"pii-anonymizer-be/pkg/revealgate"
	"pii-anonymizer-be/pkg/vault"
)

type stubUserRepo struct {
	contract.UserRepository
	user *entity.User
}

func (s *stubUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	return s.user, nil
}

type stubSessionRepo struct {
	contract.SessionRepository
	session *entity.DocumentSession
}

func (s *stubSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentSession, error) {
	return s.session, nil
}

func (s *stubSessionRepo) TouchLastAccessed(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubMappingRepo struct {
	contract.PIIMappingRepository
	mappings []*entity.PIIMapping
}

func (s *stubMappingRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PIIMapping, error) {
	return s.mappings, nil
}

type stubAuditRepo struct {
	contract.AuditLogRepository
	appendErr error
	entries   []*entity.AuditLogEntry
}

func (s *stubAuditRepo) Append(ctx context.Context, entry *entity.AuditLogEntry) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubAuditRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AuditLogEntry, error) {
	return nil, nil
}

type stubUnitOfWork struct {
	users    *stubUserRepo
	sessions *stubSessionRepo
	mappings *stubMappingRepo
	audit    *stubAuditRepo
}

func (u *stubUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *stubUnitOfWork) Commit() error                   { return nil }
func (u *stubUnitOfWork) Rollback() error                 { return nil }

func (u *stubUnitOfWork) UserRepository() contract.UserRepository             { return u.users }
func (u *stubUnitOfWork) SessionRepository() contract.SessionRepository       { return u.sessions }
func (u *stubUnitOfWork) PIIMappingRepository() contract.PIIMappingRepository { return u.mappings }
func (u *stubUnitOfWork) AuditLogRepository() contract.AuditLogRepository     { return u.audit }

func (u *stubUnitOfWork) DecryptAttemptRepository() contract.DecryptAttemptRepository {
	return nil
}

type stubFactory struct {
	uow *stubUnitOfWork
}

func (f *stubFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type memoryAttemptStore struct {
	attempts map[uuid.UUID][]time.Time
}

func newMemoryAttemptStore() *memoryAttemptStore {
	return &memoryAttemptStore{attempts: make(map[uuid.UUID][]time.Time)}
}

func (m *memoryAttemptStore) Record(ctx context.Context, sessionID, actorID uuid.UUID, at time.Time) error {
	m.attempts[sessionID] = append(m.attempts[sessionID], at)
	return nil
}

func (m *memoryAttemptStore) AttemptsSince(ctx context.Context, sessionID uuid.UUID, since time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, at := range m.attempts[sessionID] {
		if at.After(since) {
			out = append(out, at)
		}
	}
	return out, nil
}

type noopEvents struct{}

func (noopEvents) Emit(ctx context.Context, action entity.AuditAction, sessionID *uuid.UUID, actorID uuid.UUID, details map[string]interface{}) {
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type revealFixture struct {
	service IRevealService
	store   *memoryAttemptStore
	audit   *stubAuditRepo
	vault   *vault.Vault
	actorID uuid.UUID
	session *entity.DocumentSession
}

const revealTestPassword = "correct horse battery"

func newRevealFixture(t *testing.T, maxAttempts int) *revealFixture {
	t.Helper()

	v, err := vault.New("reveal-service-test-secret", "test-salt")
	require.NoError(t, err)

	dek, wrapped, err := v.NewSessionKey()
	require.NoError(t, err)

	actorID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte(revealTestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	session := &entity.DocumentSession{
		Id:                  uuid.New(),
		UserId:              actorID,
		OriginalFilename:    "contacts.txt",
		AnonymizedText:      "Call [PERSON_1] at [PHONE_1] or [EMAIL_1]",
		SessionKeyEncrypted: wrapped,
	}

	mappings := make([]*entity.PIIMapping, 0, 3)
	for placeholder, original := range map[string]string{
		"[PERSON_1]": "John Smith",
		"[PHONE_1]":  "555-123-4567",
		"[EMAIL_1]":  "john@x.com",
	} {
		encrypted, err := v.EncryptValue(dek, original)
		require.NoError(t, err)
		mappings = append(mappings, &entity.PIIMapping{
			Id:                     uuid.New(),
			SessionId:              session.Id,
			Placeholder:            placeholder,
			OriginalValueEncrypted: encrypted,
		})
	}

	audit := &stubAuditRepo{}
	uow := &stubUnitOfWork{
		users:    &stubUserRepo{user: &entity.User{Id: actorID, PasswordHash: string(hash)}},
		sessions: &stubSessionRepo{session: session},
		mappings: &stubMappingRepo{mappings: mappings},
		audit:    audit,
	}

	store := newMemoryAttemptStore()
	gate := revealgate.New(store, maxAttempts, time.Hour)

	svc := NewRevealService(&stubFactory{uow: uow}, v, gate, sessionlock.NewKeyring(), noopEvents{}, noopLogger{})

	return &revealFixture{
		service: svc,
		store:   store,
		audit:   audit,
		vault:   v,
		actorID: actorID,
		session: session,
	}
}

func (f *revealFixture) exhaustBudget(attempts int) {
	now := time.Now()
	for i := 0; i < attempts; i++ {
		f.store.attempts[f.session.Id] = append(f.store.attempts[f.session.Id], now)
	}
}

func TestRevealReconstructsOriginalText(t *testing.T) {
	f := newRevealFixture(t, 3)

	res, err := f.service.Reveal(context.Background(), f.actorID, f.session.Id, &dto.RevealRequest{
		Password: revealTestPassword,
	})
	require.NoError(t, err)

	assert.Equal(t, "Call John Smith at 555-123-4567 or john@x.com", res.OriginalText)
	assert.Equal(t, 2, res.Remaining)

	require.Len(t, f.audit.entries, 2)
	assert.Equal(t, entity.AuditDecryptAttempt, f.audit.entries[0].Action)
	assert.Equal(t, true, f.audit.entries[0].Details["success"])
	assert.Equal(t, entity.AuditDecryptSuccess, f.audit.entries[1].Action)
}

func TestRevealWrongPasswordConsumesSlot(t *testing.T) {
	f := newRevealFixture(t, 3)

	_, err := f.service.Reveal(context.Background(), f.actorID, f.session.Id, &dto.RevealRequest{
		Password: "not it",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthentication))

	assert.Len(t, f.store.attempts[f.session.Id], 1, "failed attempts count against the budget")
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, entity.AuditDecryptAttempt, f.audit.entries[0].Action)
	assert.Equal(t, false, f.audit.entries[0].Details["success"])
}

func TestRevealLockedReturnsRateLimit(t *testing.T) {
	f := newRevealFixture(t, 3)
	f.exhaustBudget(3)

	_, err := f.service.Reveal(context.Background(), f.actorID, f.session.Id, &dto.RevealRequest{
		Password: revealTestPassword,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindRateLimit))

	assert.Len(t, f.store.attempts[f.session.Id], 3, "denial does not consume budget")
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, entity.AuditDecryptDenied, f.audit.entries[0].Action)
}

func TestRevealDeniedAuditFailureFailsClosed(t *testing.T) {
	f := newRevealFixture(t, 3)
	f.exhaustBudget(3)
	f.audit.appendErr = errors.New("audit store unavailable")

	_, err := f.service.Reveal(context.Background(), f.actorID, f.session.Id, &dto.RevealRequest{
		Password: revealTestPassword,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuditWrite))
}

func TestRevealAttemptAuditFailureFailsClosed(t *testing.T) {
	f := newRevealFixture(t, 3)
	f.audit.appendErr = errors.New("audit store unavailable")

	_, err := f.service.Reveal(context.Background(), f.actorID, f.session.Id, &dto.RevealRequest{
		Password: revealTestPassword,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuditWrite))
}
