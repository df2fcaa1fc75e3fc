package service

import (
	"context"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pii-anonymizer-be/internal/dto"
	"pii-anonymizer-be/internal/entity"
	"pii-anonymizer-be/internal/repository/specification"
	"pii-anonymizer-be/internal/repository/unitofwork"
	"pii-anonymizer-be/pkg/apperrors"
)

var validate = validator.New()

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	securityEvents ISecurityEventService
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, securityEvents ISecurityEventService) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		securityEvents: securityEvents,
	}
}

func toUserResponse(user *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "invalid registration payload", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.New(apperrors.KindValidation, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "invalid login payload", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.New(apperrors.KindAuthentication, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordLogin(ctx, uow, user.Id, entity.AuditLoginFailed)
		return nil, apperrors.New(apperrors.KindAuthentication, "invalid email or password")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.Id.String(),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return nil, err
	}

	s.recordLogin(ctx, uow, user.Id, entity.AuditLoginSuccess)

	return &dto.AuthResponse{
		Token: signed,
		User:  *toUserResponse(user),
	}, nil
}

// Logout only records the event; tokens are stateless and expire on their own.
func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	s.recordLogin(ctx, uow, userID, entity.AuditLogout)
	return nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "user not found")
	}
	return toUserResponse(user), nil
}

// recordLogin appends the account-level audit row. Login auditing is
// best-effort; authentication outcome never depends on it.
func (s *authService) recordLogin(ctx context.Context, uow unitofwork.UnitOfWork, userID uuid.UUID, action entity.AuditAction) {
	entry := &entity.AuditLogEntry{
		Id:        uuid.New(),
		ActorId:   userID,
		Action:    action,
		CreatedAt: time.Now(),
	}
	_ = uow.AuditLogRepository().Append(ctx, entry)
	s.securityEvents.Emit(ctx, action, nil, userID, nil)
}
