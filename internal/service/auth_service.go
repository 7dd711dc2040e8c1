package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/internal/repository"
	"github.com/mbtimate/mbtimate-backend/pkg/jwt"
	"github.com/mbtimate/mbtimate-backend/pkg/logger"
)

// AuthService 회원가입/로그인/로그아웃.
// 로그인 시 JWT와 함께 Redis 세션을 발급하고, 세션 삭제로 토큰을 무효화한다
type AuthService struct {
	userRepo    *repository.UserRepository
	sessionRepo *repository.SessionRepository
	jwtManager  *jwt.JWTManager
}

func NewAuthService(
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	jwtManager *jwt.JWTManager,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtManager:  jwtManager,
	}
}

// Register 회원가입. 이메일 중복이면 ErrUserAlreadyExists
func (s *AuthService) Register(nickname, email, password string) (*models.User, error) {
	existing, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	hash, err := models.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(nickname, email, hash)
	if err != nil {
		return nil, err
	}

	logger.Info("User registered", "userId", user.ID, "email", email)
	return user, nil
}

// Login 로그인. 검증 성공 시 세션을 만들고 JWT를 발급한다
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if user == nil || !user.CheckPassword(password) {
		return "", nil, ErrInvalidCredentials
	}

	session := models.Session{
		SessionID: uuid.NewString(),
		UserID:    user.ID,
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return "", nil, err
	}

	token, err := s.jwtManager.Generate(user.ID, user.Email, session.SessionID)
	if err != nil {
		return "", nil, err
	}

	logger.Info("User logged in", "userId", user.ID)
	return token, user, nil
}

// Logout 세션 삭제. 같은 sessionId를 담은 JWT는 즉시 무효화된다
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

// ValidateSession 세션 존재 여부 확인 (미들웨어에서 사용)
func (s *AuthService) ValidateSession(ctx context.Context, sessionID string) (bool, error) {
	session, err := s.sessionRepo.Find(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return session != nil, nil
}
