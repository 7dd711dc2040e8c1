package service

import (
	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/internal/repository"
	"github.com/mbtimate/mbtimate-backend/pkg/logger"
)

// UserService 프로필과 차단 관리
type UserService struct {
	userRepo  *repository.UserRepository
	blockRepo *repository.BlockRepository
}

func NewUserService(userRepo *repository.UserRepository, blockRepo *repository.BlockRepository) *UserService {
	return &UserService{userRepo: userRepo, blockRepo: blockRepo}
}

// GetProfile 유저 조회. 없으면 ErrUserNotFound
func (s *UserService) GetProfile(userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile 닉네임/MBTI/성별 수정. 빈 값은 건드리지 않는다
func (s *UserService) UpdateProfile(userID string, req models.UpdateUserRequest) (*models.User, error) {
	var mbti *models.MBTI
	if req.MBTI != "" {
		parsed, err := models.ParseMBTI(req.MBTI)
		if err != nil {
			return nil, ErrInvalidInput
		}
		mbti = &parsed
	}

	var gender *models.Gender
	if req.Gender != "" {
		parsed, err := models.ParseGender(req.Gender)
		if err != nil {
			return nil, ErrInvalidInput
		}
		gender = &parsed
	}

	user, err := s.userRepo.UpdateProfile(userID, req.Nickname, mbti, gender)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// BlockUser 유저 차단. 이미 차단한 상대면 조용히 성공한다
func (s *UserService) BlockUser(blockerID, blockedID string) error {
	if blockerID == blockedID {
		return ErrSelfBlock
	}

	target, err := s.userRepo.FindByID(blockedID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	if err := s.blockRepo.Create(blockerID, blockedID); err != nil {
		return err
	}

	logger.Info("User blocked", "blockerId", blockerID, "blockedId", blockedID)
	return nil
}

// UnblockUser 차단 해제. 차단 관계가 없으면 ErrNotFound
func (s *UserService) UnblockUser(blockerID, blockedID string) error {
	removed, err := s.blockRepo.Delete(blockerID, blockedID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// BlockedUsers 내가 차단한 유저 목록
func (s *UserService) BlockedUsers(blockerID string) ([]models.Block, error) {
	return s.blockRepo.ListBlocked(blockerID)
}
