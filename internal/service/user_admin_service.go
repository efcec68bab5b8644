package service

import (
	"context"

	"github.com/shopnext/internal/cache"
	"github.com/shopnext/internal/constants"
	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/repository"
)

// UserAdminService 用户管理服务（管理端）
type UserAdminService struct {
	userRepo repository.UserRepository
}

// NewUserAdminService 创建用户管理服务
func NewUserAdminService(userRepo repository.UserRepository) *UserAdminService {
	return &UserAdminService{userRepo: userRepo}
}

// List 分页获取用户列表
func (s *UserAdminService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// GetByID 获取用户详情
func (s *UserAdminService) GetByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateStatus 更新账号状态，并使鉴权快照缓存失效
func (s *UserAdminService) UpdateStatus(id uint, status string) (*models.User, error) {
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return nil, ErrUserStatusInvalid
	}

	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user.Status == status {
		return user, nil
	}

	if err := s.userRepo.UpdateStatus(user.ID, status); err != nil {
		return nil, err
	}
	user.Status = status

	// 禁用需要立即生效，不能等缓存过期
	_ = cache.DelUserAuthState(context.Background(), user.ID)

	return user, nil
}
