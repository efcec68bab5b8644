package repository

import (
	"errors"

	"github.com/shopnext/internal/models"

	"gorm.io/gorm"
)

// WishlistRepository 心愿单数据访问接口
type WishlistRepository interface {
	ListByUser(userID uint) ([]models.Wishlist, error)
	GetByIDAndUser(id, userID uint) (*models.Wishlist, error)
	GetByUserAndProduct(userID, productID uint) (*models.Wishlist, error)
	Create(entry *models.Wishlist) error
	Delete(id, userID uint) error
}

// GormWishlistRepository GORM 实现
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository 创建心愿单仓库
func NewWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// ListByUser 获取用户心愿单，最新加入在前
func (r *GormWishlistRepository) ListByUser(userID uint) ([]models.Wishlist, error) {
	var entries []models.Wishlist
	if err := r.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// GetByIDAndUser 获取用户心愿单条目
func (r *GormWishlistRepository) GetByIDAndUser(id, userID uint) (*models.Wishlist, error) {
	var entry models.Wishlist
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// GetByUserAndProduct 按用户与商品获取心愿单条目
func (r *GormWishlistRepository) GetByUserAndProduct(userID, productID uint) (*models.Wishlist, error) {
	var entry models.Wishlist
	if err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// Create 创建心愿单条目
func (r *GormWishlistRepository) Create(entry *models.Wishlist) error {
	return r.db.Create(entry).Error
}

// Delete 删除心愿单条目（限定归属用户）
func (r *GormWishlistRepository) Delete(id, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Wishlist{}).Error
}
