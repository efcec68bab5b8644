package repository

import (
	"errors"

	"github.com/shopnext/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByUser(userID uint) (*models.Cart, error)
	GetBySession(sessionID string) (*models.Cart, error)
	Create(cart *models.Cart) error
	GetByIDForUpdate(cartID uint) (*models.Cart, error)
	ListItems(cartID uint) ([]models.CartItem, error)
	FindItem(cartID, productID, variantID uint) (*models.CartItem, error)
	GetItem(cartID, itemID uint) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	IncrementItemQuantity(itemID uint, delta int) error
	UpdateItemQuantity(itemID uint, quantity int) error
	DeleteItem(cartID, itemID uint) error
	ClearItems(cartID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetByUser 获取用户购物车
func (r *GormCartRepository) GetByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetBySession 获取匿名会话购物车
func (r *GormCartRepository) GetBySession(sessionID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Where("session_id = ?", sessionID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// Create 创建购物车
func (r *GormCartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// GetByIDForUpdate 以行锁读取购物车，用于下单事务防止同一购物车并发结算
func (r *GormCartRepository) GetByIDForUpdate(cartID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&cart, cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// ListItems 获取购物车项
func (r *GormCartRepository) ListItems(cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("Product").Preload("Variant").
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindItem 按 (product, variant) 查找购物车项
func (r *GormCartRepository) FindItem(cartID, productID, variantID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.Where("cart_id = ? AND product_id = ? AND variant_id = ?", cartID, productID, variantID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetItem 按 ID 获取购物车项（限定所属购物车）
func (r *GormCartRepository) GetItem(cartID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.Where("id = ? AND cart_id = ?", itemID, cartID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// CreateItem 创建购物车项
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// IncrementItemQuantity 原子累加购物车项数量
func (r *GormCartRepository) IncrementItemQuantity(itemID uint, delta int) error {
	return r.db.Model(&models.CartItem{}).
		Where("id = ?", itemID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta)).Error
}

// UpdateItemQuantity 设置购物车项数量
func (r *GormCartRepository) UpdateItemQuantity(itemID uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

// DeleteItem 删除购物车项（限定所属购物车）
func (r *GormCartRepository) DeleteItem(cartID, itemID uint) error {
	return r.db.Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&models.CartItem{}).Error
}

// ClearItems 清空购物车项，返回删除行数
func (r *GormCartRepository) ClearItems(cartID uint) (int64, error) {
	result := r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}
