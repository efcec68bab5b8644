package service

import (
	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/repository"
)

// WishlistService 心愿单服务
type WishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

// NewWishlistService 创建心愿单服务
func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

// List 获取用户心愿单，最新加入在前
func (s *WishlistService) List(userID uint) ([]models.Wishlist, error) {
	return s.wishlistRepo.ListByUser(userID)
}

// Add 将商品加入心愿单。
// 商品不存在或已下架返回 ErrProductNotFound；重复加入直接返回已有条目。
func (s *WishlistService) Add(userID, productID uint) (*models.Wishlist, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}

	existing, err := s.wishlistRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Product = product
		return existing, nil
	}

	entry := &models.Wishlist{
		UserID:    userID,
		ProductID: productID,
	}
	if err := s.wishlistRepo.Create(entry); err != nil {
		return nil, err
	}
	entry.Product = product
	return entry, nil
}

// Remove 从心愿单移除条目（限定归属用户）
func (s *WishlistService) Remove(userID, entryID uint) error {
	entry, err := s.wishlistRepo.GetByIDAndUser(entryID, userID)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrWishlistItemNotFound
	}
	return s.wishlistRepo.Delete(entry.ID, userID)
}
