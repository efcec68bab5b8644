package service

import (
	"strings"

	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/repository"

	"gorm.io/gorm"
)

// ReviewService 商品评价服务：评价增删改与平均评分聚合
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

// NewReviewService 创建评价服务
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository, orderRepo repository.OrderRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// ReviewInput 评价创建/更新输入
type ReviewInput struct {
	Rating  int
	Title   string
	Comment string
}

func (i ReviewInput) validate() error {
	if i.Rating < 1 || i.Rating > 5 {
		return ErrReviewInvalid
	}
	return nil
}

// List 评价列表（商城前台只展示已审核评价）
func (s *ReviewService) List(filter repository.ReviewListFilter) ([]models.Review, int64, error) {
	return s.reviewRepo.List(filter)
}

// Create 创建评价。同一用户对同一商品仅允许一条；
// 用户有已送达订单包含该商品时标记为已购验证。新评价默认未审核，不计入平均分。
func (s *ReviewService) Create(userID, productID uint, input ReviewInput) (*models.Review, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}

	existing, err := s.reviewRepo.GetByProductAndUser(productID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	verified, err := s.orderRepo.HasDeliveredProduct(userID, productID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		ProductID:          productID,
		UserID:             userID,
		Rating:             input.Rating,
		Title:              strings.TrimSpace(input.Title),
		Comment:            strings.TrimSpace(input.Comment),
		IsApproved:         false,
		IsVerifiedPurchase: verified,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// Update 更新本人评价，修改后回到未审核状态等待重新审核
func (s *ReviewService) Update(userID, reviewID uint, input ReviewInput) (*models.Review, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil || review.UserID != userID {
		return nil, ErrReviewNotFound
	}

	wasApproved := review.IsApproved
	review.Rating = input.Rating
	review.Title = strings.TrimSpace(input.Title)
	review.Comment = strings.TrimSpace(input.Comment)
	review.IsApproved = false

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.WithTx(tx).Update(review); err != nil {
			return err
		}
		if wasApproved {
			return s.refreshAverageRating(tx, review.ProductID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Delete 删除本人评价，已审核评价删除后重算平均分
func (s *ReviewService) Delete(userID, reviewID uint) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return err
	}
	if review == nil || review.UserID != userID {
		return ErrReviewNotFound
	}

	return models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.WithTx(tx).Delete(review.ID); err != nil {
			return err
		}
		if review.IsApproved {
			return s.refreshAverageRating(tx, review.ProductID)
		}
		return nil
	})
}

// Approve 管理端审核评价，通过后重算商品平均分
func (s *ReviewService) Approve(reviewID uint) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	if review.IsApproved {
		return review, nil
	}

	review.IsApproved = true
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.WithTx(tx).Update(review); err != nil {
			return err
		}
		return s.refreshAverageRating(tx, review.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Remove 管理端删除评价
func (s *ReviewService) Remove(reviewID uint) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.WithTx(tx).Delete(review.ID); err != nil {
			return err
		}
		if review.IsApproved {
			return s.refreshAverageRating(tx, review.ProductID)
		}
		return nil
	})
}

// refreshAverageRating 以已审核评价重算商品平均分，无评价时清零
func (s *ReviewService) refreshAverageRating(tx *gorm.DB, productID uint) error {
	average, err := s.reviewRepo.WithTx(tx).AverageApprovedRating(productID)
	if err != nil {
		return err
	}
	return s.productRepo.WithTx(tx).UpdateAverageRating(productID, average)
}
