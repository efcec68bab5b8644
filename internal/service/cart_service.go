package service

import (
	"strings"

	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/repository"

	"gorm.io/gorm"
)

// CartIdentity 购物车归属标识（登录用户或匿名会话，二者取其一）
type CartIdentity struct {
	UserID    uint
	SessionID string
}

func (i CartIdentity) valid() bool {
	return i.UserID != 0 || strings.TrimSpace(i.SessionID) != ""
}

// CartView 购物车视图（小计与件数始终由购物车项现算）
type CartView struct {
	Cart      *models.Cart      `json:"cart"`
	Items     []models.CartItem `json:"items"`
	Subtotal  models.Money      `json:"subtotal"`
	ItemCount int               `json:"item_count"`
}

// AddCartItemInput 添加购物车项输入
type AddCartItemInput struct {
	ProductID uint
	VariantID uint
	Quantity  int
}

// UpdateCartItemInput 批量更新购物车项输入（数量为 0 表示删除）
type UpdateCartItemInput struct {
	ItemID   uint
	Quantity int
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// ResolveCart 获取或创建归属标识对应的购物车，同一标识永远只有一行
func (s *CartService) ResolveCart(identity CartIdentity) (*models.Cart, error) {
	if !identity.valid() {
		return nil, ErrCartNotFound
	}

	cart, err := s.lookupCart(identity)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	cart = &models.Cart{}
	if identity.UserID != 0 {
		userID := identity.UserID
		cart.UserID = &userID
	} else {
		sessionID := strings.TrimSpace(identity.SessionID)
		cart.SessionID = &sessionID
	}
	if err := s.cartRepo.Create(cart); err != nil {
		// 并发首次访问时唯一约束可能已被占用，此时回查既有行
		existing, lookupErr := s.lookupCart(identity)
		if lookupErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return cart, nil
}

func (s *CartService) lookupCart(identity CartIdentity) (*models.Cart, error) {
	if identity.UserID != 0 {
		return s.cartRepo.GetByUser(identity.UserID)
	}
	return s.cartRepo.GetBySession(strings.TrimSpace(identity.SessionID))
}

// GetCart 获取购物车视图
func (s *CartService) GetCart(identity CartIdentity) (*CartView, error) {
	cart, err := s.ResolveCart(identity)
	if err != nil {
		return nil, err
	}
	return s.buildView(cart)
}

// AddItem 添加购物车项：同一 (product, variant) 已存在时累加数量，否则以当前展示价快照插入新行
func (s *CartService) AddItem(identity CartIdentity, input AddCartItemInput) (*CartView, error) {
	if input.ProductID == 0 {
		return nil, ErrCartItemInvalid
	}
	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}

	// 价格快照：展示价，选择规格时叠加规格价格调整
	price := product.DisplayPrice()
	if input.VariantID != 0 {
		variant, err := s.productRepo.GetVariant(input.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil || variant.ProductID != product.ID {
			return nil, ErrVariantNotFound
		}
		price = variant.FinalPrice(product)
	}

	cart, err := s.ResolveCart(identity)
	if err != nil {
		return nil, err
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		existing, err := cartRepo.FindItem(cart.ID, input.ProductID, input.VariantID)
		if err != nil {
			return err
		}
		if existing != nil {
			return cartRepo.IncrementItemQuantity(existing.ID, quantity)
		}
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: input.ProductID,
			VariantID: input.VariantID,
			Quantity:  quantity,
			Price:     price,
		}
		if createErr := cartRepo.CreateItem(item); createErr != nil {
			// 唯一索引兜底并发插入，命中后转为累加
			raced, findErr := cartRepo.FindItem(cart.ID, input.ProductID, input.VariantID)
			if findErr == nil && raced != nil {
				return cartRepo.IncrementItemQuantity(raced.ID, quantity)
			}
			return createErr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.buildView(cart)
}

// UpdateItems 批量更新购物车项数量，数量为 0 删除该项，不属于本购物车的项静默忽略
func (s *CartService) UpdateItems(identity CartIdentity, inputs []UpdateCartItemInput) (*CartView, error) {
	cart, err := s.ResolveCart(identity)
	if err != nil {
		return nil, err
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		for _, input := range inputs {
			if input.ItemID == 0 || input.Quantity < 0 {
				continue
			}
			item, err := cartRepo.GetItem(cart.ID, input.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				continue
			}
			if input.Quantity == 0 {
				if err := cartRepo.DeleteItem(cart.ID, item.ID); err != nil {
					return err
				}
				continue
			}
			if err := cartRepo.UpdateItemQuantity(item.ID, input.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.buildView(cart)
}

// RemoveItem 删除购物车项，不属于本购物车时不产生任何效果
func (s *CartService) RemoveItem(identity CartIdentity, itemID uint) (*CartView, error) {
	cart, err := s.ResolveCart(identity)
	if err != nil {
		return nil, err
	}
	if itemID != 0 {
		if err := s.cartRepo.DeleteItem(cart.ID, itemID); err != nil {
			return nil, err
		}
	}
	return s.buildView(cart)
}

// Clear 清空购物车项，购物车行本身保留复用
func (s *CartService) Clear(identity CartIdentity) (*CartView, error) {
	cart, err := s.ResolveCart(identity)
	if err != nil {
		return nil, err
	}
	if _, err := s.cartRepo.ClearItems(cart.ID); err != nil {
		return nil, err
	}
	return s.buildView(cart)
}

func (s *CartService) buildView(cart *models.Cart) (*CartView, error) {
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return &CartView{
		Cart:      cart,
		Items:     items,
		Subtotal:  cart.Subtotal(),
		ItemCount: cart.ItemCount(),
	}, nil
}
