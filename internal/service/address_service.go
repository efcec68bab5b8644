package service

import (
	"strings"

	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/repository"

	"gorm.io/gorm"
)

// AddressService 用户地址簿服务
type AddressService struct {
	addressRepo repository.AddressRepository
}

// NewAddressService 创建地址簿服务
func NewAddressService(addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// AddressBookInput 地址簿条目输入
type AddressBookInput struct {
	Label         string
	FirstName     string
	LastName      string
	StreetAddress string
	City          string
	State         string
	PostalCode    string
	Country       string
	Phone         string
	IsDefault     bool
}

func (i AddressBookInput) complete() bool {
	required := []string{i.FirstName, i.LastName, i.StreetAddress, i.City, i.PostalCode, i.Country, i.Phone}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

// List 获取用户地址列表，默认地址在前
func (s *AddressService) List(userID uint) ([]models.Address, error) {
	return s.addressRepo.ListByUser(userID)
}

// Get 获取用户地址
func (s *AddressService) Get(userID, addressID uint) (*models.Address, error) {
	address, err := s.addressRepo.GetByIDAndUser(addressID, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	return address, nil
}

// Create 创建地址，设为默认时取消原默认地址
func (s *AddressService) Create(userID uint, input AddressBookInput) (*models.Address, error) {
	if !input.complete() {
		return nil, ErrAddressIncomplete
	}

	address := &models.Address{
		UserID:        userID,
		Label:         strings.TrimSpace(input.Label),
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		StreetAddress: strings.TrimSpace(input.StreetAddress),
		City:          strings.TrimSpace(input.City),
		State:         strings.TrimSpace(input.State),
		PostalCode:    strings.TrimSpace(input.PostalCode),
		Country:       strings.TrimSpace(input.Country),
		Phone:         strings.TrimSpace(input.Phone),
		IsDefault:     input.IsDefault,
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewAddressRepository(tx)
		if input.IsDefault {
			if err := repo.ClearDefault(userID); err != nil {
				return err
			}
		}
		return repo.Create(address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Update 更新地址
func (s *AddressService) Update(userID, addressID uint, input AddressBookInput) (*models.Address, error) {
	if !input.complete() {
		return nil, ErrAddressIncomplete
	}

	address, err := s.Get(userID, addressID)
	if err != nil {
		return nil, err
	}

	address.Label = strings.TrimSpace(input.Label)
	address.FirstName = strings.TrimSpace(input.FirstName)
	address.LastName = strings.TrimSpace(input.LastName)
	address.StreetAddress = strings.TrimSpace(input.StreetAddress)
	address.City = strings.TrimSpace(input.City)
	address.State = strings.TrimSpace(input.State)
	address.PostalCode = strings.TrimSpace(input.PostalCode)
	address.Country = strings.TrimSpace(input.Country)
	address.Phone = strings.TrimSpace(input.Phone)
	address.IsDefault = input.IsDefault

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewAddressRepository(tx)
		if input.IsDefault {
			if err := repo.ClearDefault(userID); err != nil {
				return err
			}
		}
		return repo.Update(address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Delete 删除地址
func (s *AddressService) Delete(userID, addressID uint) error {
	if _, err := s.Get(userID, addressID); err != nil {
		return err
	}
	return s.addressRepo.Delete(addressID, userID)
}

// ToOrderAddressInput 地址簿条目转为下单地址输入
func (s *AddressService) ToOrderAddressInput(address *models.Address) AddressInput {
	return AddressInput{
		FirstName:     address.FirstName,
		LastName:      address.LastName,
		StreetAddress: address.StreetAddress,
		City:          address.City,
		State:         address.State,
		PostalCode:    address.PostalCode,
		Country:       address.Country,
		Phone:         address.Phone,
	}
}
