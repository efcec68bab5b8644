package public

import (
	"strconv"

	"github.com/shopnext/internal/http/response"
	"github.com/shopnext/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest 地址簿请求
type AddressRequest struct {
	Label         string `json:"label"`
	FirstName     string `json:"first_name" binding:"required"`
	LastName      string `json:"last_name" binding:"required"`
	StreetAddress string `json:"street_address" binding:"required"`
	City          string `json:"city" binding:"required"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code" binding:"required"`
	Country       string `json:"country" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	IsDefault     bool   `json:"is_default"`
}

func (r AddressRequest) toInput() service.AddressBookInput {
	return service.AddressBookInput{
		Label:         r.Label,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		StreetAddress: r.StreetAddress,
		City:          r.City,
		State:         r.State,
		PostalCode:    r.PostalCode,
		Country:       r.Country,
		Phone:         r.Phone,
		IsDefault:     r.IsDefault,
	}
}

func parseAddressID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "invalid address id", nil)
		return 0, false
	}
	return uint(id), true
}

// ListAddresses 获取当前用户地址簿，默认地址在前
func (h *Handler) ListAddresses(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addresses, err := h.AddressService.List(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load addresses", err)
		return
	}
	response.Success(c, gin.H{"addresses": addresses})
}

// GetAddress 获取单个地址
func (h *Handler) GetAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseAddressID(c)
	if !ok {
		return
	}
	address, err := h.AddressService.Get(uid, addressID)
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "failed to load address")
		return
	}
	response.Success(c, gin.H{"address": address})
}

// CreateAddress 新增地址，设为默认时清除其他默认标记
func (h *Handler) CreateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	address, err := h.AddressService.Create(uid, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "failed to create address")
		return
	}
	response.Success(c, gin.H{"address": address})
}

// UpdateAddress 更新地址
func (h *Handler) UpdateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseAddressID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	address, err := h.AddressService.Update(uid, addressID, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "failed to update address")
		return
	}
	response.Success(c, gin.H{"address": address})
}

// DeleteAddress 删除地址
func (h *Handler) DeleteAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseAddressID(c)
	if !ok {
		return
	}
	if err := h.AddressService.Delete(uid, addressID); err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "failed to delete address")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
