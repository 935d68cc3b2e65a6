package handlers

import (
	"strconv"

	"github.com/DavidAcosta7/local-commerce-platform/internal/models"
	"github.com/DavidAcosta7/local-commerce-platform/internal/services"
	"github.com/DavidAcosta7/local-commerce-platform/internal/utils"
	"github.com/gin-gonic/gin"
)

type MerchantHandler struct {
	merchantService *services.MerchantService
}

func NewMerchantHandler(merchantService *services.MerchantService) *MerchantHandler {
	return &MerchantHandler{merchantService: merchantService}
}

func (h *MerchantHandler) CreateMerchant(c *gin.Context) {
	var req models.CreateMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid JSON data: "+err.Error())
		return
	}

	ownerID := c.GetUint("user_id")
	merchant, err := h.merchantService.Create(ownerID, req)
	if err != nil {
		sendServiceError(c, "Failed to create merchant", err)
		return
	}

	utils.SendSuccess(c, "Merchant created successfully", merchant)
}

func (h *MerchantHandler) UpdateMerchant(c *gin.Context) {
	merchantID, err := strconv.ParseUint(c.Param("merchant_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid merchant ID")
		return
	}

	var req models.UpdateMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid JSON data: "+err.Error())
		return
	}

	callerID := c.GetUint("user_id")
	merchant, err := h.merchantService.Update(uint(merchantID), callerID, req)
	if err != nil {
		sendServiceError(c, "Failed to update merchant", err)
		return
	}

	utils.SendSuccess(c, "Merchant updated successfully", merchant)
}

func (h *MerchantHandler) GetMerchants(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	merchants, err := h.merchantService.List(c.Query("category"), c.Query("q"), page, limit)
	if err != nil {
		sendServiceError(c, "Failed to fetch merchants", err)
		return
	}

	utils.SendSuccess(c, "Merchants retrieved successfully", merchants)
}

func (h *MerchantHandler) GetMerchant(c *gin.Context) {
	merchantID, err := strconv.ParseUint(c.Param("merchant_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid merchant ID")
		return
	}

	merchant, err := h.merchantService.Get(uint(merchantID))
	if err != nil {
		sendServiceError(c, "Failed to fetch merchant", err)
		return
	}

	utils.SendSuccess(c, "Merchant retrieved successfully", merchant)
}

// GetMyMerchants lists the caller's own merchants for the owner panel
func (h *MerchantHandler) GetMyMerchants(c *gin.Context) {
	ownerID := c.GetUint("user_id")
	merchants, err := h.merchantService.OwnedBy(ownerID)
	if err != nil {
		sendServiceError(c, "Failed to fetch merchants", err)
		return
	}

	utils.SendSuccess(c, "Merchants retrieved successfully", merchants)
}
