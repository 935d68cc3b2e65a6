package handlers

import (
	"strconv"

	"github.com/DavidAcosta7/local-commerce-platform/internal/services"
	"github.com/DavidAcosta7/local-commerce-platform/internal/utils"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	moderationService *services.ModerationService
	merchantService   *services.MerchantService
	accountService    *services.AccountService
	auditService      *services.AuditService
}

func NewAdminHandler(moderationService *services.ModerationService, merchantService *services.MerchantService, accountService *services.AccountService, auditService *services.AuditService) *AdminHandler {
	return &AdminHandler{
		moderationService: moderationService,
		merchantService:   merchantService,
		accountService:    accountService,
		auditService:      auditService,
	}
}

func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.accountService.DashboardStats()
	if err != nil {
		sendServiceError(c, "Failed to fetch dashboard stats", err)
		return
	}

	utils.SendSuccess(c, "Dashboard stats retrieved successfully", stats)
}

// GetAllComments returns every comment, approved and pending, newest first
func (h *AdminHandler) GetAllComments(c *gin.Context) {
	comments, err := h.moderationService.AllComments()
	if err != nil {
		sendServiceError(c, "Failed to fetch comments", err)
		return
	}

	utils.SendSuccess(c, "Comments retrieved successfully", comments)
}

// GetPendingComments returns the moderation queue, oldest first
func (h *AdminHandler) GetPendingComments(c *gin.Context) {
	comments, err := h.moderationService.PendingComments()
	if err != nil {
		sendServiceError(c, "Failed to fetch pending comments", err)
		return
	}

	utils.SendSuccess(c, "Pending comments retrieved successfully", comments)
}

func (h *AdminHandler) ApproveComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid comment ID")
		return
	}

	adminID := c.GetUint("user_id")
	if err := h.moderationService.Approve(uint(commentID), adminID); err != nil {
		sendServiceError(c, "Failed to approve comment", err)
		return
	}

	utils.SendSuccess(c, "Comment approved successfully", nil)
}

func (h *AdminHandler) RejectComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid comment ID")
		return
	}

	adminID := c.GetUint("user_id")
	if err := h.moderationService.Reject(uint(commentID), adminID); err != nil {
		sendServiceError(c, "Failed to reject comment", err)
		return
	}

	utils.SendSuccess(c, "Comment rejected successfully", nil)
}

func (h *AdminHandler) DeleteComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid comment ID")
		return
	}

	adminID := c.GetUint("user_id")
	if err := h.moderationService.Delete(uint(commentID), adminID); err != nil {
		sendServiceError(c, "Failed to delete comment", err)
		return
	}

	utils.SendSuccess(c, "Comment deleted successfully", nil)
}

// GetAllMerchants returns every merchant, verified or not, newest first
func (h *AdminHandler) GetAllMerchants(c *gin.Context) {
	merchants, err := h.merchantService.AllMerchants()
	if err != nil {
		sendServiceError(c, "Failed to fetch merchants", err)
		return
	}

	utils.SendSuccess(c, "Merchants retrieved successfully", merchants)
}

// GetUnverifiedMerchants returns the verification queue, oldest first
func (h *AdminHandler) GetUnverifiedMerchants(c *gin.Context) {
	merchants, err := h.merchantService.UnverifiedMerchants()
	if err != nil {
		sendServiceError(c, "Failed to fetch unverified merchants", err)
		return
	}

	utils.SendSuccess(c, "Unverified merchants retrieved successfully", merchants)
}

func (h *AdminHandler) VerifyMerchant(c *gin.Context) {
	merchantID, err := strconv.ParseUint(c.Param("merchant_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid merchant ID")
		return
	}

	adminID := c.GetUint("user_id")
	if err := h.merchantService.Verify(uint(merchantID), adminID); err != nil {
		sendServiceError(c, "Failed to verify merchant", err)
		return
	}

	utils.SendSuccess(c, "Merchant verified successfully", nil)
}

func (h *AdminHandler) DeleteMerchant(c *gin.Context) {
	merchantID, err := strconv.ParseUint(c.Param("merchant_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid merchant ID")
		return
	}

	adminID := c.GetUint("user_id")
	if err := h.merchantService.Delete(uint(merchantID), adminID); err != nil {
		sendServiceError(c, "Failed to delete merchant", err)
		return
	}

	utils.SendSuccess(c, "Merchant deleted successfully", nil)
}

func (h *AdminHandler) GetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	users, err := h.accountService.ListUsers(page, limit)
	if err != nil {
		sendServiceError(c, "Failed to fetch users", err)
		return
	}

	utils.SendSuccess(c, "Users retrieved successfully", users)
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid user ID")
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid JSON data: "+err.Error())
		return
	}

	adminID := c.GetUint("user_id")
	if err := h.accountService.UpdateRole(uint(userID), adminID, req.Role); err != nil {
		sendServiceError(c, "Failed to update user role", err)
		return
	}

	utils.SendSuccess(c, "User role updated successfully", nil)
}

func (h *AdminHandler) ChangeUserPassword(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid user ID")
		return
	}

	var req struct {
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid JSON data: "+err.Error())
		return
	}

	adminID := c.GetUint("user_id")
	if err := h.accountService.ChangePassword(uint(userID), adminID, req.NewPassword); err != nil {
		sendServiceError(c, "Failed to change user password", err)
		return
	}

	utils.SendSuccess(c, "User password changed successfully", nil)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid user ID")
		return
	}

	adminID := c.GetUint("user_id")
	if err := h.accountService.DeleteUser(uint(userID), adminID); err != nil {
		sendServiceError(c, "Failed to delete user", err)
		return
	}

	utils.SendSuccess(c, "User deleted successfully", nil)
}

// GetAuditLog returns the most recent admin actions, newest first
func (h *AdminHandler) GetAuditLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.auditService.ListRecent(limit)
	if err != nil {
		sendServiceError(c, "Failed to fetch audit log", err)
		return
	}

	utils.SendSuccess(c, "Audit log retrieved successfully", entries)
}
