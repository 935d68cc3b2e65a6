package handlers

import (
	"strconv"

	"github.com/DavidAcosta7/local-commerce-platform/internal/services"
	"github.com/DavidAcosta7/local-commerce-platform/internal/utils"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService *services.CommentService
	likeService    *services.LikeService
}

func NewCommentHandler(commentService *services.CommentService, likeService *services.LikeService) *CommentHandler {
	return &CommentHandler{commentService: commentService, likeService: likeService}
}

// SubmitComment creates a pending comment awaiting moderation
func (h *CommentHandler) SubmitComment(c *gin.Context) {
	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid JSON data: "+err.Error())
		return
	}

	userID := c.GetUint("user_id")
	comment, err := h.commentService.Submit(userID, req)
	if err != nil {
		sendServiceError(c, "Failed to submit comment", err)
		return
	}

	utils.SendSuccess(c, "Comment submitted and awaiting moderation", comment)
}

// GetMerchantComments lists a merchant's approved comments
func (h *CommentHandler) GetMerchantComments(c *gin.Context) {
	merchantID, err := strconv.ParseUint(c.Param("merchant_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid merchant ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	comments, err := h.commentService.MerchantComments(uint(merchantID), page, limit)
	if err != nil {
		sendServiceError(c, "Failed to fetch comments", err)
		return
	}

	utils.SendSuccess(c, "Comments retrieved successfully", comments)
}

// ToggleLike likes or unlikes a comment for the caller
func (h *CommentHandler) ToggleLike(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid comment ID")
		return
	}

	userID := c.GetUint("user_id")
	result, err := h.likeService.Toggle(uint(commentID), userID)
	if err != nil {
		sendServiceError(c, "Failed to toggle like", err)
		return
	}

	utils.SendSuccess(c, "Like toggled successfully", result)
}
