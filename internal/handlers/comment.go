package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yorumdesk/backend/internal/services"
	"github.com/yorumdesk/backend/pkg/response"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create accepts a comment and queues it for moderation
// POST /comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.Create(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Comment received and queued for processing", gin.H{"comment": comment})
}

// List returns all active comments
// GET /comments
func (h *CommentHandler) List(c *gin.Context) {
	comments, err := h.commentService.List()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Comments listed", gin.H{"comments": comments})
}

// Get returns one comment with its analysis and quality history
// GET /comments/:id
func (h *CommentHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "Invalid comment id")
		return
	}

	comment, analyzers, scores, err := h.commentService.GetByID(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Comment loaded", gin.H{
		"comment":        comment,
		"analyzers":      analyzers,
		"quality_scores": scores,
	})
}

// FilterByStatus returns comments with exactly the given status. A status
// matching nothing yields an empty list.
// GET /comments/status/filter?status=...
func (h *CommentHandler) FilterByStatus(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		response.BadRequest(c, "Status parameter is required")
		return
	}

	comments, err := h.commentService.FilterByStatus(status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Comments listed", gin.H{"comments": comments})
}

type updateStatusRequest struct {
	ID     uint   `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// UpdateStatus force-sets the status of a comment. The status must be one of
// the known values; unknown ids are a 404.
// POST /comments/update/answered
func (h *CommentHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.UpdateStatus(req.ID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Comment status updated", gin.H{"comment": comment})
}

type approveRequest struct {
	ID       uint   `json:"id" binding:"required"`
	Response string `json:"response"`
}

// Approve moves a reviewed comment to APPROVED, optionally replacing the
// drafted response with moderator-edited text
// POST /comments/approve
func (h *CommentHandler) Approve(c *gin.Context) {
	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.Approve(req.ID, req.Response)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Comment approved", gin.H{"comment": comment})
}

type commentIDRequest struct {
	ID uint `json:"id" binding:"required"`
}

// Reject moves a reviewed comment to REJECTED
// POST /comments/reject
func (h *CommentHandler) Reject(c *gin.Context) {
	var req commentIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.Reject(req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Comment rejected", gin.H{"comment": comment})
}

// Reprocess re-runs the moderation pipeline for a comment
// POST /comments/reprocess
func (h *CommentHandler) Reprocess(c *gin.Context) {
	var req commentIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.Reprocess(req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Comment queued for reprocessing", gin.H{"comment": comment})
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
