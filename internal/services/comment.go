package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yorumdesk/backend/internal/agent"
	"github.com/yorumdesk/backend/internal/models"
	"github.com/yorumdesk/backend/pkg/logger"
	"github.com/yorumdesk/backend/pkg/response"
	"gorm.io/gorm"
)

// CommentService owns the comment lifecycle: submission, pipeline dispatch
// and the moderation state machine.
type CommentService struct {
	db            *gorm.DB
	llm           *LLMService
	configService *SystemConfigService
}

func NewCommentService(db *gorm.DB, llm *LLMService) *CommentService {
	return &CommentService{
		db:            db,
		llm:           llm,
		configService: NewSystemConfigService(db),
	}
}

// CreateCommentRequest is the submission payload.
type CreateCommentRequest struct {
	CustomerID  string `json:"customer_id" binding:"required"`
	ProductName string `json:"product_name" binding:"required"`
	ContentID   string `json:"content_id" binding:"required"`
	Content     string `json:"content" binding:"required"`
	WebURL      string `json:"web_url"`
}

// Create stores the comment as WAITING_FOR_ANSWER and enqueues it for the
// moderation pipeline.
func (s *CommentService) Create(req *CreateCommentRequest) (*models.Comment, error) {
	comment := models.Comment{
		CustomerID:  req.CustomerID,
		ProductName: req.ProductName,
		ContentID:   req.ContentID,
		Content:     req.Content,
		WebURL:      req.WebURL,
		Response:    models.ResponsePlaceholder,
		Status:      models.StatusWaitingForAnswer,
		IsActive:    true,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, response.NewServerError("Comment could not be created")
	}

	task := &CommentTask{CommentID: comment.ID, Content: comment.Content}
	if queue := GetTaskQueue(); queue != nil {
		if err := queue.Enqueue(task); err != nil {
			logger.Errorf("[Comment] Failed to enqueue comment %d: %v", comment.ID, err)
			s.db.Model(&comment).Update("status", models.StatusError)
		}
	}

	return &comment, nil
}

// ProcessTask runs the moderation pipeline for an enqueued comment. It is
// registered as the processor on both queue implementations.
func (s *CommentService) ProcessTask(ctx context.Context, task *CommentTask) error {
	enableQuality := true
	if v, err := s.configService.Get("pipeline_quality_check_enabled"); err == nil && v == "false" {
		enableQuality = false
	}

	agent.Process(ctx, s.db, s.llm, task.CommentID, task.Content, enableQuality)
	return nil
}

// List returns all active comments, newest first.
func (s *CommentService) List() ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	if err := s.db.Where("is_active = ?", true).Order("created_at DESC").Find(&comments).Error; err != nil {
		return nil, response.NewServerError("Comments could not be listed")
	}
	return comments, nil
}

// GetByID returns one comment with its analysis runs and quality scores.
func (s *CommentService) GetByID(id uint) (*models.Comment, []models.CommentAnalyzer, []models.CommentQualityScore, error) {
	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, response.NewNotFound("Comment not found")
		}
		return nil, nil, nil, response.NewServerError("Comment could not be loaded")
	}

	var analyzers []models.CommentAnalyzer
	s.db.Where("comment_id = ?", comment.ID).Order("analyzed_at DESC").Find(&analyzers)

	var scores []models.CommentQualityScore
	s.db.Where("comment_id = ?", comment.ID).Order("created_at DESC").Find(&scores)

	return &comment, analyzers, scores, nil
}

// FilterByStatus returns comments whose status exactly matches the given
// value, case-sensitively. A status matching no stored comment yields an
// empty list, not an error.
func (s *CommentService) FilterByStatus(status string) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	if err := s.db.Where("status = ? AND is_active = ?", status, true).
		Order("created_at DESC").Find(&comments).Error; err != nil {
		return nil, response.NewServerError("Comments could not be listed")
	}
	return comments, nil
}

// UpdateStatus force-sets a comment's status to any known value. Used by
// operators to recover stuck comments; Approve is the normal path.
func (s *CommentService) UpdateStatus(id uint, status string) (*models.Comment, error) {
	if !models.ValidStatus(status) {
		return nil, response.NewBadRequest(fmt.Sprintf("Invalid status: %s", status))
	}

	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("Comment not found")
		}
		return nil, response.NewServerError("Comment could not be loaded")
	}

	comment.Status = status
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, response.NewServerError("Comment status could not be updated")
	}

	return &comment, nil
}

// Approve moves a comment from WAITING_FOR_APPROVE to APPROVED, optionally
// replacing the drafted response with moderator-edited text. Any other
// current status is a client error naming the required one.
func (s *CommentService) Approve(id uint, responseText string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("Comment not found")
		}
		return nil, response.NewServerError("Comment could not be loaded")
	}

	if comment.Status != models.StatusWaitingForApprove {
		return nil, response.NewBadRequest(fmt.Sprintf(
			"Comment status must be %s to approve, current status is %s",
			models.StatusWaitingForApprove, comment.Status))
	}

	if responseText != "" {
		comment.Response = responseText
	}
	comment.Status = models.StatusApproved
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, response.NewServerError("Comment could not be approved")
	}

	return &comment, nil
}

// Reject moves a comment from WAITING_FOR_APPROVE to REJECTED.
func (s *CommentService) Reject(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("Comment not found")
		}
		return nil, response.NewServerError("Comment could not be loaded")
	}

	if comment.Status != models.StatusWaitingForApprove {
		return nil, response.NewBadRequest(fmt.Sprintf(
			"Comment status must be %s to reject, current status is %s",
			models.StatusWaitingForApprove, comment.Status))
	}

	comment.Status = models.StatusRejected
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, response.NewServerError("Comment could not be rejected")
	}

	return &comment, nil
}

// Reprocess re-enqueues an existing comment through the pipeline. Useful
// after an ERROR outcome or a provider change.
func (s *CommentService) Reprocess(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("Comment not found")
		}
		return nil, response.NewServerError("Comment could not be loaded")
	}

	comment.Status = models.StatusWaitingForAnswer
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, response.NewServerError("Comment status could not be updated")
	}

	task := &CommentTask{CommentID: comment.ID, Content: comment.Content}
	if queue := GetTaskQueue(); queue != nil {
		if err := queue.Enqueue(task); err != nil {
			logger.Errorf("[Comment] Failed to re-enqueue comment %d: %v", comment.ID, err)
			s.db.Model(&comment).Update("status", models.StatusError)
			return nil, response.NewServerError("Comment could not be queued for processing")
		}
	}

	return &comment, nil
}
