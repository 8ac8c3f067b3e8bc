package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yorumdesk/backend/internal/services"
	"github.com/yorumdesk/backend/pkg/response"
	"gorm.io/gorm"
)

// SystemHandler exposes the admin surface: system logs, configuration
// groups and the digest trigger.
type SystemHandler struct {
	logService    *services.SystemLogService
	configService *services.SystemConfigService
	reportService *services.DailyReportService
}

func NewSystemHandler(db *gorm.DB, reportService *services.DailyReportService) *SystemHandler {
	return &SystemHandler{
		logService:    services.NewSystemLogService(db),
		configService: services.NewSystemConfigService(db),
		reportService: reportService,
	}
}

// ListLogs returns paginated system logs
// GET /api/system/logs
func (h *SystemHandler) ListLogs(c *gin.Context) {
	var req services.SystemLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.logService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, "Logs listed", resp)
}

// ListLogModules returns the distinct log module names
// GET /api/system/logs/modules
func (h *SystemHandler) ListLogModules(c *gin.Context) {
	modules, err := h.logService.GetModules()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, "Modules listed", gin.H{"modules": modules})
}

// GetConfigGroup returns all configuration rows of one group
// GET /api/system/config/:group
func (h *SystemHandler) GetConfigGroup(c *gin.Context) {
	configs, err := h.configService.GetByGroup(c.Param("group"))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, "Configuration loaded", gin.H{"configs": configs})
}

type setConfigRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

// SetConfig updates one configuration key
// PUT /api/system/config
func (h *SystemHandler) SetConfig(c *gin.Context) {
	var req setConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.configService.Set(req.Key, req.Value); err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, "Configuration updated", nil)
}

// TriggerDigest generates and sends today's moderation digest immediately
// POST /api/system/digest
func (h *SystemHandler) TriggerDigest(c *gin.Context) {
	if err := h.reportService.GenerateAndSendReport(); err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, "Digest generated", nil)
}
