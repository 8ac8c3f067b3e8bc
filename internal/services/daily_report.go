package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/yorumdesk/backend/internal/models"
	"github.com/yorumdesk/backend/pkg/logger"
	"gorm.io/gorm"
)

// DailyReportService generates the daily moderation digest and mails it to
// the configured recipients. The digest is skipped on non-working days of
// the configured country.
type DailyReportService struct {
	db             *gorm.DB
	email          *EmailService
	holiday        *HolidayService
	configSvc      *SystemConfigService
	cronScheduler  *cron.Cron
	currentEntryID cron.EntryID
}

func NewDailyReportService(db *gorm.DB, email *EmailService, holiday *HolidayService) *DailyReportService {
	return &DailyReportService{
		db:        db,
		email:     email,
		holiday:   holiday,
		configSvc: NewSystemConfigService(db),
	}
}

type negativeCommentSummary struct {
	CommentID   uint    `json:"comment_id"`
	ProductName string  `json:"product_name"`
	Sentiment   string  `json:"sentiment"`
	Score       float64 `json:"score"`
	Summary     string  `json:"summary"`
}

func (s *DailyReportService) StartScheduler() {
	s.cronScheduler = cron.New()
	s.updateSchedule()
	s.cronScheduler.Start()
	logger.Infof("[DailyReport] Scheduler started")
}

func (s *DailyReportService) StopScheduler() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

func (s *DailyReportService) updateSchedule() {
	if s.currentEntryID != 0 {
		s.cronScheduler.Remove(s.currentEntryID)
	}

	reportTime := s.configSvc.GetWithDefault("daily_report_time", "18:00")
	parts := strings.Split(reportTime, ":")
	hour := "18"
	minute := "0"
	if len(parts) == 2 {
		hour = parts[0]
		minute = parts[1]
	}

	cronExpr := fmt.Sprintf("%s %s * * *", minute, hour)

	entryID, err := s.cronScheduler.AddFunc(cronExpr, func() {
		if err := s.GenerateAndSendReport(); err != nil {
			logger.Errorf("[DailyReport] Scheduled run failed: %v", err)
		}
	})
	if err != nil {
		logger.Errorf("[DailyReport] Failed to add cron job: %v", err)
		return
	}

	s.currentEntryID = entryID
	logger.Infof("[DailyReport] Scheduled at %s (cron: %s)", reportTime, cronExpr)
}

// GenerateAndSendReport builds today's digest and mails it. It is a no-op
// when the feature is disabled or today is a holiday.
func (s *DailyReportService) GenerateAndSendReport() error {
	if s.configSvc.GetWithDefault("daily_report_enabled", "false") != "true" {
		return nil
	}

	country := s.configSvc.GetWithDefault("daily_report_country", "TR")
	if !s.holiday.IsWorkday(time.Now(), country) {
		logger.Infof("[DailyReport] Skipping digest, not a working day in %s", country)
		return nil
	}

	report, err := s.GenerateReport()
	if err != nil {
		return err
	}

	recipients := s.getRecipients()
	if len(recipients) == 0 {
		logger.Infof("[DailyReport] No recipients configured, digest not sent")
		return nil
	}

	subject := fmt.Sprintf("YorumDesk - Günlük Moderasyon Özeti %s", report.ReportDate.Format("2006-01-02"))
	if err := s.email.SendDigest(recipients, subject, s.buildDigestBody(report)); err != nil {
		report.NotifyError = err.Error()
		s.db.Save(report)
		return err
	}

	now := time.Now()
	report.NotifiedAt = &now
	s.db.Save(report)

	logger.Infof("[DailyReport] Digest generated and sent (ID: %d)", report.ID)
	return nil
}

// GenerateReport collects today's numbers into a DailyReport row. Rerunning
// on the same day updates the existing row.
func (s *DailyReportService) GenerateReport() (*models.DailyReport, error) {
	today := time.Now()
	startOfDay := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	report := s.collect(startOfDay, endOfDay)

	var existing models.DailyReport
	if err := s.db.Where("report_date = ?", startOfDay).First(&existing).Error; err == nil {
		report.ID = existing.ID
		report.CreatedAt = existing.CreatedAt
		report.NotifiedAt = existing.NotifiedAt
		if err := s.db.Save(report).Error; err != nil {
			return nil, err
		}
	} else {
		if err := s.db.Create(report).Error; err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (s *DailyReportService) collect(startTime, endTime time.Time) *models.DailyReport {
	report := &models.DailyReport{ReportDate: startTime}

	var total int64
	s.db.Model(&models.Comment{}).
		Where("created_at BETWEEN ? AND ?", startTime, endTime).
		Count(&total)
	report.TotalComments = int(total)

	statusCounts := map[string]*int{
		models.StatusWaitingForAnswer:  &report.WaitingAnswer,
		models.StatusWaitingForApprove: &report.WaitingApprove,
		models.StatusApproved:          &report.ApprovedCount,
		models.StatusRejected:          &report.RejectedCount,
		models.StatusError:             &report.ErrorCount,
	}
	for status, target := range statusCounts {
		var count int64
		s.db.Model(&models.Comment{}).
			Where("created_at BETWEEN ? AND ? AND status = ?", startTime, endTime, status).
			Count(&count)
		*target = int(count)
	}

	s.db.Model(&models.CommentQualityScore{}).
		Where("created_at BETWEEN ? AND ?", startTime, endTime).
		Select("COALESCE(AVG(overall), 0)").
		Scan(&report.AverageQuality)

	var negatives []negativeCommentSummary
	s.db.Model(&models.CommentAnalyzer{}).
		Select("comment_analyzers.comment_id, comments.product_name, comment_analyzers.sentiment, comment_analyzers.sentiment_score as score, comment_analyzers.summary").
		Joins("JOIN comments ON comments.id = comment_analyzers.comment_id").
		Where("comment_analyzers.created_at BETWEEN ? AND ? AND comment_analyzers.sentiment IN ?",
			startTime, endTime, []string{"negative", "negatif"}).
		Order("comment_analyzers.sentiment_score ASC").
		Limit(10).
		Scan(&negatives)
	if b, err := json.Marshal(negatives); err == nil {
		report.NegativeComments = string(b)
	}

	return report
}

func (s *DailyReportService) getRecipients() []string {
	raw := s.configSvc.GetWithDefault("daily_report_recipients", "")
	if raw == "" {
		return nil
	}

	var recipients []string
	for _, r := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(r); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	return recipients
}

func (s *DailyReportService) buildDigestBody(report *models.DailyReport) string {
	var sb strings.Builder

	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString("<h2>Günlük Moderasyon Özeti</h2>")
	sb.WriteString("<table style=\"border-collapse: collapse; margin-bottom: 20px;\">")

	rows := []struct {
		label string
		value string
	}{
		{"Tarih", report.ReportDate.Format("2006-01-02")},
		{"Toplam Yorum", fmt.Sprintf("%d", report.TotalComments)},
		{"Yanıt Bekleyen", fmt.Sprintf("%d", report.WaitingAnswer)},
		{"Onay Bekleyen", fmt.Sprintf("%d", report.WaitingApprove)},
		{"Onaylanan", fmt.Sprintf("%d", report.ApprovedCount)},
		{"Reddedilen", fmt.Sprintf("%d", report.RejectedCount)},
		{"Hatalı", fmt.Sprintf("%d", report.ErrorCount)},
		{"Ortalama Kalite", fmt.Sprintf("%.1f / 10", report.AverageQuality)},
	}
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf(
			"<tr><td style=\"padding: 8px; border: 1px solid #ddd; font-weight: bold;\">%s</td><td style=\"padding: 8px; border: 1px solid #ddd;\">%s</td></tr>",
			r.label, r.value))
	}
	sb.WriteString("</table>")

	var negatives []negativeCommentSummary
	if report.NegativeComments != "" {
		json.Unmarshal([]byte(report.NegativeComments), &negatives)
	}
	if len(negatives) > 0 {
		sb.WriteString("<h3>Olumsuz Yorumlar</h3><ul>")
		for _, n := range negatives {
			sb.WriteString(fmt.Sprintf("<li><b>%s</b> (%.1f): %s</li>", n.ProductName, n.Score, n.Summary))
		}
		sb.WriteString("</ul>")
	}

	sb.WriteString("<hr><p style=\"color: #888; font-size: 12px;\">YorumDesk</p>")
	sb.WriteString("</body></html>")

	return sb.String()
}
