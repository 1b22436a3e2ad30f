package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gorm.io/gorm"

	"idea-portfolio-api/config"
	"idea-portfolio-api/evaluation"
	"idea-portfolio-api/models"
	"idea-portfolio-api/utils"
)

// Notifier is told about committed stage changes. Delivery is best effort
// and never fails the evaluation.
type Notifier interface {
	StageChanged(ctx context.Context, idea models.Idea, entry models.IdeaStageHistory)
}

// MailFunc sends an HTML message.
type MailFunc func(to []string, subject, html string) error

// StageNotifier mails the submitter and drops an in-app notification for
// the submitting user.
type StageNotifier struct {
	db   *gorm.DB
	send MailFunc
	md   goldmark.Markdown
}

func NewStageNotifier(db *gorm.DB, send MailFunc) *StageNotifier {
	if db == nil {
		db = config.DB
	}
	if send == nil {
		send = config.SendMail
	}
	return &StageNotifier{
		db:   db,
		send: send,
		md:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (n *StageNotifier) StageChanged(ctx context.Context, idea models.Idea, entry models.IdeaStageHistory) {
	title, body := stageMessage(idea, entry)

	if idea.SubmitterEmail != nil && *idea.SubmitterEmail != "" {
		html, err := n.renderHTML(body)
		if err != nil {
			log.Printf("notify: render message for idea %s: %v", idea.ID, err)
		} else if err := n.send([]string{*idea.SubmitterEmail}, title, html); err != nil {
			log.Printf("notify: mail for idea %s: %v", idea.ID, err)
		}
	}

	if idea.SubmitterUserID != nil {
		ideaID := idea.ID
		note := models.Notification{
			UserID:        uint(*idea.SubmitterUserID),
			Title:         title,
			Message:       body,
			Type:          notificationType(entry.ToStatus),
			RelatedIdeaID: &ideaID,
			CreateAt:      time.Now(),
		}
		if err := n.db.WithContext(ctx).Create(&note).Error; err != nil {
			log.Printf("notify: in-app notification for idea %s: %v", idea.ID, err)
		}
	}
}

func (n *StageNotifier) renderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := n.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return "<!doctype html><html><head><meta charset='utf-8'></head><body>" + buf.String() + "</body></html>", nil
}

func stageMessage(idea models.Idea, entry models.IdeaStageHistory) (string, string) {
	var title string
	switch entry.ToStatus {
	case evaluation.StatusApproved:
		title = fmt.Sprintf("Idea approved: %s", idea.Title)
	case evaluation.StatusRejected:
		title = fmt.Sprintf("Idea not progressed at %s: %s", entry.FromStage, idea.Title)
	case evaluation.StatusOnHold:
		title = fmt.Sprintf("Idea on hold: %s", idea.Title)
	default:
		title = fmt.Sprintf("Idea moved to %s: %s", entry.ToStage, idea.Title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", idea.Title)
	b.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Stage | %s → %s |\n", entry.FromStage.Label(), entry.ToStage.Label())
	fmt.Fprintf(&b, "| Status | %s → %s |\n", entry.FromStatus, entry.ToStatus)
	fmt.Fprintf(&b, "| Decision | **%s** |\n", entry.Decision)
	fmt.Fprintf(&b, "| Reviewer | %s |\n", entry.ChangedBy)
	if idea.Financial.NetSavings.Valid {
		fmt.Fprintf(&b, "| Net savings | %s |\n", utils.FormatNullAmount(idea.Financial.NetSavings))
		fmt.Fprintf(&b, "| ROI | %s%% |\n", idea.Financial.ROIPercentage.Decimal.StringFixed(2))
	}
	fmt.Fprintf(&b, "| Date | %s |\n\n", utils.FormatDate(entry.CreatedAt))
	if entry.ChangeReason != "" {
		fmt.Fprintf(&b, "> %s\n", entry.ChangeReason)
	}
	return title, b.String()
}

func notificationType(status evaluation.Status) string {
	switch status {
	case evaluation.StatusApproved:
		return "success"
	case evaluation.StatusRejected:
		return "error"
	case evaluation.StatusOnHold:
		return "warning"
	}
	return "info"
}
