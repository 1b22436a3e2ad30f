package services

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"idea-portfolio-api/evaluation"
	"idea-portfolio-api/models"
)

func TestStageNotifierMailsAndStoresNotification(t *testing.T) {
	steps := []*queryStep{
		{kind: kindExec, pattern: regexp.MustCompile("INSERT INTO `notifications`"), result: scriptedResult{lastInsertID: 11, rowsAffected: 1}},
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	var (
		sentTo      []string
		sentSubject string
		sentHTML    string
	)
	n := NewStageNotifier(gormDB, func(to []string, subject, html string) error {
		sentTo, sentSubject, sentHTML = to, subject, html
		return nil
	})

	email := "priya@example.org"
	userID := 3
	idea := models.Idea{ID: "idea-1", Title: "Reuse crates", SubmitterEmail: &email, SubmitterUserID: &userID}
	entry := models.IdeaStageHistory{
		FromStage:    evaluation.StageL5,
		ToStage:      evaluation.StageL5,
		FromStatus:   evaluation.StatusInProgress,
		ToStatus:     evaluation.StatusApproved,
		Decision:     evaluation.DecisionAdvance,
		ChangedBy:    "Chief Ops",
		ChangeReason: "strong fit",
	}
	n.StageChanged(context.Background(), idea, entry)

	if len(sentTo) != 1 || sentTo[0] != email {
		t.Fatalf("unexpected recipients %v", sentTo)
	}
	if sentSubject != "Idea approved: Reuse crates" {
		t.Fatalf("unexpected subject %q", sentSubject)
	}
	for _, want := range []string{"<h2>Reuse crates</h2>", "<table>", "<strong>advance</strong>", "<blockquote>"} {
		if !strings.Contains(sentHTML, want) {
			t.Fatalf("expected %q in html:\n%s", want, sentHTML)
		}
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestStageNotifierSkipsAnonymousSubmitter(t *testing.T) {
	gormDB, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	called := false
	n := NewStageNotifier(gormDB, func([]string, string, string) error {
		called = true
		return nil
	})
	n.StageChanged(context.Background(), models.Idea{ID: "idea-2", Title: "x"}, models.IdeaStageHistory{
		ToStatus: evaluation.StatusRejected,
	})
	if called {
		t.Fatalf("mail must not be sent without a submitter email")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestNotificationType(t *testing.T) {
	cases := map[evaluation.Status]string{
		evaluation.StatusApproved:   "success",
		evaluation.StatusRejected:   "error",
		evaluation.StatusOnHold:     "warning",
		evaluation.StatusInProgress: "info",
	}
	for status, want := range cases {
		if got := notificationType(status); got != want {
			t.Fatalf("%s: got %s want %s", status, got, want)
		}
	}
}

func TestStageMessageIncludesFinancials(t *testing.T) {
	idea := models.Idea{ID: "idea-3", Title: "Solar roof"}
	idea.Financial.NetSavings = decimal.NewNullDecimal(decimal.NewFromInt(1250000))
	idea.Financial.ROIPercentage = decimal.NewNullDecimal(decimal.RequireFromString("25"))

	title, body := stageMessage(idea, models.IdeaStageHistory{
		FromStage: evaluation.StageL3,
		ToStage:   evaluation.StageL4,
		ToStatus:  evaluation.StatusInProgress,
		Decision:  evaluation.DecisionAdvance,
	})
	if title != "Idea moved to L4: Solar roof" {
		t.Fatalf("unexpected title %q", title)
	}
	for _, want := range []string{"| Net savings | 1,250,000.00 |", "| ROI | 25.00% |"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body:\n%s", want, body)
		}
	}
}
