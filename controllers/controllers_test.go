package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"

	"idea-portfolio-api/evaluation"
	"idea-portfolio-api/models"
	"idea-portfolio-api/services"
)

type apiResponse struct {
	Success bool                   `json:"success"`
	Error   string                 `json:"error"`
	Field   string                 `json:"field"`
	Data    map[string]interface{} `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return w, resp
}

// forbidIdeaService fails the test if a handler reaches the database layer.
func forbidIdeaService(t *testing.T) {
	t.Helper()
	prev := newIdeaService
	newIdeaService = func() *services.IdeaService {
		t.Fatalf("idea service must not be reached for invalid input")
		return nil
	}
	t.Cleanup(func() { newIdeaService = prev })
}

func TestPreviewFinancials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/financials", PreviewFinancials)

	w, resp := doJSON(t, r, http.MethodPost, "/financials", `{"estimated_cost": 100000, "expected_savings": 125000}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if resp.Data["net_savings"] != "25000" || resp.Data["roi_percentage"] != "25" || resp.Data["payback_period_months"] != "9.6" {
		t.Fatalf("unexpected figures %v", resp.Data)
	}

	w, resp = doJSON(t, r, http.MethodPost, "/financials", `{"estimated_cost": 5000, "expected_savings": 0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if resp.Data["payback_period_months"] != nil || resp.Data["roi_percentage"] != "-100" {
		t.Fatalf("zero benefit should have no payback and -100%% ROI, got %v", resp.Data)
	}

	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"missing cost", `{"expected_savings": 10}`, "estimated_cost"},
		{"missing savings", `{"estimated_cost": 10}`, "expected_savings"},
		{"negative cost", `{"estimated_cost": -1, "expected_savings": 10}`, "estimated_cost"},
		{"negative savings", `{"estimated_cost": 1, "expected_savings": -10}`, "expected_savings"},
		{"savings beyond storage", `{"estimated_cost": 1, "expected_savings": 1000000000000}`, "expected_savings"},
		{"sub-cent cost", `{"estimated_cost": 0.001, "expected_savings": 10}`, "estimated_cost"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := doJSON(t, r, http.MethodPost, "/financials", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if resp.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, resp.Field)
			}
		})
	}
}

func TestSubmitStageRejectsInvalidInput(t *testing.T) {
	forbidIdeaService(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/ideas/:id/evaluations/l1", SubmitL1Intake)
	r.POST("/ideas/:id/evaluations/l2", SubmitL2Screening)
	r.POST("/ideas/:id/evaluations/l3", SubmitL3BusinessCase)
	r.POST("/ideas/:id/evaluations/l5", SubmitL5ExecutiveDecision)

	fullL2 := `"ratings": {"strategic_alignment": 4, "feasibility": 3.5, "impact": 4, "innovation": 3}`

	cases := []struct {
		name  string
		path  string
		body  string
		field string
	}{
		{"intake without reviewer", "l1", `{"decision": "accept"}`, "reviewer"},
		{"intake unknown decision", "l1", `{"reviewer": "Ana", "decision": "maybe"}`, "decision"},
		{"screening missing criterion", "l2", `{"reviewer": "Ana", "ratings": {"strategic_alignment": 4}}`, "ratings.feasibility"},
		{"screening unknown criterion", "l2", `{"reviewer": "Ana", "ratings": {"strategic_alignment": 4, "feasibility": 3, "impact": 4, "innovation": 3, "vibes": 5}}`, "ratings"},
		{"screening without reviewer", "l2", `{` + fullL2 + `}`, "reviewer"},
		{"business case without cost", "l3", `{"reviewer": "Ana", "ratings": {"market_potential": 4, "implementation_risk": 3, "resource_availability": 4, "time_to_value": 3}, "expected_savings": 10}`, "estimated_cost"},
		{"executive without score", "l5", `{"approver": "CEO", "decision": "approve"}`, "strategic_score"},
		{"malformed body", "l2", `{"reviewer":`, "body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := doJSON(t, r, http.MethodPost, "/ideas/abc/evaluations/"+tc.path, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if resp.Field != tc.field {
				t.Fatalf("expected field %q, got %q (%s)", tc.field, resp.Field, resp.Error)
			}
		})
	}
}

func TestUpdateEvaluationPolicyValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PUT("/policy/:stage", UpdateEvaluationPolicy)

	w, _ := doJSON(t, r, http.MethodPut, "/policy/L9", `{"threshold": 3}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown stage: expected 400, got %d", w.Code)
	}

	w, resp := doJSON(t, r, http.MethodPut, "/policy/L2", `{}`)
	if w.Code != http.StatusBadRequest || resp.Field != "threshold" {
		t.Fatalf("missing threshold: expected 400 on threshold, got %d %q", w.Code, resp.Field)
	}
}

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &evaluation.ValidationError{Field: "title", Message: "is required"}, http.StatusBadRequest},
		{"unknown stage", fmt.Errorf("parse: %w", evaluation.ErrUnknownStage), http.StatusBadRequest},
		{"no numeric gate", evaluation.ErrNoNumericGate, http.StatusBadRequest},
		{"idea not found", services.ErrIdeaNotFound, http.StatusNotFound},
		{"contract not found", services.ErrContractNotFound, http.StatusNotFound},
		{"notification not found", services.ErrNotificationNotFound, http.StatusNotFound},
		{"stage mismatch", fmt.Errorf("evaluate: %w", evaluation.ErrStageMismatch), http.StatusConflict},
		{"stage closed", evaluation.ErrStageClosed, http.StatusConflict},
		{"duplicate contract", services.ErrDuplicateContract, http.StatusConflict},
		{"edit forbidden", services.ErrIdeaEditForbidden, http.StatusForbidden},
		{"deadlock", fmt.Errorf("save: %w", &mysql.MySQLError{Number: 1213, Message: "Deadlock found"}), http.StatusConflict},
		{"lock wait", &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout"}, http.StatusConflict},
		{"other mysql", &mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"}, http.StatusInternalServerError},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			respondError(c, tc.err)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, errors.New("dial tcp 10.0.0.5:3306: connection refused"))
	if bytes.Contains(w.Body.Bytes(), []byte("10.0.0.5")) {
		t.Fatalf("internal error detail leaked: %s", w.Body.String())
	}
}

func TestParseUintParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/projects/:id", func(c *gin.Context) {
		id, ok := parseUintParam(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"id": id}})
	})

	for path, want := range map[string]int{
		"/projects/12":  http.StatusOK,
		"/projects/0":   http.StatusBadRequest,
		"/projects/-3":  http.StatusBadRequest,
		"/projects/abc": http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != want {
			t.Errorf("%s: expected %d, got %d", path, want, w.Code)
		}
	}
}

func TestProjectRequestRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/projects", CreateProject)

	w, resp := doJSON(t, r, http.MethodPost, "/projects", `{"name": "Pilot", "start_date": "04/05/2026"}`)
	if w.Code != http.StatusBadRequest || resp.Field != "start_date" {
		t.Fatalf("expected 400 on start_date, got %d %q", w.Code, resp.Field)
	}
}

func TestActorUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if actorUserID(c) != nil {
		t.Fatal("expected nil actor without a user")
	}
	c.Set("userID", 7)
	if got := actorUserID(c); got == nil || *got != 7 {
		t.Fatalf("expected actor 7, got %v", got)
	}
}

func TestIdeaEditor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for role, privileged := range map[int]bool{
		models.RoleSubmitter: false,
		models.RoleReviewer:  true,
		models.RoleAdmin:     true,
		models.RoleExecutive: false,
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("userID", 11)
		c.Set("roleID", role)
		got := ideaEditor(c)
		if got.UserID != 11 || got.Privileged != privileged {
			t.Errorf("role %d: got %+v", role, got)
		}
	}
}
