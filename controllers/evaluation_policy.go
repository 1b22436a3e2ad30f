package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"idea-portfolio-api/evaluation"
)

type financialPreviewRequest struct {
	EstimatedCost   *decimal.Decimal `json:"estimated_cost"`
	ExpectedSavings *decimal.Decimal `json:"expected_savings"`
}

// POST /api/v1/evaluation/financials
// Runs the calculator without touching any idea.
func PreviewFinancials(c *gin.Context) {
	var req financialPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	cost, err := requiredAmount("estimated_cost", req.EstimatedCost)
	if err != nil {
		respondError(c, err)
		return
	}
	savings, err := requiredAmount("expected_savings", req.ExpectedSavings)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := evaluation.ValidateAmount("estimated_cost", cost); err != nil {
		respondError(c, err)
		return
	}
	if err := evaluation.ValidateAmount("expected_savings", savings); err != nil {
		respondError(c, err)
		return
	}

	f := evaluation.ComputeFinancials(cost, savings)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": f})
}

type policyStageView struct {
	Stage     evaluation.Stage    `json:"stage"`
	Label     string              `json:"label"`
	Kind      evaluation.GateKind `json:"kind"`
	Threshold *float64            `json:"threshold,omitempty"`
	Criteria  []string            `json:"criteria,omitempty"`
}

func policyView(table evaluation.PolicyTable) []policyStageView {
	out := make([]policyStageView, 0, len(evaluation.Stages))
	for _, stage := range evaluation.Stages {
		rule, ok := table[stage]
		if !ok {
			continue
		}
		v := policyStageView{Stage: stage, Label: stage.Label(), Kind: rule.Kind, Criteria: evaluation.Criteria[stage]}
		if rule.Numeric() {
			threshold := rule.Threshold
			v.Threshold = &threshold
		}
		out = append(out, v)
	}
	return out
}

// GET /api/v1/evaluation/policy
func GetEvaluationPolicy(c *gin.Context) {
	table, err := newPolicyService().Effective(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": policyView(table)})
}

// PUT /api/v1/evaluation/policy/:stage
func UpdateEvaluationPolicy(c *gin.Context) {
	stage, err := evaluation.ParseStage(c.Param("stage"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Threshold *float64 `json:"threshold"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Threshold == nil {
		respondError(c, &evaluation.ValidationError{Field: "threshold", Message: "is required"})
		return
	}

	table, err := newPolicyService().SetOverride(c.Request.Context(), stage, *req.Threshold, actorUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": policyView(table)})
}
