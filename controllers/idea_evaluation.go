package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"idea-portfolio-api/evaluation"
	"idea-portfolio-api/utils"
)

type intakeRequest struct {
	Reviewer string `json:"reviewer"`
	Decision string `json:"decision"`
	Comments string `json:"comments"`
	Reason   string `json:"reason"`
}

type ratingRequest struct {
	Reviewer string             `json:"reviewer"`
	Ratings  map[string]float64 `json:"ratings"`
	Comments string             `json:"comments"`
	Reason   string             `json:"reason"`
}

type businessCaseRequest struct {
	ratingRequest
	EstimatedCost   *decimal.Decimal `json:"estimated_cost"`
	ExpectedSavings *decimal.Decimal `json:"expected_savings"`
	Capex           *decimal.Decimal `json:"capex"`
	Opex            *decimal.Decimal `json:"opex"`
	HeadcountImpact *int             `json:"headcount_impact"`
}

type executiveRequest struct {
	Approver       string   `json:"approver"`
	Decision       string   `json:"decision"`
	StrategicScore *float64 `json:"strategic_score"`
	Comments       string   `json:"comments"`
	Reason         string   `json:"reason"`
}

func requiredAmount(field string, v *decimal.Decimal) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, &evaluation.ValidationError{Field: field, Message: "is required"}
	}
	return *v, nil
}

func nullAmount(v *decimal.Decimal) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*v)
}

func parseVerdict(raw string) (evaluation.Decision, error) {
	d, err := utils.ParseDecision(raw)
	if err != nil {
		return "", &evaluation.ValidationError{Field: "decision", Message: err.Error()}
	}
	return d, nil
}

func buildIntake(c *gin.Context) (evaluation.Command, error) {
	var req intakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, &evaluation.ValidationError{Field: "body", Message: err.Error()}
	}
	verdict, err := parseVerdict(req.Decision)
	if err != nil {
		return nil, err
	}
	return evaluation.SubmitL1Intake{
		Reviewer: utils.SanitizeInput(req.Reviewer),
		Verdict:  verdict,
		Comments: req.Comments,
		Reason:   req.Reason,
	}, nil
}

func buildScreening(c *gin.Context) (evaluation.Command, error) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, &evaluation.ValidationError{Field: "body", Message: err.Error()}
	}
	ratings, err := evaluation.RatingsFromMap(evaluation.StageL2, req.Ratings)
	if err != nil {
		return nil, err
	}
	return evaluation.SubmitL2Screening{
		Reviewer: utils.SanitizeInput(req.Reviewer),
		Ratings:  ratings,
		Comments: req.Comments,
		Reason:   req.Reason,
	}, nil
}

func buildBusinessCase(c *gin.Context) (evaluation.Command, error) {
	var req businessCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, &evaluation.ValidationError{Field: "body", Message: err.Error()}
	}
	ratings, err := evaluation.RatingsFromMap(evaluation.StageL3, req.Ratings)
	if err != nil {
		return nil, err
	}
	cost, err := requiredAmount("estimated_cost", req.EstimatedCost)
	if err != nil {
		return nil, err
	}
	savings, err := requiredAmount("expected_savings", req.ExpectedSavings)
	if err != nil {
		return nil, err
	}
	return evaluation.SubmitL3BusinessCase{
		Reviewer:        utils.SanitizeInput(req.Reviewer),
		Ratings:         ratings,
		EstimatedCost:   cost,
		ExpectedSavings: savings,
		Capex:           nullAmount(req.Capex),
		Opex:            nullAmount(req.Opex),
		HeadcountImpact: req.HeadcountImpact,
		Comments:        req.Comments,
		Reason:          req.Reason,
	}, nil
}

func buildFeasibility(c *gin.Context) (evaluation.Command, error) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, &evaluation.ValidationError{Field: "body", Message: err.Error()}
	}
	ratings, err := evaluation.RatingsFromMap(evaluation.StageL4, req.Ratings)
	if err != nil {
		return nil, err
	}
	return evaluation.SubmitL4Feasibility{
		Reviewer: utils.SanitizeInput(req.Reviewer),
		Ratings:  ratings,
		Comments: req.Comments,
		Reason:   req.Reason,
	}, nil
}

func buildExecutive(c *gin.Context) (evaluation.Command, error) {
	var req executiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, &evaluation.ValidationError{Field: "body", Message: err.Error()}
	}
	verdict, err := parseVerdict(req.Decision)
	if err != nil {
		return nil, err
	}
	if req.StrategicScore == nil {
		return nil, &evaluation.ValidationError{Field: "strategic_score", Message: "is required"}
	}
	return evaluation.SubmitL5ExecutiveDecision{
		Approver:       utils.SanitizeInput(req.Approver),
		Verdict:        verdict,
		StrategicScore: *req.StrategicScore,
		Comments:       req.Comments,
		Reason:         req.Reason,
	}, nil
}

// submitStage binds a stage form, validates it up front and runs it through
// the idea service.
func submitStage(build func(*gin.Context) (evaluation.Command, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmd, err := build(c)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := cmd.Validate(); err != nil {
			respondError(c, err)
			return
		}

		idea, entry, err := newIdeaService().Evaluate(c.Request.Context(), c.Param("id"), cmd, actorUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    idea,
			"history": entry,
		})
	}
}

// POST /api/v1/ideas/:id/evaluations/l1 .. l5
var (
	SubmitL1Intake            = submitStage(buildIntake)
	SubmitL2Screening         = submitStage(buildScreening)
	SubmitL3BusinessCase      = submitStage(buildBusinessCase)
	SubmitL4Feasibility       = submitStage(buildFeasibility)
	SubmitL5ExecutiveDecision = submitStage(buildExecutive)
)
