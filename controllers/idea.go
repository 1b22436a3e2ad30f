package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"idea-portfolio-api/config"
	"idea-portfolio-api/evaluation"
	"idea-portfolio-api/services"
	"idea-portfolio-api/utils"
)

type ideaRequest struct {
	Title            string  `json:"title"`
	Category         string  `json:"category"`
	Priority         string  `json:"priority"`
	Description      *string `json:"description"`
	ProblemStatement *string `json:"problem_statement"`
	ProposedSolution *string `json:"proposed_solution"`
	ExpectedBenefits *string `json:"expected_benefits"`
	Department       *string `json:"department"`
	SubmittedBy      string  `json:"submitted_by"`
	SubmitterEmail   *string `json:"submitter_email"`
}

type ideaPatchRequest struct {
	Title            *string `json:"title"`
	Category         *string `json:"category"`
	Priority         *string `json:"priority"`
	Description      *string `json:"description"`
	ProblemStatement *string `json:"problem_statement"`
	ProposedSolution *string `json:"proposed_solution"`
	ExpectedBenefits *string `json:"expected_benefits"`
	Department       *string `json:"department"`
	SubmitterEmail   *string `json:"submitter_email"`
}

func optional(v *string) *string {
	if v == nil {
		return nil
	}
	return utils.OptionalString(*v)
}

// ideaFilterFromQuery reads stage, status, category, priority and q.
func ideaFilterFromQuery(c *gin.Context) (services.IdeaFilter, error) {
	f := services.IdeaFilter{
		Query:  c.Query("q"),
		Limit:  parseIntOrDefault(c.Query("limit"), 50),
		Offset: parseIntOrDefault(c.Query("offset"), 0),
	}
	if raw := strings.TrimSpace(c.Query("stage")); raw != "" {
		stage, err := evaluation.ParseStage(raw)
		if err != nil {
			return f, err
		}
		f.Stage = stage
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := utils.ParseStageStatus(raw)
		if err != nil {
			return f, &evaluation.ValidationError{Field: "status", Message: err.Error()}
		}
		f.Status = status
	}
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		category, err := utils.ParseCategory(raw)
		if err != nil {
			return f, &evaluation.ValidationError{Field: "category", Message: err.Error()}
		}
		f.Category = category
	}
	if raw := strings.TrimSpace(c.Query("priority")); raw != "" {
		priority, err := utils.ParsePriority(raw)
		if err != nil {
			return f, &evaluation.ValidationError{Field: "priority", Message: err.Error()}
		}
		f.Priority = priority
	}
	return f, nil
}

// GET /api/v1/ideas
func ListIdeas(c *gin.Context) {
	f, err := ideaFilterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	items, total, err := newIdeaService().List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items, "total": total, "limit": f.Limit, "offset": f.Offset})
}

// POST /api/v1/ideas
func CreateIdea(c *gin.Context) {
	var req ideaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	in := services.IdeaInput{
		Title:            req.Title,
		Category:         req.Category,
		Priority:         req.Priority,
		Description:      optional(req.Description),
		ProblemStatement: optional(req.ProblemStatement),
		ProposedSolution: optional(req.ProposedSolution),
		ExpectedBenefits: optional(req.ExpectedBenefits),
		Department:       optional(req.Department),
		SubmittedBy:      req.SubmittedBy,
		SubmitterEmail:   optional(req.SubmitterEmail),
		SubmitterUserID:  actorUserID(c),
	}
	idea, err := newIdeaService().Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": idea})
}

// GET /api/v1/ideas/:id
func GetIdea(c *gin.Context) {
	idea, err := newIdeaService().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": idea})
}

// PUT /api/v1/ideas/:id
func UpdateIdea(c *gin.Context) {
	var req ideaPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	idea, err := newIdeaService().Update(c.Request.Context(), c.Param("id"), services.IdeaPatch{
		Title:            req.Title,
		Category:         req.Category,
		Priority:         req.Priority,
		Description:      req.Description,
		ProblemStatement: req.ProblemStatement,
		ProposedSolution: req.ProposedSolution,
		ExpectedBenefits: req.ExpectedBenefits,
		Department:       req.Department,
		SubmitterEmail:   req.SubmitterEmail,
	}, ideaEditor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": idea})
}

// DELETE /api/v1/ideas/:id
func DeleteIdea(c *gin.Context) {
	if err := newIdeaService().Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Idea deleted"})
}

// GET /api/v1/ideas/:id/history
func GetIdeaHistory(c *gin.Context) {
	svc := newIdeaService()
	id := c.Param("id")
	if _, err := svc.Get(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	rows, err := svc.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
}

// GET /api/v1/ideas/export
func ExportIdeas(c *gin.Context) {
	f, err := ideaFilterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	file, filename, err := services.NewExportService(config.DB).ExportIdeas(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := file.Write(c.Writer); err != nil {
		respondError(c, err)
	}
}
