package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"idea-portfolio-api/config"
	"idea-portfolio-api/evaluation"
	"idea-portfolio-api/services"
	"idea-portfolio-api/utils"
)

type projectRequest struct {
	IdeaID      *string          `json:"idea_id"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Owner       *string          `json:"owner"`
	Status      *string          `json:"status"`
	Priority    *string          `json:"priority"`
	StartDate   *string          `json:"start_date"`
	EndDate     *string          `json:"end_date"`
	Budget      *decimal.Decimal `json:"budget"`
}

type milestoneRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Owner       *string `json:"owner"`
	DueDate     *string `json:"due_date"`
	Status      *string `json:"status"`
}

func parseDateField(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := utils.ParseDate(*raw)
	if err != nil {
		return nil, &evaluation.ValidationError{Field: field, Message: "must be YYYY-MM-DD"}
	}
	return t, nil
}

func (r projectRequest) input(c *gin.Context) (services.ProjectInput, error) {
	start, err := parseDateField("start_date", r.StartDate)
	if err != nil {
		return services.ProjectInput{}, err
	}
	end, err := parseDateField("end_date", r.EndDate)
	if err != nil {
		return services.ProjectInput{}, err
	}
	return services.ProjectInput{
		IdeaID:      r.IdeaID,
		Name:        r.Name,
		Description: r.Description,
		Owner:       r.Owner,
		Status:      r.Status,
		Priority:    r.Priority,
		StartDate:   start,
		EndDate:     end,
		Budget:      r.Budget,
		CreatedBy:   actorUserID(c),
	}, nil
}

func (r milestoneRequest) input() (services.MilestoneInput, error) {
	due, err := parseDateField("due_date", r.DueDate)
	if err != nil {
		return services.MilestoneInput{}, err
	}
	return services.MilestoneInput{
		Title:       r.Title,
		Description: r.Description,
		Owner:       r.Owner,
		DueDate:     due,
		Status:      r.Status,
	}, nil
}

// GET /api/v1/projects
func ListProjects(c *gin.Context) {
	limit := parseIntOrDefault(c.Query("limit"), 50)
	offset := parseIntOrDefault(c.Query("offset"), 0)

	items, total, err := services.NewProjectService(config.DB).List(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items, "total": total})
}

// GET /api/v1/projects/:id
func GetProject(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	p, err := services.NewProjectService(config.DB).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

// POST /api/v1/projects
func CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	in, err := req.input(c)
	if err != nil {
		respondError(c, err)
		return
	}
	p, err := services.NewProjectService(config.DB).Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": p})
}

// PUT /api/v1/projects/:id
func UpdateProject(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	in, err := req.input(c)
	if err != nil {
		respondError(c, err)
		return
	}
	in.CreatedBy = nil
	p, err := services.NewProjectService(config.DB).Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

// DELETE /api/v1/projects/:id
func DeleteProject(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := services.NewProjectService(config.DB).Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Project deleted"})
}

// GET /api/v1/projects/:id/milestones
func ListMilestones(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	items, err := services.NewProjectService(config.DB).Milestones(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}

// POST /api/v1/projects/:id/milestones
func CreateMilestone(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req milestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(c, err)
		return
	}
	m, err := services.NewProjectService(config.DB).AddMilestone(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": m})
}

// PUT /api/v1/milestones/:id
func UpdateMilestone(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req milestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(c, err)
		return
	}
	m, err := services.NewProjectService(config.DB).UpdateMilestone(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": m})
}

// DELETE /api/v1/milestones/:id
func DeleteMilestone(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := services.NewProjectService(config.DB).DeleteMilestone(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Milestone deleted"})
}
