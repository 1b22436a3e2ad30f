package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"

	"idea-portfolio-api/config"
	"idea-portfolio-api/evaluation"
	"idea-portfolio-api/models"
	"idea-portfolio-api/services"
)

// MySQL lock wait timeout and deadlock.
const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// Service constructors, swapped in tests.
var (
	newIdeaService = func() *services.IdeaService {
		return services.NewIdeaService(config.DB, services.NewPolicyService(config.DB), services.NewStageNotifier(config.DB, nil))
	}
	newPolicyService = func() *services.PolicyService { return services.NewPolicyService(config.DB) }
)

func getUserIDFromContext(c *gin.Context) (uint, bool) {
	if v, ok := c.Get("userID"); ok {
		switch t := v.(type) {
		case uint:
			return t, true
		case int:
			if t > 0 {
				return uint(t), true
			}
		case int64:
			if t > 0 {
				return uint(t), true
			}
		case string:
			if id64, err := strconv.ParseUint(t, 10, 64); err == nil && id64 > 0 {
				return uint(id64), true
			}
		}
	}
	return 0, false
}

// actorUserID is the authenticated user as stored on history rows.
func actorUserID(c *gin.Context) *int {
	id, ok := getUserIDFromContext(c)
	if !ok {
		return nil
	}
	v := int(id)
	return &v
}

// ideaEditor describes the caller for idea edits. Reviewers and admins may
// edit any idea.
func ideaEditor(c *gin.Context) services.IdeaEditor {
	userID, _ := getUserIDFromContext(c)
	role := c.GetInt("roleID")
	return services.IdeaEditor{
		UserID:     userID,
		Privileged: role == models.RoleReviewer || role == models.RoleAdmin,
	}
}

func parseIntOrDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid " + name})
		return 0, false
	}
	return uint(v), true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}

// respondError maps service and evaluation errors onto HTTP statuses.
// Unexpected errors are logged and reported without detail.
func respondError(c *gin.Context, err error) {
	var vErr *evaluation.ValidationError
	var mysqlErr *mysql.MySQLError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": vErr.Error(), "field": vErr.Field})
	case errors.Is(err, evaluation.ErrUnknownStage),
		errors.Is(err, evaluation.ErrUnknownDecision),
		errors.Is(err, evaluation.ErrNoNumericGate):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrIdeaNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrMilestoneNotFound),
		errors.Is(err, services.ErrContractNotFound),
		errors.Is(err, services.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrIdeaEditForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, evaluation.ErrStageMismatch),
		errors.Is(err, evaluation.ErrStageClosed),
		errors.Is(err, services.ErrDuplicateContract):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	case errors.As(err, &mysqlErr) && (mysqlErr.Number == mysqlLockWaitTimeout || mysqlErr.Number == mysqlDeadlock):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "the record was changed concurrently, reload and try again"})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
	}
}
