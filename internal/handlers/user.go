package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-authgate/authfront/internal/models"
	"github.com/go-authgate/authfront/internal/services"
	"github.com/go-authgate/authfront/internal/shaping"
)

const contentTypeJSON = "application/json"

type UserHandler struct {
	userService *services.UserService
	audit       *services.AuditService
}

func NewUserHandler(us *services.UserService, audit *services.AuditService) *UserHandler {
	return &UserHandler{
		userService: us,
		audit:       audit,
	}
}

// Create validates the credentials locally and forwards the creation.
// On any rule violation the backend is never contacted. Role assignment
// is a separate endpoint, not chained here.
func (h *UserHandler) Create(c *gin.Context) {
	token := c.GetHeader(TokenAuth)

	var user shaping.UserDetails
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.userService.CreateUser(c.Request.Context(), token, user)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.audit.Log(services.AuditEntry{
		EventType:     models.EventUserCreated,
		Severity:      models.SeverityInfo,
		Username:      user.Name,
		ActorIP:       c.ClientIP(),
		Action:        "create_user",
		BackendStatus: result.Status,
		Success:       result.Status >= 200 && result.Status <= 299,
		RequestPath:   c.Request.URL.Path,
		RequestMethod: c.Request.Method,
	})

	c.Data(result.Status, contentTypeJSON, result.Body)
}

// Modify forwards a user modification. Modify payloads are deliberately
// not checked against the credential rules.
func (h *UserHandler) Modify(c *gin.Context) {
	token := c.GetHeader(TokenAuth)
	userID := c.Param("id")

	var user shaping.ModifyUser
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.userService.ModifyUser(c.Request.Context(), token, userID, user)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.audit.Log(services.AuditEntry{
		EventType:     models.EventUserModified,
		Severity:      models.SeverityInfo,
		UserID:        userID,
		ActorIP:       c.ClientIP(),
		Action:        "modify_user",
		BackendStatus: result.Status,
		Success:       result.Status >= 200 && result.Status <= 299,
		RequestPath:   c.Request.URL.Path,
		RequestMethod: c.Request.Method,
	})

	c.Data(result.Status, contentTypeJSON, result.Body)
}

// Delete forwards the deletion and relays the backend status. No body.
func (h *UserHandler) Delete(c *gin.Context) {
	token := c.GetHeader(TokenAuth)
	userID := c.Param("id")

	status, err := h.userService.DeleteUser(c.Request.Context(), token, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.audit.Log(services.AuditEntry{
		EventType:     models.EventUserDeleted,
		Severity:      models.SeverityWarning,
		UserID:        userID,
		ActorIP:       c.ClientIP(),
		Action:        "delete_user",
		BackendStatus: status,
		Success:       status >= 200 && status <= 299,
		RequestPath:   c.Request.URL.Path,
		RequestMethod: c.Request.Method,
	})

	c.Status(status)
}

// Get fetches one user.
func (h *UserHandler) Get(c *gin.Context) {
	token := c.GetHeader(TokenAuth)
	userID := c.Param("id")

	result, err := h.userService.GetUser(c.Request.Context(), token, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Data(result.Status, contentTypeJSON, result.Body)
}

// List fetches all users.
func (h *UserHandler) List(c *gin.Context) {
	token := c.GetHeader(TokenAuth)

	result, err := h.userService.ListUsers(c.Request.Context(), token)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Data(result.Status, contentTypeJSON, result.Body)
}

// ModifyPassword forwards a password change through the two-step
// lookup-then-write flow.
func (h *UserHandler) ModifyPassword(c *gin.Context) {
	token := c.GetHeader(TokenAuth)
	userID := c.Param("id")

	var pwd shaping.ModifyPassword
	if err := c.ShouldBindJSON(&pwd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	status, err := h.userService.ModifyPassword(c.Request.Context(), token, userID, pwd)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.audit.Log(services.AuditEntry{
		EventType:     models.EventPasswordChanged,
		Severity:      models.SeverityInfo,
		UserID:        userID,
		ActorIP:       c.ClientIP(),
		Action:        "modify_password",
		BackendStatus: status,
		Success:       status >= 200 && status <= 299,
		RequestPath:   c.Request.URL.Path,
		RequestMethod: c.Request.Method,
	})

	c.Status(status)
}

// AssignDefaultRole grants the configured default project/role to the
// user. Typically invoked by the caller right after a successful create.
func (h *UserHandler) AssignDefaultRole(c *gin.Context) {
	token := c.GetHeader(TokenAuth)
	userID := c.Param("id")

	status, err := h.userService.AssignDefaultRole(c.Request.Context(), token, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.audit.Log(services.AuditEntry{
		EventType:     models.EventRoleAssigned,
		Severity:      models.SeverityInfo,
		UserID:        userID,
		ActorIP:       c.ClientIP(),
		Action:        "assign_default_role",
		BackendStatus: status,
		Success:       status >= 200 && status <= 299,
		RequestPath:   c.Request.URL.Path,
		RequestMethod: c.Request.Method,
	})

	c.Status(status)
}
