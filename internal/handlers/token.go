package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-authgate/authfront/internal/config"
	"github.com/go-authgate/authfront/internal/models"
	"github.com/go-authgate/authfront/internal/services"
)

type TokenHandler struct {
	tokenService *services.TokenService
	audit        *services.AuditService
	config       *config.Config
}

func NewTokenHandler(
	ts *services.TokenService,
	audit *services.AuditService,
	cfg *config.Config,
) *TokenHandler {
	return &TokenHandler{
		tokenService: ts,
		audit:        audit,
		config:       cfg,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login forwards the credentials to the identity backend and attaches
// the minted token to the session cookie. The credential shape is not
// validated locally; the backend is the authority on login. The response
// body is always empty, the token travels only in the cookie.
func (h *TokenHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.tokenService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// The cookie is set with whatever the backend minted, even on a
	// failed login (where the token is empty). Mirrors the backend's
	// status verbatim.
	h.setAuthCookie(c, result.Token, int(h.config.CookieMaxAge.Seconds()))

	h.audit.Log(services.AuditEntry{
		EventType:     models.EventLoginForwarded,
		Severity:      models.SeverityInfo,
		Username:      req.Username,
		ActorIP:       c.ClientIP(),
		Action:        "login",
		BackendStatus: result.Status,
		Success:       result.Status >= 200 && result.Status <= 299,
		RequestPath:   c.Request.URL.Path,
		RequestMethod: c.Request.Method,
	})

	c.Status(result.Status)
}

// Logout extracts the token from the session cookie (absence is
// tolerated; an empty token is forwarded), expires the cookie
// unconditionally, and relays the backend's status.
func (h *TokenHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(TokenAuth)
	if err != nil {
		token = ""
	}

	// Expire the client-side cookie before the backend call so the
	// session ends locally regardless of the backend outcome.
	h.setAuthCookie(c, "", -1)

	status, err := h.tokenService.Logout(c.Request.Context(), token)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.audit.Log(services.AuditEntry{
		EventType:     models.EventLogout,
		Severity:      models.SeverityInfo,
		ActorIP:       c.ClientIP(),
		Action:        "logout",
		BackendStatus: status,
		Success:       status >= 200 && status <= 299,
		RequestPath:   c.Request.URL.Path,
		RequestMethod: c.Request.Method,
	})

	c.Status(status)
}

// CheckToken reads the token from the bearer header (not the cookie) and
// relays the backend's validation status verbatim.
func (h *TokenHandler) CheckToken(c *gin.Context) {
	token := c.GetHeader(TokenAuth)

	status, err := h.tokenService.CheckToken(c.Request.Context(), token)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(status)
}

func (h *TokenHandler) setAuthCookie(c *gin.Context, token string, maxAge int) {
	c.SetCookie(TokenAuth, token, maxAge, "/", "", h.config.CookieSecure, true)
}
