package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mockmate/backend/internal/services"
	"github.com/mockmate/backend/internal/utils"
)

type AuthHandler struct {
	auth  services.AuthService
	oauth services.OAuthService
}

func NewAuthHandler(auth services.AuthService, oauth services.OAuthService) *AuthHandler {
	return &AuthHandler{auth: auth, oauth: oauth}
}

type registerRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.Register", "invalid request body", err))
		return
	}

	u, token, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u.Public(), "access_token": token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.Login", "invalid request body", err))
		return
	}

	u, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u.Public(), "access_token": token})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	u, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u.Public())
}

// GoogleLogin redirects the browser to the Google consent page. The state
// nonce rides in a short-lived cookie.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	url, state, err := h.oauth.LoginURL("google")
	if err != nil {
		writeError(c, err)
		return
	}
	c.SetCookie("oauth_state", state, 300, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	const op = "AuthHandler.GoogleCallback"

	state, err := c.Cookie("oauth_state")
	if err != nil || state == "" || state != c.Query("state") {
		writeError(c, utils.E(utils.CodeUnauthorized, op, "oauth state mismatch", nil))
		return
	}
	c.SetCookie("oauth_state", "", -1, "/", "", false, true)

	u, token, err := h.oauth.HandleCallback(c.Request.Context(), "google", c.Query("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u.Public(), "access_token": token})
}
