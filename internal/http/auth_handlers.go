package http

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Nickname string `json:"nickname" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// logoutRequest is optional; an empty body logs out the access token only.
type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Password, req.Nickname)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.WithField("user_id", user.ID).Info("user registered")
	c.JSON(http.StatusCreated, userToResponse(user))
}

// login accepts a JSON body or an OAuth2 password-style form where the
// email is sent as "username".
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if strings.HasPrefix(c.ContentType(), binding.MIMEPOSTForm) || strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm) {
		req.Email = c.PostForm("username")
		req.Password = c.PostForm("password")
	} else if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	pair, user, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.WithField("user_id", user.ID).Info("user logged in")
	c.JSON(http.StatusOK, tokensToResponse(pair, time.Now()))
}

func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	pair, err := h.sessions.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokensToResponse(pair, time.Now()))
}

func (h *Handler) logout(c *gin.Context) {
	user := currentUser(c)
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	if err := h.sessions.Logout(c.Request.Context(), currentClaims(c), req.RefreshToken); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out", "user_id": user.ID})
}

func (h *Handler) authCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": userToResponse(currentUser(c))})
}

func (h *Handler) isAdmin(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"is_admin": true})
}

func (h *Handler) updatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user := currentUser(c)
	if err := h.users.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "password updated"})
}
