package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"qbot-api/internal/service"
	resp "qbot-api/internal/transport/http/response"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerIn struct {
	Name     string `json:"name"     binding:"required,max=100"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type registerOut struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in registerIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.auth.Register(c.Request.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.Created(c, registerOut{ID: u.ID, Name: u.Name, Email: u.Email})
}

type loginIn struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginOut struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in loginIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	u, token, expiresAt, err := h.auth.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, loginOut{Name: u.Name, Email: u.Email, Token: token, ExpiresAt: expiresAt})
}
