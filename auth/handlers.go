package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SignupHandler(svc *Service, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		sess, err := svc.Signup(c.Request.Context(), req)
		switch {
		case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case errors.Is(err, ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		case err != nil:
			log.Error("signup failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
			return
		}
		c.JSON(http.StatusCreated, sess)
	}
}

func LoginHandler(svc *Service, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		sess, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		case err != nil:
			log.Error("login failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

func GoogleLoginHandler(svc *Service, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			IDToken string `json:"idToken" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		sess, err := svc.GoogleLogin(c.Request.Context(), req.IDToken)
		switch {
		case errors.Is(err, ErrGoogleDisabled):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		case errors.Is(err, ErrInvalidToken):
			log.Warn("google token rejected", "error", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Firebase ID token"})
			return
		case err != nil:
			log.Error("google login failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"user":    sess.User,
			"token":   sess.Token,
		})
	}
}
