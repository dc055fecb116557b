package routes

import (
	"github.com/fruitika/storefront-api/auth"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers all “/auth/*” endpoints.
func SetupAuthRoutes(r *gin.Engine, d *Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", auth.SignupHandler(d.Auth, d.Log))
		authGroup.POST("/login", auth.LoginHandler(d.Auth, d.Log))

		// Google sign-in with a Firebase ID token
		authGroup.POST("/google", auth.GoogleLoginHandler(d.Auth, d.Log))
	}
}
