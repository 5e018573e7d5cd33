package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/godocompany/roomchat-api/services"
	"github.com/godocompany/roomchat-api/v1/hooks"
	"github.com/godocompany/roomchat-api/v1/middleware"
)

// Server is the API server instance
type Server struct {
	UsersService      *services.UsersService
	AuthTokensService *services.AuthTokensService
}

// Setup mounts the API server to the given group
func (s *Server) Setup(g *gin.RouterGroup) {

	// Register middleware for all routes
	g.Use(middleware.CheckAuth(
		s.UsersService,
		s.AuthTokensService,
	))

	// Register all of the public hooks that require no authentication
	s.setupPublicHooks(g)

	// Register authenticated hooks
	s.setupAuthenticatedHooks(g)

}

// setupPublicHooks mounts API hooks that are publicly accessible
func (s *Server) setupPublicHooks(g *gin.RouterGroup) {

	// Register public API routes
	g.POST("/app/get-state", hooks.AppState())
	g.POST("/auth/login", hooks.AuthLogin(
		s.UsersService,
		s.AuthTokensService,
	))

}

// setupAuthenticatedHooks mounts API hooks that require a valid session token
func (s *Server) setupAuthenticatedHooks(g *gin.RouterGroup) {

	// Require login for everything after this
	g.Use(middleware.RequireLogin())

	// Register authenticated API routes
	g.POST("/auth/whoami", hooks.AuthWhoAmI(
		s.AuthTokensService,
	))

}
