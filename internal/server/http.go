package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	healthhandler "tenant-accounts/backend/internal/health/handler"
	identityhandler "tenant-accounts/backend/internal/identity/handler"
	membershiphandler "tenant-accounts/backend/internal/membership/handler"
	organizationhandler "tenant-accounts/backend/internal/organization/handler"
	reporthandler "tenant-accounts/backend/internal/report/handler"
	rolehandler "tenant-accounts/backend/internal/role/handler"
	"tenant-accounts/backend/internal/server/middleware"
	userhandler "tenant-accounts/backend/internal/user/handler"
)

const shutdownTimeout = 10 * time.Second

// Handlers holds the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth          *identityhandler.Handler
	Users         *userhandler.Handler
	Organizations *organizationhandler.Handler
	Roles         *rolehandler.Handler
	Members       *membershiphandler.Handler
	Reports       *reporthandler.Handler
	Health        *healthhandler.Server
	Keys          identityhandler.KeySetSource
}

// RouterConfig carries the cross-cutting pieces of the router.
type RouterConfig struct {
	// ServiceName names the otelgin server spans.
	ServiceName string
	// Tokens validates bearer access tokens on protected routes.
	Tokens middleware.AccessValidator
	// RateLimiter throttles the public auth routes. Nil disables throttling.
	RateLimiter *middleware.RateLimiter
	Log         *zap.Logger
}

// NewRouter wires middleware and routes.
//
// Route → handler mapping (prefix /api/v1):
//   - sign-up, sign-in, token/refresh, reset-password → internal/identity/handler
//   - invite-member, delete-member, update-member-role, members, invites/verify → internal/membership/handler
//   - organizations → internal/organization/handler
//   - organizations/:org_id/roles → internal/role/handler
//   - *-count reports → internal/report/handler
//   - me → internal/user/handler
func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.ForwardedByClientIP = true
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Log))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	r.GET("/healthz", h.Health.Healthz)
	r.GET("/.well-known/jwks.json", identityhandler.JWKS(h.Keys))

	api := r.Group("/api/v1")

	public := api.Group("", cfg.RateLimiter.Handler())
	{
		public.POST("/sign-up", h.Auth.SignUp)
		public.POST("/sign-in", h.Auth.SignIn)
		public.POST("/token/refresh", h.Auth.Refresh)
		public.GET("/invites/verify", h.Members.VerifyInvite)
	}

	authed := api.Group("", middleware.Auth(cfg.Tokens))
	{
		authed.GET("/me", h.Users.Me)
		authed.POST("/reset-password", h.Auth.ResetPassword)

		authed.POST("/invite-member", h.Members.Invite)
		authed.DELETE("/delete-member/:org_id/:user_id", h.Members.Delete)
		authed.PATCH("/update-member-role", h.Members.UpdateRole)

		authed.GET("/role-wise-user-count", h.Reports.RoleWise)
		authed.GET("/organization-wise-member-count", h.Reports.OrganizationWise)
		authed.GET("/organization-role-wise-user-count", h.Reports.OrganizationRoleWise)

		orgs := authed.Group("/organizations")
		orgs.POST("", h.Organizations.Create)
		orgs.GET("/:org_id", h.Organizations.Get)
		orgs.PATCH("/:org_id", h.Organizations.Update)
		orgs.DELETE("/:org_id", h.Organizations.Delete)
		orgs.GET("/:org_id/members", h.Members.List)
		orgs.GET("/:org_id/roles", h.Roles.List)
		orgs.POST("/:org_id/roles", h.Roles.Create)
		orgs.PATCH("/:org_id/roles/:role_id", h.Roles.Update)
		orgs.DELETE("/:org_id/roles/:role_id", h.Roles.Delete)
	}

	return r
}

// HTTPServer wraps a gin.Engine with graceful shutdown.
type HTTPServer struct {
	Engine *gin.Engine
}

// NewHTTPServer returns an HTTPServer serving router.
func NewHTTPServer(router *gin.Engine) *HTTPServer {
	return &HTTPServer{Engine: router}
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
