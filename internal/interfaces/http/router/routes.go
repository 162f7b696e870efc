package router

import (
	"github.com/gin-gonic/gin"
	"github.com/lumio/backend/internal/interfaces/http/handler"
)

// Handlers groups the HTTP handlers of the API
type Handlers struct {
	Auth       *handler.AuthHandler
	Agency     *handler.AgencyHandler
	Team       *handler.TeamHandler
	Billing    *handler.BillingHandler
	Upload     *handler.UploadHandler
	SubAccount *handler.SubAccountHandler
	Funnel     *handler.FunnelHandler
	Editor     *handler.EditorHandler
	Site       *handler.SiteHandler
	System     *handler.SystemHandler
}

// Guards are the route-level middleware. AuthLimit is optional and applies
// to the credential endpoints.
type Guards struct {
	Auth      gin.HandlerFunc
	Gate      gin.HandlerFunc
	AuthLimit gin.HandlerFunc
}

// Register builds the Lumio route tree on engine
func Register(engine *gin.Engine, h Handlers, g Guards) {
	engine.GET("/health", h.System.Health)

	credentials := []gin.HandlerFunc{}
	if g.AuthLimit != nil {
		credentials = append(credentials, g.AuthLimit)
	}
	with := func(chain []gin.HandlerFunc, last gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, chain...), last)
	}

	auth := NewDomainGroup("auth", "/auth").
		POST("/register", with(credentials, h.Auth.Register)...).
		POST("/login", with(credentials, h.Auth.Login)...).
		POST("/refresh", with(credentials, h.Auth.RefreshToken)...).
		GET("/me", g.Auth, h.Auth.Me).
		POST("/logout", g.Auth, h.Auth.Logout)

	site := NewDomainGroup("site", "/site").
		GET("/pricing", h.Billing.Pricing).
		GET("/funnels/:subDomain", h.Site.PublishedPage).
		GET("/funnels/:subDomain/*path", h.Site.PublishedPage)

	billing := NewDomainGroup("billing", "/billing").
		GET("/connect/:accountType", g.Auth, h.Billing.ConnectCallback).
		POST("/customers", g.Auth, h.Billing.CreateCustomer)

	uploads := NewDomainGroup("uploads", "/uploads").Use(g.Auth).
		POST("/presign", h.Upload.Presign)

	agencies := NewDomainGroup("agencies", "/agencies").Use(g.Auth).
		POST("", h.Agency.Create).
		GET("/:agencyId", h.Agency.Get).
		PUT("/:agencyId", h.Agency.Update).
		PATCH("/:agencyId/goal", h.Agency.UpdateGoal).
		DELETE("/:agencyId", h.Agency.Delete).
		GET("/:agencyId/launchpad", h.Agency.Launchpad).
		GET("/:agencyId/subaccounts", h.Agency.ListSubAccounts).
		POST("/:agencyId/subaccounts", h.Agency.CreateSubAccount).
		GET("/:agencyId/team", h.Agency.Team).
		GET("/:agencyId/notifications", h.Agency.Notifications).
		GET("/:agencyId/invitations", h.Agency.ListInvitations).
		POST("/:agencyId/invitations", h.Agency.SendInvitation)

	invitations := NewDomainGroup("invitations", "/invitations").Use(g.Auth).
		POST("/accept", h.Team.AcceptInvitation).
		DELETE("/:invitationId", h.Team.RevokeInvitation)

	team := NewDomainGroup("team", "").Use(g.Auth).
		PUT("/permissions", h.Team.ChangePermission).
		PATCH("/users/:userId/role", h.Team.UpdateRole).
		DELETE("/users/:userId", h.Team.DeleteUser)

	subAccounts := NewDomainGroup("subaccounts", "/subaccounts/:subAccountId").Use(g.Auth, g.Gate).
		GET("/shell", h.SubAccount.Shell).
		GET("", h.SubAccount.Get).
		PUT("", h.SubAccount.Update).
		DELETE("", h.SubAccount.Delete).
		GET("/launchpad", h.SubAccount.Launchpad)

	subAccounts.Group("funnels", "/funnels").
		GET("", h.Funnel.List).
		POST("", h.Funnel.Create).
		GET("/:funnelId", h.Funnel.Get).
		PUT("/:funnelId", h.Funnel.Update).
		DELETE("/:funnelId", h.Funnel.Delete).
		POST("/:funnelId/pages", h.Funnel.UpsertPage).
		GET("/:funnelId/pages/:pageId", h.Funnel.GetPage).
		DELETE("/:funnelId/pages/:pageId", h.Funnel.DeletePage)

	subAccounts.Group("editor", "/editor/sessions").
		POST("", h.Editor.Open).
		GET("/:sessionId", h.Editor.Get).
		POST("/:sessionId/actions", h.Editor.Dispatch).
		POST("/:sessionId/undo", h.Editor.Undo).
		POST("/:sessionId/redo", h.Editor.Redo).
		POST("/:sessionId/save", h.Editor.Save).
		DELETE("/:sessionId", h.Editor.Close)

	NewRouter(engine).
		Register(auth, site, billing, uploads, agencies, invitations, team, subAccounts).
		Setup()
}
