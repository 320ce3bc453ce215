package routes

import (
	"net/http"

	adminapi "contracts-app/internal/api/admin"
	"contracts-app/internal/api/artists"
	authapi "contracts-app/internal/api/auth"
	"contracts-app/internal/api/billing"
	"contracts-app/internal/api/contracts"
	"contracts-app/internal/api/crud"
	"contracts-app/internal/api/distribution"
	"contracts-app/internal/api/documents"
	"contracts-app/internal/api/events"
	"contracts-app/internal/api/isrcsongs"
	"contracts-app/internal/api/lpm"
	"contracts-app/internal/api/plans"
	"contracts-app/internal/api/releases"
	searchapi "contracts-app/internal/api/search"
	stripewebhooks "contracts-app/internal/api/stripewebhook"
	"contracts-app/internal/api/tasks"
	teamsapi "contracts-app/internal/api/teams"
	"contracts-app/internal/api/tustreams"
	"contracts-app/internal/api/users"
	"contracts-app/internal/api/writers"
	"contracts-app/internal/app/http/middleware"
	"contracts-app/internal/domain/access"
	"contracts-app/internal/domain/teams"
	"contracts-app/internal/infra/idempotency"
	"contracts-app/internal/infra/search"
	"contracts-app/internal/infra/storage"
	"contracts-app/internal/jobs"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the long-lived services handlers need. Jobs and Search may be
// nil; the routes that need them answer 503.
type Deps struct {
	DB     *gorm.DB
	Store  storage.Store
	Jobs   jobs.Enqueuer
	Search *search.Service
	Events *idempotency.Store
}

// resource is satisfied by every crud.Resource instantiation.
type resource interface {
	Register(g *gin.RouterGroup, db *gorm.DB, guards crud.Guards) *gin.RouterGroup
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.POST("/webhook", stripewebhooks.StripeWebhook(d.Events))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// sanitization stays on public routes; record fields keep their text as typed
	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/plans", plans.ListPlans)
	public.GET("/prices", billing.ListPrices)
	public.GET("/verify", authapi.VerifyEmail)
	public.POST("/resend-verification", authapi.ResendVerification)
	public.POST("/request-password-reset", authapi.RequestPasswordReset)
	public.POST("/reset-password", authapi.ResetPassword)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated account routes
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", users.GetCurrentUser)
	auth.POST("/change-password", authapi.ChangePassword)
	auth.GET("/payments", billing.GetPaymentHistory)
	auth.POST("/create-checkout-session", billing.CreateCheckoutSession)
	auth.POST("/billing-portal", billing.CreateBillingPortal)

	auth.POST("/teams", teamsapi.CreateTeam)
	auth.GET("/teams", teamsapi.ListTeams)
	auth.GET("/teams/:id", teamsapi.GetTeam)
	auth.PUT("/teams/:id", teamsapi.RenameTeam)
	auth.DELETE("/teams/:id", teamsapi.DeleteTeam)
	auth.GET("/teams/:id/members", teamsapi.ListMembers)
	auth.POST("/teams/:id/members", teamsapi.AddMember)
	auth.PUT("/teams/:id/members/:userId", teamsapi.UpdateMemberRole)
	auth.DELETE("/teams/:id/members/:userId", teamsapi.RemoveMember)

	// Tenant-scoped records: personal workspace, or the team named by X-Team
	tenant := auth.Group("/")
	tenant.Use(middleware.Tenant())

	edit := middleware.RequireCapability(access.CapEdit)
	importExport := middleware.RequireCapability(access.CapImportExport)
	write := middleware.RequireTeamAction(teams.ActionWrite)
	bulk := middleware.RequireTeamAction(teams.ActionBulk)

	guards := crud.Guards{
		Write:  []gin.HandlerFunc{write, edit},
		Bulk:   []gin.HandlerFunc{bulk, edit},
		Import: []gin.HandlerFunc{bulk, edit, importExport},
		Export: []gin.HandlerFunc{importExport},
	}

	for _, res := range []resource{
		contracts.New(),
		releases.New(),
		distribution.New(),
		tustreams.New(),
		artists.New(),
		writers.New(),
		events.New(),
		tasks.New(),
		lpm.New(),
		isrcsongs.New(),
	} {
		res.Register(tenant, d.DB, guards)
	}

	documents.New(d.Store, d.Jobs).Register(tenant, d.DB, guards,
		[]gin.HandlerFunc{write, middleware.RequireCapability(access.CapUpload)},
		[]gin.HandlerFunc{write, middleware.RequireCapability(access.CapAIExtraction)},
	)

	tenant.GET("/search", searchapi.Handler(d.Search))

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/payments", adminapi.ListAllPayments)
	admin.GET("/stats", adminapi.GetAdminStats)
	admin.GET("/user/:id", adminapi.GetUserDetails)
	admin.POST("/sync-plans", plans.SyncPlansFromStripe)
}
