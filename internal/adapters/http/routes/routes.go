package routes

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"

	"clubhub/internal/adapters/http/handlers"
	"clubhub/internal/adapters/http/middleware"
	"clubhub/internal/config"
	"clubhub/internal/core/services"
)

// Dependencies carries the wired services the routes expose
type Dependencies struct {
	Identity    *services.IdentityService
	Permissions *services.PermissionService
	Gate        *services.AuthorizationGate
	Clubs       *services.ClubService
	Workflow    *services.WorkflowService
	Dictionary  *services.DictionaryService

	Mode         string
	DefaultRole  string
	HealthChecks map[string]func() error
	// Metrics serves /metrics when set
	Metrics http.Handler
	// AuthLimiter guards register and login when set
	AuthLimiter fiber.Handler
	Logger      *slog.Logger
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler(deps.Mode, deps.HealthChecks)
	authHandler := handlers.NewAuthHandler(deps.Identity, deps.Permissions, deps.DefaultRole, deps.Logger)
	adminHandler := handlers.NewAdminHandler(deps.Identity, deps.Permissions)
	clubHandler := handlers.NewClubHandler(deps.Clubs)
	recruitmentHandler := handlers.NewRecruitmentHandler(deps.Workflow)
	applicationHandler := handlers.NewApplicationHandler(deps.Workflow)
	interviewHandler := handlers.NewInterviewHandler(deps.Workflow)
	dictionaryHandler := handlers.NewDictionaryHandler(deps.Dictionary)

	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}
	app.Get("/swagger/*", swagger.HandlerDefault)

	auth := middleware.AuthMiddleware(deps.Gate)
	apiV1 := app.Group("/api/v1")

	setupAuthRoutes(apiV1.Group("/auth"), authHandler, auth, deps.AuthLimiter)
	setupDictionaryRoutes(apiV1.Group("/dict"), dictionaryHandler)
	setupAdminRoutes(apiV1.Group("/admin", auth), adminHandler, dictionaryHandler, deps.Gate)
	setupClubRoutes(apiV1.Group("/clubs", auth), clubHandler, recruitmentHandler, deps.Gate)
	setupRecruitmentRoutes(apiV1.Group("/recruitments", auth), recruitmentHandler)
	setupApplicationRoutes(apiV1.Group("/applications", auth), applicationHandler)
	setupInterviewRoutes(apiV1.Group("/interviews", auth), interviewHandler)
}

func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, auth, limiter fiber.Handler) {
	public := []fiber.Handler{}
	if limiter != nil {
		public = append(public, limiter)
	}
	router.Post("/register", append(public, handler.Register)...)
	router.Post("/login", append(public, handler.Login)...)

	// Protected routes
	router.Post("/init", auth, handler.Init)
	router.Post("/change-password", auth, handler.ChangePassword)
	router.Get("/me", auth, handler.Me)
}

func setupDictionaryRoutes(router fiber.Router, handler *handlers.DictionaryHandler) {
	router.Get("/schools", handler.ListSchools)
	router.Get("/schools/:id", handler.GetSchool)
	router.Get("/provinces", handler.ListProvinces)
	router.Get("/cities", handler.ListCities)
	router.Get("/majors", handler.ListMajors)
	router.Get("/major-categories", handler.ListMajorCategories)
}

func setupAdminRoutes(router fiber.Router, handler *handlers.AdminHandler, dict *handlers.DictionaryHandler, gate *services.AuthorizationGate) {
	provision := middleware.RequirePermission(gate, config.PermAccountProvision)
	disable := middleware.RequirePermission(gate, config.PermAccountDisable)
	assign := middleware.RequirePermission(gate, config.PermRoleAssign)
	manage := middleware.RequirePermission(gate, config.PermRoleManage)
	dictManage := middleware.RequirePermission(gate, config.PermDictManage)

	router.Post("/accounts", provision, handler.ProvisionAccount)
	router.Get("/accounts/:id", provision, handler.GetAccount)
	router.Post("/accounts/:id/disable", disable, handler.DisableAccount)
	router.Post("/accounts/:id/enable", disable, handler.EnableAccount)
	router.Delete("/accounts/:id", disable, handler.DeleteAccount)

	router.Post("/roles/assign", assign, handler.AssignRole)
	router.Post("/roles/revoke", assign, handler.RevokeRole)

	router.Get("/roles", manage, handler.ListRoles)
	router.Post("/roles", manage, handler.CreateRole)
	router.Patch("/roles/:code/status", manage, handler.SetRoleStatus)
	router.Get("/permissions", manage, handler.ListPermissions)
	router.Post("/permissions", manage, handler.CreatePermission)
	router.Post("/permissions/grant", manage, handler.GrantPermission)
	router.Post("/permissions/revoke", manage, handler.RevokePermission)

	router.Post("/dict/schools", dictManage, dict.CreateSchool)
	router.Post("/dict/majors", dictManage, dict.CreateMajor)
}

func setupClubRoutes(router fiber.Router, clubs *handlers.ClubHandler, recruitments *handlers.RecruitmentHandler, gate *services.AuthorizationGate) {
	router.Post("/", middleware.RequirePermission(gate, config.PermClubCreate), clubs.CreateClub)
	router.Get("/", clubs.ListClubs)
	router.Get("/:id", clubs.GetClub)
	router.Patch("/:id", clubs.UpdateClub)

	router.Get("/:id/members", clubs.ListMembers)
	router.Post("/:id/members", clubs.AddMember)
	router.Delete("/:id/members/:userId", clubs.RemoveMember)

	router.Post("/:id/recruitments", recruitments.CreateRecruitment)
}

func setupRecruitmentRoutes(router fiber.Router, handler *handlers.RecruitmentHandler) {
	router.Get("/", handler.ListRecruitments)
	router.Get("/:id", handler.GetRecruitment)
	router.Post("/:id/publish", handler.PublishRecruitment)
	router.Post("/:id/close", handler.CloseRecruitment)
	router.Post("/:id/cancel", handler.CancelRecruitment)

	router.Post("/:id/applications", handler.SubmitApplication)
	router.Get("/:id/applications", handler.ListApplications)
}

func setupApplicationRoutes(router fiber.Router, handler *handlers.ApplicationHandler) {
	// "/mine" is registered before "/:id" so it is not captured as an ID
	router.Get("/mine", handler.ListMine)
	router.Get("/:id", handler.GetApplication)
	router.Post("/:id/review", handler.ReviewApplication)
	router.Post("/:id/withdraw", handler.WithdrawApplication)
	router.Post("/:id/interviews", handler.ScheduleInterview)
}

func setupInterviewRoutes(router fiber.Router, handler *handlers.InterviewHandler) {
	router.Get("/:id", handler.GetInterview)
	router.Post("/:id/complete", handler.CompleteInterview)
	router.Post("/:id/cancel", handler.CancelInterview)
}
