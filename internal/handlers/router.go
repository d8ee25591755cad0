package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/school-service/internal/config"
	"github.com/campuskit/school-service/internal/models"
	"github.com/campuskit/school-service/internal/repositories"
	"github.com/campuskit/school-service/internal/services"
	"github.com/campuskit/school-service/internal/utils"
	"github.com/campuskit/school-service/internal/validator"
)

// HandlerManager owns every route handler and the middleware needed to
// mount them.
type HandlerManager struct {
	base BaseHandler
	repo repositories.Repository

	authMW *AuthMiddleware

	auth        *AuthHandler
	leaderboard *LeaderboardHandler
	reports     *ReportHandler

	students   *ResourceHandler[models.Student]
	teachers   *ResourceHandler[models.Teacher]
	classes    *ResourceHandler[models.Class]
	subjects   *ResourceHandler[models.Subject]
	timetable  *ResourceHandler[models.TimetableEntry]
	attendance *ResourceHandler[models.AttendanceRecord]
	marks      *ResourceHandler[models.Mark]
	notes      *ResourceHandler[models.Note]
	events     *ResourceHandler[models.Event]
	fees       *ResourceHandler[models.Fee]

	startedAt time.Time
}

// Deps bundles the constructor inputs for the handler layer.
type Deps struct {
	Config    *config.Config
	Logger    utils.Logger
	Repo      repositories.Repository
	Validator *validator.Validator
	Notifier  *services.Notifier

	AuthMiddleware     *AuthMiddleware
	AuthService        *services.AuthService
	LeaderboardService *services.LeaderboardService
	ReportService      *services.ReportService
}

func NewHandlerManager(d Deps) *HandlerManager {
	base := NewBaseHandler(d.Logger, d.Config.IsProduction(), d.Config.DefaultPageSize, d.Config.MaxPageSize)

	return &HandlerManager{
		base:   base,
		repo:   d.Repo,
		authMW: d.AuthMiddleware,

		auth:        NewAuthHandler(base, d.AuthService),
		leaderboard: NewLeaderboardHandler(base, d.LeaderboardService),
		reports:     NewReportHandler(base, d.ReportService),

		students:   NewResourceHandler(base, d.Repo.Students(), studentConfig(), d.Validator, d.Notifier),
		teachers:   NewResourceHandler(base, d.Repo.Teachers(), teacherConfig(), d.Validator, d.Notifier),
		classes:    NewResourceHandler(base, d.Repo.Classes(), classConfig(), d.Validator, d.Notifier),
		subjects:   NewResourceHandler(base, d.Repo.Subjects(), subjectConfig(), d.Validator, d.Notifier),
		timetable:  NewResourceHandler(base, d.Repo.Timetable(), timetableConfig(), d.Validator, d.Notifier),
		attendance: NewResourceHandler(base, d.Repo.Attendance(), attendanceConfig(), d.Validator, d.Notifier),
		marks:      NewResourceHandler(base, d.Repo.Marks(), markConfig(d.LeaderboardService), d.Validator, d.Notifier),
		notes:      NewResourceHandler(base, d.Repo.Notes(), noteConfig(), d.Validator, d.Notifier),
		events:     NewResourceHandler(base, d.Repo.Events(), eventConfig(), d.Validator, d.Notifier),
		fees:       NewResourceHandler(base, d.Repo.Fees(), feeConfig(), d.Validator, d.Notifier),

		startedAt: time.Now(),
	}
}

// SetupRoutes mounts the full API surface. Reads require any
// authenticated identity; writes are gated per group below.
func (m *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", m.health)

	api := router.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", m.auth.Login)
		authGroup.POST("/logout", m.auth.Logout)

		authed := authGroup.Group("", m.authMW.Authenticate())
		authed.GET("/me", m.auth.Me)
		authed.POST("/change-password", m.auth.ChangePassword)
		authed.POST("/register", m.authMW.RequireRoles(models.RoleAdmin), m.auth.Register)
	}

	identities := api.Group("/identities", m.authMW.Authenticate(), m.authMW.RequireRoles(models.RoleAdmin))
	{
		identities.GET("", m.auth.ListIdentities)
		identities.GET("/:id", m.auth.GetIdentity)
		identities.PATCH("/:id/status", m.auth.SetStatus)
		identities.DELETE("/:id", m.auth.DeleteIdentity)
	}

	staff := []models.UserRole{models.RoleAdmin, models.RoleTeacher}

	mountResource(api, "/students", m.students, m.authMW, models.RoleAdmin)
	mountResource(api, "/teachers", m.teachers, m.authMW, models.RoleAdmin)
	mountResource(api, "/classes", m.classes, m.authMW, models.RoleAdmin)
	mountResource(api, "/subjects", m.subjects, m.authMW, models.RoleAdmin)
	mountResource(api, "/timetable", m.timetable, m.authMW, staff...)
	mountResource(api, "/attendance", m.attendance, m.authMW, staff...)
	mountResource(api, "/marks", m.marks, m.authMW, staff...)
	mountResource(api, "/notes", m.notes, m.authMW, staff...)
	mountResource(api, "/fees", m.fees, m.authMW, models.RoleAdmin)

	// Events are readable without a token so the public calendar works;
	// an attached identity is still resolved when present.
	events := api.Group("/events")
	{
		events.GET("", m.authMW.OptionalAuthenticate(), m.events.List)
		events.GET("/search", m.authMW.OptionalAuthenticate(), m.events.Search)
		events.GET("/:id", m.authMW.OptionalAuthenticate(), m.events.Get)

		writes := events.Group("", m.authMW.Authenticate(), m.authMW.RequireRoles(models.RoleAdmin))
		writes.POST("", m.events.Create)
		writes.PATCH("/:id", m.events.Update)
		writes.DELETE("/:id", m.events.Delete)
	}

	api.GET("/classes/:id/leaderboard", m.authMW.Authenticate(), m.leaderboardForClass)

	reports := api.Group("/reports", m.authMW.Authenticate(), m.authMW.RequireRoles(staff...))
	{
		reports.GET("/marks.xlsx", m.reports.MarksExport)
	}
}

// mountResource wires the uniform CRUD surface for one entity: reads for
// any authenticated identity, writes for the given roles.
func mountResource[T any](api *gin.RouterGroup, path string, h *ResourceHandler[T], mw *AuthMiddleware, writeRoles ...models.UserRole) {
	group := api.Group(path, mw.Authenticate())

	group.GET("", h.List)
	group.GET("/count", h.Count)
	group.GET("/search", h.Search)
	group.GET("/:id", h.Get)

	writes := group.Group("", mw.RequireRoles(writeRoles...))
	writes.POST("", h.Create)
	writes.PATCH("/:id", h.Update)
	writes.DELETE("/:id", h.Delete)
}

// leaderboardForClass adapts the class-scoped route param name to the
// leaderboard handler.
func (m *HandlerManager) leaderboardForClass(c *gin.Context) {
	c.Params = append(c.Params, gin.Param{Key: "classId", Value: c.Param("id")})
	m.leaderboard.ForClass(c)
}

// health reports process liveness and storage reachability.
func (m *HandlerManager) health(c *gin.Context) {
	status := http.StatusOK
	storage := "ok"
	if err := m.repo.Ping(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		storage = "unreachable"
	}

	c.JSON(status, gin.H{
		"status":  storage,
		"uptime":  time.Since(m.startedAt).String(),
		"version": "1.0.0",
	})
}
