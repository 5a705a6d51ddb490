package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/Igsankya24/krishna-tech-solutions/internal/audit"
	"github.com/Igsankya24/krishna-tech-solutions/internal/config"
	"github.com/Igsankya24/krishna-tech-solutions/internal/deployment"
	"github.com/Igsankya24/krishna-tech-solutions/internal/events"
	"github.com/Igsankya24/krishna-tech-solutions/internal/handlers"
	infraRepo "github.com/Igsankya24/krishna-tech-solutions/internal/infra/repository"
	"github.com/Igsankya24/krishna-tech-solutions/internal/middleware"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
	"github.com/Igsankya24/krishna-tech-solutions/internal/notify"
	"github.com/Igsankya24/krishna-tech-solutions/internal/secrets"
	ucBooking "github.com/Igsankya24/krishna-tech-solutions/internal/usecase/booking"
	ucUsers "github.com/Igsankya24/krishna-tech-solutions/internal/usecase/users"
)

// Deps carries the pieces main owns before routing starts: the credential box
// and the optional Redis-backed change feed. Publisher and Subscriber may be
// nil; the feed then degrades to a no-op.
type Deps struct {
	Box        *secrets.Box
	Publisher  *events.Publisher
	Subscriber *events.Subscriber
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	usersRepo := infraRepo.NewUsersGormRepository(db)
	accessStore := infraRepo.NewAccessGormStore(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	emailSender := notify.NewHTTPEmailSender(notify.EmailConfig{
		APIURL:       cfg.EmailAPIURL,
		APIKey:       cfg.EmailAPIKey,
		From:         cfg.EmailFrom,
		AdminEmail:   cfg.AdminEmail,
		BusinessName: cfg.BusinessName,
	})
	smsSender := notify.NewHTTPSMSSender(notify.SMSConfig{
		APIURL:       cfg.SMSAPIURL,
		AccountID:    cfg.SMSAccountID,
		AuthToken:    cfg.SMSAuthToken,
		From:         cfg.SMSFrom,
		AdminPhone:   cfg.AdminPhone,
		BusinessName: cfg.BusinessName,
	})
	notifyDispatcher := notify.NewDispatcher(emailSender, smsSender)

	deployService := deployment.NewService(db, deps.Box, nil, auditDispatcher)

	// ======================================================
	// USE CASES
	// ======================================================
	reserveUC := ucBooking.NewReserveSlot(bookingRepo, auditDispatcher, notifyDispatcher, deps.Publisher)
	bookedUC := ucBooking.NewBookedTimes(bookingRepo)
	listUC := ucBooking.NewListAppointments(bookingRepo)
	transitionUC := ucBooking.NewTransitionAppointment(bookingRepo, auditDispatcher, deps.Publisher)

	deleteUserUC := ucUsers.NewDeleteUser(usersRepo, auditDispatcher, deps.Publisher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	publicHandler := handlers.NewPublicHandler(db, reserveUC, bookedUC)
	chatHandler := handlers.NewChatHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(db, listUC, transitionUC, auditDispatcher, deps.Publisher)
	usersHandler := handlers.NewUsersHandler(db, deleteUserUC, auditDispatcher, deps.Publisher)
	serviceHandler := handlers.NewServiceHandler(db, auditDispatcher, deps.Publisher)
	couponHandler := handlers.NewCouponHandler(db, auditDispatcher, deps.Publisher)
	settingsHandler := handlers.NewSettingsHandler(db, auditDispatcher, deps.Publisher)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	eventsHandler := handlers.NewEventsHandler(deps.Subscriber)

	functionsHandler := handlers.NewFunctionsHandler(emailSender, smsSender, deleteUserUC, deployService, accessStore)

	// ======================================================
	// HEALTH + METRICS
	// ======================================================
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.POST("/coupons/validate", publicHandler.ValidateCoupon)
			publicAPI.GET("/appointments/booked", publicHandler.BookedTimes)
			publicAPI.POST("/appointments", publicHandler.Reserve)

			publicAPI.GET("/chat/script", chatHandler.Script)
			publicAPI.POST("/chat/step", chatHandler.Step)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.POST("/auth/logout", authHandler.Logout)
			secured.GET("/me", meHandler.GetMe)
		}

		// ------------------------------
		// ADMIN DASHBOARD
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg), middleware.RequireStaff(accessStore))
		{
			// Appointments
			admin.GET("/appointments", appointmentHandler.List)
			admin.GET("/appointments/stats", appointmentHandler.Stats)
			admin.GET("/appointments/:id", appointmentHandler.Get)
			admin.PATCH("/appointments/:id/status",
				middleware.RequirePermission(accessStore, models.PermissionManageAppointments),
				appointmentHandler.UpdateStatus)
			admin.DELETE("/appointments/:id",
				middleware.RequireRole(accessStore, models.RoleAdmin, models.RoleSuperAdmin),
				appointmentHandler.Delete)

			// Users
			admin.GET("/users", usersHandler.List)
			admin.GET("/users/:id/sessions", usersHandler.Sessions)
			admin.PATCH("/users/:id/approve",
				middleware.RequirePermission(accessStore, models.PermissionManageUsers),
				usersHandler.Approve)
			admin.POST("/users/:id/roles",
				middleware.RequireRole(accessStore, models.RoleSuperAdmin),
				usersHandler.AssignRole)
			admin.DELETE("/users/:id/roles/:role",
				middleware.RequireRole(accessStore, models.RoleSuperAdmin),
				usersHandler.RevokeRole)
			admin.POST("/users/:id/permissions",
				middleware.RequireRole(accessStore, models.RoleSuperAdmin),
				usersHandler.GrantPermission)
			admin.DELETE("/users/:id/permissions/:permission",
				middleware.RequireRole(accessStore, models.RoleSuperAdmin),
				usersHandler.RevokePermission)
			admin.DELETE("/users/:id",
				middleware.RequireRole(accessStore, models.RoleAdmin, models.RoleSuperAdmin),
				usersHandler.Delete)

			// Services
			admin.GET("/services", serviceHandler.List)
			admin.POST("/services",
				middleware.RequirePermission(accessStore, models.PermissionManageServices),
				serviceHandler.Create)
			admin.PATCH("/services/:id",
				middleware.RequirePermission(accessStore, models.PermissionManageServices),
				serviceHandler.Update)
			admin.DELETE("/services/:id",
				middleware.RequirePermission(accessStore, models.PermissionManageServices),
				serviceHandler.Delete)

			// Coupons
			admin.GET("/coupons", couponHandler.List)
			admin.POST("/coupons",
				middleware.RequirePermission(accessStore, models.PermissionManageCoupons),
				couponHandler.Create)
			admin.PATCH("/coupons/:id",
				middleware.RequirePermission(accessStore, models.PermissionManageCoupons),
				couponHandler.Update)
			admin.DELETE("/coupons/:id",
				middleware.RequirePermission(accessStore, models.PermissionManageCoupons),
				couponHandler.Delete)

			// Settings
			admin.GET("/settings", settingsHandler.List)
			admin.PUT("/settings",
				middleware.RequirePermission(accessStore, models.PermissionManageSettings),
				settingsHandler.Upsert)

			// Audit logs
			admin.GET("/audit-logs",
				middleware.RequirePermission(accessStore, models.PermissionViewAuditLogs),
				auditLogsHandler.List)

			// Change feed
			admin.GET("/events/stream", eventsHandler.Stream)
		}

		// ------------------------------
		// FUNCTIONS
		// ------------------------------
		functions := api.Group("/functions")
		{
			// Notification sends carry no secrets and only reach the business's
			// own admin contacts plus the payload's customer.
			functions.POST("/send-booking-email", functionsHandler.SendBookingEmail)
			functions.POST("/send-booking-sms", functionsHandler.SendBookingSMS)

			functions.POST("/delete-user",
				middleware.AuthMiddleware(cfg),
				middleware.RequireRole(accessStore, models.RoleAdmin, models.RoleSuperAdmin),
				functionsHandler.DeleteUser)

			functions.POST("/client-deployment",
				middleware.AuthMiddleware(cfg),
				middleware.RequireRole(accessStore, models.RoleSuperAdmin),
				functionsHandler.Deploy)
		}
	}
}
