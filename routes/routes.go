package routes

import (
	"net/http"

	"pupcare/controllers"
	"pupcare/middlewares"
	"pupcare/models"
	"pupcare/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	DB        *gorm.DB
	Log       *zap.Logger
	Auth      *services.AuthService
	Users     *services.UserService
	Puppies   *services.PuppyService
	Members   *services.MemberService
	Days      *services.DayLogService
	Health    *services.HealthService
	Analytics *services.AnalyticsService
	Chat      *services.ChatService
	Push      *services.PushService // nil when SNS is not configured
	Hub       *services.RealtimeHub
}

func SetupRouter(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(log))

	authC := controllers.NewAuthController(d.Auth)
	userC := controllers.NewUserController(d.Users)
	deviceC := controllers.NewDeviceController(d.Push, d.DB)
	puppyC := controllers.NewPuppyController(d.Puppies)
	memberC := controllers.NewMemberController(d.Members)
	dayC := controllers.NewDayLogController(d.Days)
	healthC := controllers.NewHealthController(d.Health)
	statsC := controllers.NewAnalyticsController(d.Analytics)
	chatC := controllers.NewChatController(d.Chat)
	rtC := controllers.NewRealtimeController(d.Hub)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Public auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authC.Register)
		auth.POST("/login", authC.Login)
	}

	session := api.Group("")
	session.Use(middlewares.AuthMiddleware(d.Auth))
	session.POST("/auth/logout", authC.Logout)

	// Protected user routes
	user := session.Group("/user")
	{
		user.GET("/profile", userC.GetProfile)
		user.PUT("/profile", userC.UpdateProfile)
		user.GET("/alerts", userC.Alerts)
		user.POST("/devices", deviceC.Register)
		user.POST("/notifications/toggle", deviceC.ToggleNotifications)
	}

	session.GET("/puppies", puppyC.List)
	session.POST("/puppies", puppyC.Create)
	session.POST("/invitations/:token/accept", memberC.Accept)

	viewer := middlewares.RequirePuppyRole(d.Members, models.RoleViewer)
	editor := middlewares.RequirePuppyRole(d.Members, models.RoleEditor)
	owner := middlewares.RequirePuppyRole(d.Members, models.RoleOwner)

	p := session.Group("/puppies/:id")
	{
		p.GET("", viewer, puppyC.Get)
		p.PUT("", editor, puppyC.Update)
		p.DELETE("", owner, puppyC.Delete)
		p.POST("/photo", editor, puppyC.UploadPhoto)

		p.GET("/weights", viewer, puppyC.ListWeights)
		p.POST("/weights", editor, puppyC.AddWeight)
		p.DELETE("/weights/:wid", editor, puppyC.DeleteWeight)

		p.GET("/members", viewer, memberC.List)
		p.POST("/invitations", owner, memberC.Invite)
		p.PUT("/members/:uid", owner, memberC.UpdateRole)
		p.DELETE("/members/:uid", owner, memberC.Remove)

		p.GET("/logs", viewer, dayC.List)
		p.GET("/logs/:date", viewer, dayC.Get)
		p.PUT("/logs/:date", editor, dayC.UpdateDetails)
		p.POST("/logs/:date/potty", editor, dayC.AddPotty)
		p.POST("/logs/:date/meals", editor, dayC.AddMeal)
		p.POST("/logs/:date/naps", editor, dayC.AddNap)
		p.POST("/logs/:date/wakes", editor, dayC.AddWake)
		p.DELETE("/logs/:date/potty/:entryID", editor, dayC.RemoveEntry(services.EntryPotty))
		p.DELETE("/logs/:date/meals/:entryID", editor, dayC.RemoveEntry(services.EntryMeal))
		p.DELETE("/logs/:date/naps/:entryID", editor, dayC.RemoveEntry(services.EntryNap))
		p.DELETE("/logs/:date/wakes/:entryID", editor, dayC.RemoveEntry(services.EntryWake))

		p.GET("/health", viewer, healthC.List)
		p.POST("/health", editor, healthC.Create)
		p.PUT("/health/:rid", editor, healthC.Update)
		p.DELETE("/health/:rid", editor, healthC.Delete)

		p.GET("/stats/day/:date", viewer, statsC.GetDay)
		p.GET("/stats/summary", viewer, statsC.GetSummary)
		p.GET("/stats/week", viewer, statsC.GetWeeklyOverview)
		p.GET("/stats/schedule", viewer, statsC.GetSchedule)

		p.POST("/chat", viewer, chatC.Ask)
		p.GET("/ws", viewer, rtC.PuppyWS)
	}

	return r
}
