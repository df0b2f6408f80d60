package router

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/websocket"

	"github.com/viahme/viah/internal/config"
	"github.com/viahme/viah/internal/gateway"
	"github.com/viahme/viah/internal/handler"
	"github.com/viahme/viah/internal/middleware"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Wedding      *handler.WeddingHandler
	Budget       *handler.BudgetHandler
	Dashboard    *handler.DashboardHandler
	Vendor       *handler.VendorHandler
	Booking      *handler.BookingHandler
	Lead         *handler.LeadHandler
	Conversation *handler.ConversationHandler
	Message      *handler.MessageHandler
	Notification *handler.NotificationHandler
	Calendar     *handler.CalendarHandler
}

// SetupRouter sets up all routes
func SetupRouter(h *server.Hertz, handlers *Handlers, wsServer *gateway.WsServer, tokens middleware.TokenValidator) {
	cfg := config.GlobalConfig

	h.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	h.GET("/health", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, map[string]string{"status": "ok"})
	})

	api := h.Group("/api")

	// Public routes
	api.POST("/auth/register", handlers.Auth.Register)
	api.POST("/auth/login", handlers.Auth.Login)
	api.POST("/vendor-leads", handlers.Lead.Create)
	api.GET("/sites/:slug", handlers.Wedding.PublicSite)
	api.GET("/vendors", handlers.Vendor.List)
	api.GET("/vendors/:id", handlers.Vendor.Get)
	api.GET("/vendors/:id/photos", handlers.Vendor.ListPhotos)
	api.GET("/calendar/:provider/callback", handlers.Calendar.Callback)

	authed := api.Group("", middleware.JWTAuth(tokens))

	authed.POST("/auth/logout", handlers.Auth.Logout)

	users := authed.Group("/users")
	{
		users.GET("/me", handlers.User.GetUserInfo)
		users.PUT("/me", handlers.User.UpdateUserInfo)
		users.GET("/:user_id/online", handlers.User.GetOnlineStatus)
	}

	weddings := authed.Group("/weddings")
	{
		weddings.POST("", handlers.Wedding.Create)
		weddings.GET("", handlers.Wedding.List)
		weddings.GET("/:id", handlers.Wedding.Get)
		weddings.PATCH("/:id", handlers.Wedding.Update)
		weddings.DELETE("/:id", handlers.Wedding.Delete)

		weddings.POST("/:id/events", handlers.Wedding.CreateEvent)
		weddings.GET("/:id/events", handlers.Wedding.ListEvents)

		weddings.PUT("/:id/website", handlers.Wedding.SaveWebsite)
		weddings.GET("/:id/website", handlers.Wedding.GetWebsite)

		weddings.POST("/:id/categories", handlers.Budget.CreateCategory)
		weddings.GET("/:id/categories", handlers.Budget.ListCategories)
		weddings.POST("/:id/expenses", handlers.Budget.CreateExpense)
		weddings.GET("/:id/expenses", handlers.Budget.ListExpenses)
		weddings.GET("/:id/financial-summary", handlers.Budget.FinancialSummary)
	}

	authed.PUT("/events/:id", handlers.Wedding.UpdateEvent)
	authed.DELETE("/events/:id", handlers.Wedding.DeleteEvent)
	authed.PUT("/categories/:id", handlers.Budget.UpdateCategory)
	authed.DELETE("/categories/:id", handlers.Budget.DeleteCategory)
	authed.PATCH("/expenses/:id", handlers.Budget.UpdateExpense)
	authed.DELETE("/expenses/:id", handlers.Budget.DeleteExpense)

	dashboard := authed.Group("/dashboard/widgets")
	{
		dashboard.GET("/:wedding_id", handlers.Dashboard.ListWidgets)
		dashboard.PUT("/:wedding_id/order", handlers.Dashboard.Reorder)
		dashboard.PATCH("/item/:id", handlers.Dashboard.SetVisibility)
	}

	vendors := authed.Group("/vendors")
	{
		vendors.POST("", handlers.Vendor.Create)
		vendors.GET("/mine", handlers.Vendor.ListMine)
		vendors.POST("/:id/photos", handlers.Vendor.UploadPhoto)
		vendors.DELETE("/photos/:photo_id", handlers.Vendor.DeletePhoto)
	}

	bookings := authed.Group("/bookings")
	{
		bookings.POST("", handlers.Booking.Create)
		bookings.GET("/vendor/:vendor_id", handlers.Booking.ListByVendor)
		bookings.GET("/wedding/:wedding_id", handlers.Booking.ListByWedding)
		bookings.PATCH("/:id/status", handlers.Booking.UpdateStatus)
	}

	contracts := authed.Group("/contracts")
	{
		contracts.POST("", handlers.Booking.CreateContract)
		contracts.GET("/wedding/:wedding_id", handlers.Booking.ListContracts)
	}

	leads := authed.Group("/vendor-leads")
	{
		leads.GET("/:vendor_id", handlers.Lead.List)
		leads.GET("/:vendor_id/analytics", handlers.Lead.Analytics)
		leads.PATCH("/item/:id", handlers.Lead.UpdateStatus)
	}

	convs := authed.Group("/conversations")
	{
		convs.POST("", handlers.Conversation.Start)
		convs.GET("", handlers.Conversation.List)
		convs.GET("/wedding/:wedding_id/groups", handlers.Conversation.Groups)
		convs.GET("/:id/status", handlers.Conversation.Status)
		convs.POST("/:id/close", handlers.Conversation.Close)
		convs.POST("/:id/read", handlers.Conversation.MarkRead)
	}

	messages := authed.Group("/messages")
	{
		messages.POST("", handlers.Message.SendMessage)
		messages.GET("", handlers.Message.PullMessages)
	}

	authed.GET("/notifications/unread-count", handlers.Notification.UnreadCount)
	authed.GET("/calendar/:provider/auth-url", handlers.Calendar.AuthURL)

	allowedOrigins := cfg.Server.AllowedOrigins
	upgrader := &websocket.HertzUpgrader{
		CheckOrigin: func(ctx *app.RequestContext) bool {
			return middleware.OriginAllowed(string(ctx.Request.Header.Peek("Origin")), allowedOrigins)
		},
	}

	h.GET("/ws", func(ctx context.Context, c *app.RequestContext) {
		wsServer.HandleConnection(ctx, c, upgrader)
	})
}
