package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/netdesk/internal/api/http/handlers"
	"github.com/spec-kit/netdesk/internal/auth"
	"github.com/spec-kit/netdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health           *handlers.HealthHandler
	Auth             *handlers.AuthHandler
	Users            *handlers.UsersHandler
	Tickets          *handlers.TicketsHandler
	SLA              *handlers.SLAHandler
	Address          *handlers.AddressHandler
	Category         *handlers.CategoryHandler
	AuthMiddleware   *auth.AuthMiddleware
	LoginRateLimiter *auth.LoginRateLimiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	if cfg.LoginRateLimiter != nil {
		authGroup.Post("/login", cfg.LoginRateLimiter.Handle, cfg.Auth.Login)
	} else {
		authGroup.Post("/login", cfg.Auth.Login)
	}
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)

	userGroup := app.Group("/user", cfg.AuthMiddleware.Handle)
	userGroup.Get("/me", cfg.Users.Me)
	userGroup.Get("/", auth.RequireOperation(auth.OpUserList), cfg.Users.ListUsers)
	userGroup.Post("/", auth.RequireOperation(auth.OpUserCreate), cfg.Users.CreateUser)
	userGroup.Get("/:id", cfg.Users.GetUser)

	ticketGroup := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	ticketGroup.Post("/", cfg.Tickets.CreateTicket)
	ticketGroup.Get("/", cfg.Tickets.ListTickets)
	ticketGroup.Get("/:id", cfg.Tickets.GetTicket)
	ticketGroup.Delete("/:id", cfg.Tickets.DeleteTicket)
	ticketGroup.Patch("/:id/classify", auth.RequireOperation(auth.OpTicketClassify), cfg.Tickets.ClassifyTicket)
	ticketGroup.Patch("/:id/assign", auth.RequireOperation(auth.OpTicketAssign), cfg.Tickets.AssignTicket)
	ticketGroup.Patch("/:id/status", auth.RequireRole(domain.RoleEngineer, domain.RoleAgent, domain.RoleAdmin), cfg.Tickets.ChangeStatus)
	ticketGroup.Patch("/:id/start", auth.RequireRole(domain.RoleEngineer), cfg.Tickets.StartWork)
	ticketGroup.Patch("/:id/reopen", cfg.Tickets.ReopenTicket)
	ticketGroup.Get("/:id/assignments", cfg.Tickets.ListAssignments)
	ticketGroup.Post("/:id/feedback", auth.RequireOperation(auth.OpFeedbackSubmit), cfg.Tickets.SubmitFeedback)
	ticketGroup.Get("/:id/feedback", cfg.Tickets.GetFeedback)

	slaGroup := app.Group("/sla", cfg.AuthMiddleware.Handle)
	slaGroup.Get("/", auth.RequireOperation(auth.OpSLAList), cfg.SLA.ListSLAs)
	slaGroup.Post("/", auth.RequireOperation(auth.OpSLAManage), cfg.SLA.CreateSLA)
	slaGroup.Put("/:id", auth.RequireOperation(auth.OpSLAManage), cfg.SLA.UpdateSLA)
	slaGroup.Delete("/:id", auth.RequireOperation(auth.OpSLAManage), cfg.SLA.DeleteSLA)

	addressGroup := app.Group("/address", cfg.AuthMiddleware.Handle)
	addressGroup.Post("/", cfg.Address.CreateAddress)
	addressGroup.Get("/", cfg.Address.ListAddresses)
	addressGroup.Put("/:id", cfg.Address.UpdateAddress)
	addressGroup.Delete("/:id", cfg.Address.DeleteAddress)

	categoryGroup := app.Group("/issue/category", cfg.AuthMiddleware.Handle)
	categoryGroup.Get("/", cfg.Category.ListCategories)
	categoryGroup.Post("/", auth.RequireOperation(auth.OpCategoryManage), cfg.Category.CreateCategory)
	categoryGroup.Put("/:id", auth.RequireOperation(auth.OpCategoryManage), cfg.Category.UpdateCategory)
	categoryGroup.Delete("/:id", auth.RequireOperation(auth.OpCategoryManage), cfg.Category.DeleteCategory)
}
