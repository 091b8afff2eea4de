package router

import (
	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/TeamFoxHQ/TeamFox/app/controllers"
	"github.com/TeamFoxHQ/TeamFox/app/repository"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/database"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/middleware"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/msgraph"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/oauth"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	repos := repository.NewRepositories(database.GetDB())

	cfg := msgraph.NewConfigFromEnv()
	resolver := msgraph.NewTokenResolver(repos.ProviderAccount, msgraph.NewTokenRefresher(cfg))
	graphClient := msgraph.NewClient(cfg, resolver)

	controllers.Setup(repos, graphClient)

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.NewUserContext(repos.User, resolver))

	h.registerPublicRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Local auth
	app.Post("/login", controllers.HandleLogin)
	app.Post("/logout", middleware.RequireAuth, controllers.HandleLogout)

	// Microsoft OAuth
	app.Get("/auth/:provider", gothfiber.BeginAuthHandler)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)
}
