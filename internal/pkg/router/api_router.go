package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/TeamFoxHQ/TeamFox/app/controllers"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1", middleware.RequireAPISessionAuth)

	// Profile
	v1.Get("/profile", controllers.HandleGetProfile)
	v1.Get("/profile/photo", controllers.HandleGetProfilePhoto)

	// Dashboard
	v1.Get("/dashboard/groups", controllers.HandleDashboardGroups)
	v1.Get("/dashboard/stats", middleware.RequireAPIManager, controllers.HandleDashboardStats)
	v1.Get("/groups", controllers.HandleListGroups)

	// Mail
	v1.Get("/mail/folders", controllers.HandleListMailFolders)
	v1.Get("/mail/messages", controllers.HandleListMessages)
	v1.Get("/mail/messages/:id", controllers.HandleGetMessage)
	v1.Post("/mail/messages", controllers.HandleSendMail)
	v1.Post("/mail/messages/:id/reply", controllers.HandleReplyMessage)
	v1.Post("/mail/messages/:id/forward", controllers.HandleForwardMessage)
	v1.Post("/mail/messages/:id/read", controllers.HandleMarkMessageRead)
	v1.Delete("/mail/messages/:id", controllers.HandleDeleteMessage)

	// Calendar
	v1.Get("/calendar/events", controllers.HandleListEvents)
	v1.Post("/calendar/schedules", controllers.HandleGetSchedules)

	// SharePoint sites + drive
	v1.Get("/sites", controllers.HandleListSites)
	v1.Get("/sites/discover", controllers.HandleDiscoverSites)
	v1.Post("/sites", middleware.RequireAPIAdmin, controllers.HandleRegisterSite)
	v1.Delete("/sites/:id", middleware.RequireAPIAdmin, controllers.HandleUnregisterSite)
	v1.Get("/sites/:id/items", controllers.HandleListDriveItems)
	v1.Post("/sites/:id/folders", controllers.HandleCreateFolder)
	v1.Post("/sites/:id/files", controllers.HandleUploadFile)
	v1.Patch("/sites/:id/items/:itemId", controllers.HandleRenameItem)
	v1.Delete("/sites/:id/items/:itemId", controllers.HandleDeleteItem)
	v1.Get("/sites/:id/items/:itemId/download", controllers.HandleDownloadItem)

	// Directory: departments
	v1.Get("/departments", controllers.HandleListDepartments)
	v1.Get("/departments/:id", controllers.HandleGetDepartment)
	v1.Post("/departments", middleware.RequireAPIAdmin, controllers.HandleCreateDepartment)
	v1.Put("/departments/:id", middleware.RequireAPIAdmin, controllers.HandleUpdateDepartment)
	v1.Delete("/departments/:id", middleware.RequireAPIAdmin, controllers.HandleDeleteDepartment)

	// Directory: positions
	v1.Get("/positions", controllers.HandleListPositions)
	v1.Get("/positions/:id", controllers.HandleGetPosition)
	v1.Post("/positions", middleware.RequireAPIAdmin, controllers.HandleCreatePosition)
	v1.Put("/positions/:id", middleware.RequireAPIAdmin, controllers.HandleUpdatePosition)
	v1.Delete("/positions/:id", middleware.RequireAPIAdmin, controllers.HandleDeletePosition)

	// Directory: users
	v1.Get("/users", controllers.HandleListUsers)
	v1.Get("/users/:id", controllers.HandleGetUser)
	v1.Post("/users", middleware.RequireAPIAdmin, controllers.HandleCreateUser)
	v1.Put("/users/:id", middleware.RequireAPIAdmin, controllers.HandleUpdateUser)
	v1.Delete("/users/:id", middleware.RequireAPIAdmin, controllers.HandleDeleteUser)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
