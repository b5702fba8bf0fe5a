package api

import (
	"finatlas/docs"
	"finatlas/internal/api/handlers"
	"finatlas/pkg/auth"
	"finatlas/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// Handlers groups the resource handlers SetupRouter wires up.
type Handlers struct {
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Account     *handlers.AccountHandler
	Location    *handlers.LocationHandler
	Statement   *handlers.StatementHandler
	Transaction *handlers.TransactionHandler
	Dashboard   *handlers.DashboardHandler
}

func SetupRouter(h Handlers, jwtManager *auth.JWTManager, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	// Importing docs registers the swagger spec through its init().
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes (public)
	authGroup := app.Group("/user/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	users := protected.Group("/users")
	users.Get("/me", h.User.Me)
	users.Put("/me", h.User.Update)
	users.Delete("/me", h.User.Delete)

	accounts := protected.Group("/accounts")
	accounts.Post("", h.Account.Create)
	accounts.Get("", h.Account.List)
	accounts.Get("/:id", h.Account.Get)
	accounts.Put("/:id", h.Account.Update)
	accounts.Delete("/:id", h.Account.Delete)

	locations := protected.Group("/locations")
	locations.Post("", h.Location.Create)
	locations.Get("", h.Location.List)
	// "nearby" and "within" before ":id" so fiber does not swallow them
	// as ID parameters.
	locations.Get("/nearby", h.Location.Nearby)
	locations.Post("/within", h.Location.Within)
	locations.Get("/:id", h.Location.Get)
	locations.Put("/:id", h.Location.Update)
	locations.Delete("/:id", h.Location.Delete)

	statements := protected.Group("/statements")
	statements.Post("", h.Statement.Create)
	statements.Get("", h.Statement.List)
	statements.Post("/import", h.Statement.Import)
	statements.Get("/:id", h.Statement.Get)
	statements.Put("/:id", h.Statement.Update)
	statements.Delete("/:id", h.Statement.Delete)

	transactions := protected.Group("/transactions")
	transactions.Post("", h.Transaction.Create)
	transactions.Get("", h.Transaction.List)
	transactions.Get("/:id", h.Transaction.Get)
	transactions.Put("/:id", h.Transaction.Update)
	transactions.Delete("/:id", h.Transaction.Delete)

	protected.Get("/dashboard", h.Dashboard.Get)

	return app
}
