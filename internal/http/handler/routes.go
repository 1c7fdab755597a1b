package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"fileapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// guard protects the /file group; pass nil to leave file routes public.
func RegisterRoutes(app *fiber.App, db *sql.DB, authSvc service.AuthService, fileSvc service.FileService, guard fiber.Handler) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoint: checks DB connectivity only
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	// Authentication
	app.Post("/users/signup", Signup(authSvc))
	app.Post("/users/signin", Signin(authSvc))
	app.Post("/signin/new_token", RefreshToken(authSvc))
	app.Delete("/logout", Logout(authSvc))

	// File management
	file := app.Group("/file")
	if guard != nil {
		file.Use(guard)
	}
	file.Post("/upload", UploadFile(fileSvc))
	file.Get("/list", ListFiles(fileSvc))
	file.Get("/download/:id", DownloadFile(fileSvc))
	file.Put("/update/:id", UpdateFile(fileSvc))
	file.Delete("/delete/:id", DeleteFile(fileSvc))
	// Registered last so the static segments above keep matching first.
	file.Get("/:id", GetFile(fileSvc))
}
