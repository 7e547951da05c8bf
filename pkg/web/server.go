// Package web serves the dashboard: server-rendered pages for sign-in and
// workflow management plus a JSON API over the same operations.
package web

import (
	"embed"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/template/html/v2"

	"github.com/flowdeck/flowdeck/pkg/installer"
	"github.com/flowdeck/flowdeck/pkg/session"
	"github.com/flowdeck/flowdeck/pkg/supabase"
)

//go:embed views/*.html
var viewsFS embed.FS

type Server struct {
	logger    *slog.Logger
	client    *supabase.Client
	installer *installer.Client
	profiles  *session.Profiles
	validate  *validator.Validate
	jwtSecret []byte
}

func NewServer(
	logger *slog.Logger,
	client *supabase.Client,
	installerClient *installer.Client,
	jwtSecret []byte,
) *Server {
	return &Server{
		logger:    logger,
		client:    client,
		installer: installerClient,
		profiles:  session.NewProfiles(client, logger),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		jwtSecret: jwtSecret,
	}
}

func (s *Server) App() *fiber.App {
	engine := html.NewFileSystem(http.FS(viewsFS), ".html")

	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "views/layout",
	})
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", s.Landing)
	app.Get("/login", s.LoginPage)
	app.Post("/login", s.SignIn)
	app.Post("/signup", s.SignUp)
	app.Post("/logout", s.SignOut)

	d := app.Group("/dashboard", s.requireAuth)
	d.Get("/", s.Dashboard)
	d.Post("/templates/:id/install", s.InstallTemplate)
	d.Post("/workflows", s.CreateWorkflow)
	d.Post("/workflows/:id/delete", s.DeleteWorkflow)
	d.Post("/workflows/:id/status", s.UpdateWorkflowStatus)

	api := app.Group("/api", s.requireAPIAuth)
	api.Get("/workflows", s.ListWorkflowsAPI)
	api.Post("/workflows", s.CreateWorkflowAPI)
	api.Patch("/workflows/:id", s.UpdateWorkflowAPI)
	api.Delete("/workflows/:id", s.DeleteWorkflowAPI)

	return app
}

func (s *Server) Start(port int) error {
	app := s.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
