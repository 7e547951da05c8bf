package web

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v3"

	"github.com/flowdeck/flowdeck/pkg/catalog"
	"github.com/flowdeck/flowdeck/pkg/installer"
	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/supabase"
	"github.com/flowdeck/flowdeck/pkg/workflows"
)

// Landing routes the bare domain: signed-in browsers go to the dashboard,
// everyone else to the sign-in page.
func (s *Server) Landing(c fiber.Ctx) error {
	if _, err := s.identityFromCookie(c); err == nil {
		return c.Redirect().Status(fiber.StatusSeeOther).To("/dashboard")
	}

	return c.Redirect().Status(fiber.StatusSeeOther).To("/login")
}

func (s *Server) LoginPage(c fiber.Ctx) error {
	if _, err := s.identityFromCookie(c); err == nil {
		return c.Redirect().Status(fiber.StatusSeeOther).To("/dashboard")
	}

	return c.Render("views/login", loginData{
		Title: "Sign in",
		Flash: popFlash(c),
	})
}

func (s *Server) SignIn(c fiber.Ctx) error {
	form := signInForm{
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}

	if err := s.validate.Struct(form); err != nil {
		setFlash(c, "error", "Enter a valid email and password")

		return c.Redirect().Status(fiber.StatusSeeOther).To("/login")
	}

	userSession, err := s.client.PasswordGrant(c.Context(), form.Email, form.Password)
	if err != nil {
		var serviceErr *supabase.ServiceError
		if errors.As(err, &serviceErr) {
			setFlash(c, "error", "Invalid email or password")
		} else {
			s.logger.Error("Sign-in request failed", "error", err)
			setFlash(c, "error", "Could not reach the authentication service")
		}

		return c.Redirect().Status(fiber.StatusSeeOther).To("/login")
	}

	// First sign-in after an out-of-band confirmation still needs a
	// profile row.
	if userSession.User != nil {
		if _, err := s.profiles.GetOrCreate(c.Context(), userSession.AccessToken, userSession.User.ID); err != nil {
			s.logger.Error("Failed to provision profile", "error", err, "user_id", userSession.User.ID)
		}
	}

	setSessionCookies(c, userSession)

	return c.Redirect().Status(fiber.StatusSeeOther).To("/dashboard")
}

func (s *Server) SignUp(c fiber.Ctx) error {
	form := signUpForm{
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
		FullName: c.FormValue("full_name"),
	}

	if err := s.validate.Struct(form); err != nil {
		setFlash(c, "error", "Enter a valid email and a password of at least 8 characters")

		return c.Redirect().Status(fiber.StatusSeeOther).To("/login")
	}

	result, err := s.client.Register(c.Context(), form.Email, form.Password, form.FullName)
	if err != nil {
		var serviceErr *supabase.ServiceError
		if errors.As(err, &serviceErr) && serviceErr.Message != "" {
			setFlash(c, "error", serviceErr.Message)
		} else {
			s.logger.Error("Sign-up request failed", "error", err)
			setFlash(c, "error", "Sign-up failed")
		}

		return c.Redirect().Status(fiber.StatusSeeOther).To("/login")
	}

	if result.Session == nil {
		setFlash(c, "info", "Check your email to confirm your account")

		return c.Redirect().Status(fiber.StatusSeeOther).To("/login")
	}

	if result.Session.User != nil {
		if _, err := s.profiles.GetOrCreate(c.Context(), result.Session.AccessToken, result.Session.User.ID); err != nil {
			s.logger.Error("Failed to provision profile", "error", err, "user_id", result.Session.User.ID)
		}
	}

	setSessionCookies(c, result.Session)

	return c.Redirect().Status(fiber.StatusSeeOther).To("/dashboard")
}

// SignOut revokes the session remotely when possible; the cookies are
// cleared either way.
func (s *Server) SignOut(c fiber.Ctx) error {
	if token := c.Cookies(accessCookie); token != "" {
		if err := s.client.RevokeToken(c.Context(), token); err != nil {
			s.logger.Warn("Failed to revoke session", "error", err)
		}
	}

	clearSessionCookies(c)

	return c.Redirect().Status(fiber.StatusSeeOther).To("/login")
}

func (s *Server) Dashboard(c fiber.Ctx) error {
	ident := identityFrom(c)

	// Page data degrades rather than erroring: a failed profile or
	// workflow load renders an emptier dashboard.
	profile, err := s.profiles.GetOrCreate(c.Context(), ident.Token, ident.UserID)
	if err != nil {
		s.logger.Error("Failed to load profile", "error", err, "user_id", ident.UserID)
	}

	accessor := workflows.NewAccessorForToken(s.client, ident.Token, ident.UserID, s.logger)
	if err := accessor.Fetch(c.Context()); err != nil {
		s.logger.Error("Failed to load workflows", "error", err, "user_id", ident.UserID)
	}

	displayName := ident.Email
	plan := string(models.SubscriptionFree)

	if profile != nil {
		displayName = profile.DisplayName()
		plan = string(profile.SubscriptionStatus)
	}

	category := c.Query("category", catalog.AllCategories)
	owned := accessor.Workflows()

	return c.Render("views/dashboard", dashboardData{
		Title:            "Dashboard",
		DisplayName:      displayName,
		Plan:             plan,
		Workflows:        owned,
		WorkflowCount:    len(owned),
		ActiveCount:      accessor.ActiveCount(),
		TemplateCount:    catalog.Count(),
		Categories:       catalog.Categories(),
		SelectedCategory: category,
		Templates:        catalog.Filter(category),
		InstallingID:     s.installer.InstallingID(),
		Flash:            popFlash(c),
	})
}

func (s *Server) InstallTemplate(c fiber.Ctx) error {
	ident := identityFrom(c)
	category := c.FormValue("category")

	template, ok := catalog.ByID(c.Params("id"))
	if !ok {
		setFlash(c, "error", "Unknown template")

		return c.Redirect().Status(fiber.StatusSeeOther).To(dashboardPath(category))
	}

	outcome, err := s.installer.Install(c.Context(), ident.Token, template.ID)
	if err != nil {
		if errors.Is(err, installer.ErrNotConfigured) {
			setFlash(c, "error", "Automation backend is not configured")
		} else {
			s.logger.Error("Install request failed", "error", err, "template_id", template.ID)
			setFlash(c, "error", "Network or auth error")
		}

		return c.Redirect().Status(fiber.StatusSeeOther).To(dashboardPath(category))
	}

	switch outcome.Kind {
	case installer.OutcomeRedirect:
		return c.Redirect().Status(fiber.StatusSeeOther).To(outcome.AuthURL)

	case installer.OutcomeActivated:
		setFlash(c, "success", "Workflow installed and activated")

	case installer.OutcomeError:
		setFlash(c, "error", outcome.Message)
	}

	return c.Redirect().Status(fiber.StatusSeeOther).To(dashboardPath(category))
}

func (s *Server) CreateWorkflow(c fiber.Ctx) error {
	ident := identityFrom(c)

	req := CreateWorkflowRequest{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
	}

	if err := s.validate.Struct(req); err != nil {
		setFlash(c, "error", "Workflow name must be at least 3 characters")

		return c.Redirect().Status(fiber.StatusSeeOther).To("/dashboard")
	}

	accessor := workflows.NewAccessorForToken(s.client, ident.Token, ident.UserID, s.logger)

	if _, err := accessor.Create(c.Context(), req.Name, req.Description); err != nil {
		s.logger.Error("Failed to create workflow", "error", err, "user_id", ident.UserID)
		setFlash(c, "error", "Could not create the workflow")
	} else {
		setFlash(c, "success", "Workflow created")
	}

	return c.Redirect().Status(fiber.StatusSeeOther).To("/dashboard")
}

func (s *Server) DeleteWorkflow(c fiber.Ctx) error {
	ident := identityFrom(c)

	accessor := workflows.NewAccessorForToken(s.client, ident.Token, ident.UserID, s.logger)

	if err := accessor.Delete(c.Context(), c.Params("id")); err != nil {
		s.logger.Error("Failed to delete workflow", "error", err, "user_id", ident.UserID)
		setFlash(c, "error", "Could not delete the workflow")
	} else {
		setFlash(c, "success", "Workflow deleted")
	}

	return c.Redirect().Status(fiber.StatusSeeOther).To("/dashboard")
}

func (s *Server) UpdateWorkflowStatus(c fiber.Ctx) error {
	ident := identityFrom(c)

	status := models.WorkflowStatus(c.FormValue("status"))
	if status != models.WorkflowStatusActive && status != models.WorkflowStatusPaused {
		setFlash(c, "error", "Invalid workflow status")

		return c.Redirect().Status(fiber.StatusSeeOther).To("/dashboard")
	}

	accessor := workflows.NewAccessorForToken(s.client, ident.Token, ident.UserID, s.logger)

	if _, err := accessor.Update(c.Context(), c.Params("id"), workflows.Patch{Status: &status}); err != nil {
		s.logger.Error("Failed to update workflow", "error", err, "user_id", ident.UserID)
		setFlash(c, "error", "Could not update the workflow")
	} else {
		setFlash(c, "success", "Workflow updated")
	}

	return c.Redirect().Status(fiber.StatusSeeOther).To("/dashboard")
}

func dashboardPath(category string) string {
	if category == "" || category == catalog.AllCategories {
		return "/dashboard"
	}

	return "/dashboard?category=" + url.QueryEscape(category)
}
