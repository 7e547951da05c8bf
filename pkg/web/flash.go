package web

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gofiber/fiber/v3"
)

const flashCookie = "fd_flash"

// Flash is a one-shot notice surfaced on the next rendered page.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func setFlash(c fiber.Ctx, level, message string) {
	payload, err := json.Marshal(Flash{Level: level, Message: message})
	if err != nil {
		return
	}

	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// popFlash reads and clears the flash cookie. Malformed values are dropped.
func popFlash(c fiber.Ctx) *Flash {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return nil
	}

	c.ClearCookie(flashCookie)

	payload, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}

	flash := &Flash{}
	if err := json.Unmarshal(payload, flash); err != nil {
		return nil
	}

	return flash
}
