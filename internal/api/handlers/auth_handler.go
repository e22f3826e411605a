package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	config "postdeck/configs"
	"postdeck/internal/service"
	"postdeck/pkg/utils"
)

const stateTTL = 10 * time.Minute

type AuthHandler struct {
	s   service.LinkedinService
	cfg config.Config
}

func NewAuthHandler(cfg config.Config, service service.LinkedinService) *AuthHandler {
	return &AuthHandler{s: service, cfg: cfg}
}

// Connect starts the LinkedIn OAuth flow: a signed state token goes into a
// short-lived cookie and the browser is sent to the authorization endpoint.
func (h *AuthHandler) Connect(c *fiber.Ctx) error {
	state, err := utils.GenerateStateToken(h.cfg.SecretKey, c.Query("user_id"), stateTTL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unable to start OAuth flow",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.StateCookieName,
		Value:    state,
		HTTPOnly: true,
		Path:     "/",
		Expires:  time.Now().Add(stateTTL),
	})

	return c.Redirect(h.s.GetAuthURL(state))
}

// Callback finishes the OAuth flow. Every failure is terminal and surfaces
// only as an error query parameter on the redirect.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	oauthError := c.Query("error")

	if oauthError != "" {
		return h.redirectWithError(c, oauthError)
	}

	storedState := c.Cookies(h.cfg.StateCookieName)
	if state == "" || storedState == "" || !utils.SecureCompare(state, storedState) {
		return h.redirectWithError(c, "invalid_state")
	}

	claims, err := utils.ValidateStateToken(h.cfg.SecretKey, state)
	if err != nil {
		return h.redirectWithError(c, "invalid_state")
	}

	if code == "" {
		return h.redirectWithError(c, "no_code")
	}

	if err := h.s.Callback(c.Context(), code, claims.UserID); err != nil {
		if errors.Is(err, service.ErrTokenStore) {
			return h.redirectWithError(c, "token_store_failed")
		}
		return h.redirectWithError(c, "token_exchange_failed")
	}

	h.clearStateCookie(c)

	return c.Redirect(fmt.Sprintf("%s/settings?linkedin_connected=true", h.cfg.AppURL), fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) Status(c *fiber.Ctx) error {
	userID := GetUserID(c)

	status, err := h.s.Status(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"connected": false})
	}

	return c.Status(fiber.StatusOK).JSON(status)
}

func (h *AuthHandler) redirectWithError(c *fiber.Ctx, code string) error {
	h.clearStateCookie(c)
	redirectURL := fmt.Sprintf("%s/?error=%s", h.cfg.AppURL, url.QueryEscape(code))
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) clearStateCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:   h.cfg.StateCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
