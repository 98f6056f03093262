// Settings HTTP handlers: preferences, the active language and a Twitch
// credential check.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
	"github.com/tbourn/go-shoutout-manager/internal/services"
	"github.com/tbourn/go-shoutout-manager/internal/twitch"
)

// LanguageRequest selects the active language by code.
type LanguageRequest struct {
	Code string `json:"code" binding:"required" example:"en"`
}

// LanguageResponse is the active language plus the supported ones.
type LanguageResponse struct {
	Active    domain.LanguageConfig   `json:"active"`
	Supported []domain.LanguageConfig `json:"supported"`
	Warnings  []string                `json:"warnings,omitempty"`
}

// TwitchTestRequest optionally carries credentials to test before saving
// them. When both fields are empty the effective credentials are tested.
type TwitchTestRequest struct {
	ClientID     string `json:"clientId,omitempty"`
	ClientSecret string `json:"clientSecret,omitempty"`
}

// TwitchTestResponse is returned when a token could be obtained.
type TwitchTestResponse struct {
	OK bool `json:"ok" example:"true"`
}

// GetSettings godoc
// @ID          getSettings
// @Summary     Current settings
// @Tags        Settings
// @Produce     json
// @Success     200  {object}  domain.Settings
// @Router      /settings [get]
func (h *Handlers) GetSettings(c *gin.Context) {
	ok(c, http.StatusOK, h.setSvc.Get(c.Request.Context()))
}

// UpdateSettings godoc
// @ID          updateSettings
// @Summary     Update settings
// @Description Omitted fields are kept. A non-empty customColor switches the theme to "custom".
// @Tags        Settings
// @Accept      json
// @Produce     json
// @Param       body  body      services.SettingsPatch  true  "Changes"
// @Success     200   {object}  domain.Settings
// @Failure     400   {object}  handlers.ErrorResponse  "Invalid value"
// @Failure     500   {object}  handlers.ErrorResponse  "Not saved"
// @Router      /settings [put]
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var p services.SettingsPatch
	if !bindJSON(c, &p) {
		return
	}
	s, err := h.setSvc.Update(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, s)
}

// GetLanguage godoc
// @ID          getLanguage
// @Summary     Active and supported languages
// @Tags        Settings
// @Produce     json
// @Success     200  {object}  handlers.LanguageResponse
// @Router      /language [get]
func (h *Handlers) GetLanguage(c *gin.Context) {
	ctx := c.Request.Context()
	ok(c, http.StatusOK, LanguageResponse{Active: h.setSvc.Language(ctx), Supported: h.setSvc.Languages(ctx)})
}

// SetLanguage godoc
// @ID          setLanguage
// @Summary     Switch the active language
// @Tags        Settings
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.LanguageRequest  true  "Language"
// @Success     200   {object}  handlers.LanguageResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Unsupported language"
// @Router      /language [put]
func (h *Handlers) SetLanguage(c *gin.Context) {
	var req LanguageRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	active, err := h.setSvc.SetLanguage(ctx, req.Code)
	if !isPersistOnly(err) {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, LanguageResponse{
		Active:    active,
		Supported: h.setSvc.Languages(ctx),
		Warnings:  warningsFor(err),
	})
}

// TestTwitch godoc
// @ID          testTwitch
// @Summary     Check Twitch credentials
// @Description Requests a fresh app access token.
// @Tags        Settings
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.TwitchTestRequest  false  "Credentials to test"
// @Success     200   {object}  handlers.TwitchTestResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Credentials missing"
// @Failure     502   {object}  handlers.ErrorResponse  "Rejected by Twitch"
// @Router      /settings/twitch/test [post]
func (h *Handlers) TestTwitch(c *gin.Context) {
	var req TwitchTestRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	var creds *twitch.Credentials
	if req.ClientID != "" || req.ClientSecret != "" {
		creds = &twitch.Credentials{ClientID: req.ClientID, ClientSecret: req.ClientSecret}
	}
	if err := h.dirSvc.TestCredentials(c.Request.Context(), creds); err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, TwitchTestResponse{OK: true})
}
