// Generator HTTP handlers.
//
// The selection is server-side session state shared by every client of
// this process:
//   - GET    /selection
//   - PUT    /selection
//   - DELETE /selection
//   - POST   /selection/toggle/{id}
//   - POST   /selection/group/{id}
//   - POST   /generate
//   - POST   /clipboard
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-shoutout-manager/internal/services"
	"github.com/tbourn/go-shoutout-manager/internal/store"
)

// SelectionRequest replaces the selection. A non-empty TemplateID also
// switches the active template.
type SelectionRequest struct {
	StreamerIDs []string `json:"streamerIds"`
	TemplateID  string   `json:"templateId,omitempty"`
}

// ToggleResponse reports the streamer's membership after a toggle.
type ToggleResponse struct {
	Selected bool                    `json:"selected"`
	State    services.SelectionState `json:"state"`
}

// SelectGroupResponse reports how many streamers a group added.
type SelectGroupResponse struct {
	Added int                     `json:"added"`
	State services.SelectionState `json:"state"`
}

// GenerateRequest selects the template to use; empty means the active one.
// Copy additionally puts the command on the clipboard.
type GenerateRequest struct {
	TemplateID string `json:"templateId,omitempty"`
	Copy       bool   `json:"copy,omitempty"`
}

// GenerateResponse is a generated command. Warnings list problems that did
// not prevent generation (history not saved, clipboard unavailable).
type GenerateResponse struct {
	Command  string   `json:"command" example:"!so raid Go follow @alice, @bob and @carol!"`
	TextOnly string   `json:"textOnly" example:"Go follow @alice, @bob and @carol!"`
	Language string   `json:"language" example:"en"`
	EntryID  string   `json:"entryId,omitempty"`
	Copied   bool     `json:"copied"`
	Warnings []string `json:"warnings,omitempty"`
}

// ClipboardRequest is text to copy.
type ClipboardRequest struct {
	Text string `json:"text" binding:"required"`
}

// GetSelection godoc
// @ID          getSelection
// @Summary     Current selection
// @Tags        Generator
// @Produce     json
// @Success     200  {object}  services.SelectionState
// @Router      /selection [get]
func (h *Handlers) GetSelection(c *gin.Context) {
	ok(c, http.StatusOK, h.genSvc.State(c.Request.Context()))
}

// ReplaceSelection godoc
// @ID          replaceSelection
// @Summary     Replace the selection
// @Description Unknown ids are ignored; order is preserved.
// @Tags        Generator
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.SelectionRequest  true  "Selection"
// @Success     200   {object}  services.SelectionState
// @Failure     404   {object}  handlers.ErrorResponse  "Template not found"
// @Router      /selection [put]
func (h *Handlers) ReplaceSelection(c *gin.Context) {
	var req SelectionRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	if req.TemplateID != "" {
		if err := h.genSvc.SetTemplate(ctx, req.TemplateID); err != nil {
			writeError(c, err)
			return
		}
	}
	ok(c, http.StatusOK, h.genSvc.ReplaceSelection(ctx, req.StreamerIDs))
}

// ClearSelection godoc
// @ID          clearSelection
// @Summary     Clear the selection
// @Tags        Generator
// @Success     204  {string}  string  "No Content"
// @Router      /selection [delete]
func (h *Handlers) ClearSelection(c *gin.Context) {
	h.genSvc.ClearSelection(c.Request.Context())
	noContent(c)
}

// ToggleStreamer godoc
// @ID          toggleStreamer
// @Summary     Toggle a streamer in the selection
// @Tags        Generator
// @Produce     json
// @Param       id   path      string  true  "Streamer ID"
// @Success     200  {object}  handlers.ToggleResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Streamer not found"
// @Router      /selection/toggle/{id} [post]
func (h *Handlers) ToggleStreamer(c *gin.Context) {
	ctx := c.Request.Context()
	sel, err := h.genSvc.Toggle(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, ToggleResponse{Selected: sel, State: h.genSvc.State(ctx)})
}

// SelectGroup godoc
// @ID          selectGroup
// @Summary     Add a group's members to the selection
// @Description Union with the current selection; members already selected keep their position.
// @Tags        Generator
// @Produce     json
// @Param       id   path      string  true  "Group ID"
// @Success     200  {object}  handlers.SelectGroupResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Group not found"
// @Router      /selection/group/{id} [post]
func (h *Handlers) SelectGroup(c *gin.Context) {
	ctx := c.Request.Context()
	n, err := h.genSvc.SelectGroup(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, SelectGroupResponse{Added: n, State: h.genSvc.State(ctx)})
}

// Generate godoc
// @ID          generate
// @Summary     Generate a shoutout command
// @Description Builds the command from the selection in the active language and records it in history. Send an Idempotency-Key to make retries safe.
// @Tags        Generator
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string                    false  "Replay key"
// @Param       body             body    handlers.GenerateRequest  false  "Options"
// @Success     200  {object}  handlers.GenerateResponse
// @Failure     400  {object}  handlers.ErrorResponse  "No template or empty selection"
// @Router      /generate [post]
func (h *Handlers) Generate(c *gin.Context) {
	var req GenerateRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	g, err := h.genSvc.Generate(ctx, req.TemplateID)
	if g == nil {
		writeError(c, err)
		return
	}

	resp := GenerateResponse{
		Command:  g.Command,
		TextOnly: g.TextOnly,
		Language: g.Language,
		EntryID:  g.Entry.ID,
	}
	if w := persistWarning(err); w != "" {
		resp.Warnings = append(resp.Warnings, w)
	}
	if req.Copy {
		if cerr := h.genSvc.Copy(ctx, g.Command); cerr != nil {
			resp.Warnings = append(resp.Warnings, cerr.Error())
		} else {
			resp.Copied = true
		}
	}
	ok(c, http.StatusOK, resp)
}

// CopyText godoc
// @ID          copyText
// @Summary     Copy text to the clipboard
// @Tags        Generator
// @Accept      json
// @Param       body  body  handlers.ClipboardRequest  true  "Text"
// @Success     204  {string}  string  "No Content"
// @Failure     503  {object}  handlers.ErrorResponse  "Clipboard unavailable"
// @Router      /clipboard [post]
func (h *Handlers) CopyText(c *gin.Context) {
	var req ClipboardRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.genSvc.Copy(c.Request.Context(), req.Text); err != nil {
		writeError(c, err)
		return
	}
	noContent(c)
}

// warningsFor collects a persistence warning, if any.
func warningsFor(err error) []string {
	if w := persistWarning(err); w != "" {
		return []string{w}
	}
	return nil
}

// isPersistOnly reports whether err is nil or only a save failure.
func isPersistOnly(err error) bool {
	return err == nil || errors.Is(err, store.ErrPersist)
}
