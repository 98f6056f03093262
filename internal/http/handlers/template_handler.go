// Template HTTP handlers.
//
//   - GET    /templates
//   - POST   /templates
//   - PUT    /templates/{id}
//   - DELETE /templates/{id}
//   - GET    /templates/{id}/preview
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
)

// TemplateRequest is the payload for creating or replacing a template. A
// leading "!" on Command is stripped.
type TemplateRequest struct {
	Name     string `json:"name" example:"Raid shoutout"`
	Command  string `json:"command" example:"so"`
	FirstArg string `json:"firstArg" example:"raid"`
	Text     string `json:"text" example:"Go follow {streamer}!"`
}

func (r TemplateRequest) toDomain(id string) domain.Template {
	return domain.Template{ID: id, Name: r.Name, Command: r.Command, FirstArg: r.FirstArg, Text: r.Text}
}

// PreviewResponse shows a template's command with normalized placeholders.
type PreviewResponse struct {
	Preview string `json:"preview" example:"!so raid Go follow {streamer}!"`
}

// ListTemplates godoc
// @ID          listTemplates
// @Summary     List templates
// @Tags        Templates
// @Produce     json
// @Success     200  {array}   domain.Template
// @Router      /templates [get]
func (h *Handlers) ListTemplates(c *gin.Context) {
	ok(c, http.StatusOK, h.tplSvc.ListTemplates(c.Request.Context()))
}

// CreateTemplate godoc
// @ID          createTemplate
// @Summary     Create a template
// @Description Name, command and text are required.
// @Tags        Templates
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.TemplateRequest  true  "Template"
// @Success     201   {object}  domain.Template
// @Failure     400   {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     500   {object}  handlers.ErrorResponse  "Not saved"
// @Router      /templates [post]
func (h *Handlers) CreateTemplate(c *gin.Context) {
	var req TemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.tplSvc.CreateTemplate(c.Request.Context(), req.toDomain(""))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, t)
}

// UpdateTemplate godoc
// @ID          updateTemplate
// @Summary     Replace a template
// @Description Unknown ids are ignored and reported with updated=false.
// @Tags        Templates
// @Accept      json
// @Produce     json
// @Param       id    path      string                    true  "Template ID"
// @Param       body  body      handlers.TemplateRequest  true  "Template"
// @Success     200   {object}  handlers.UpdatedResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     500   {object}  handlers.ErrorResponse  "Not saved"
// @Router      /templates/{id} [put]
func (h *Handlers) UpdateTemplate(c *gin.Context) {
	var req TemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	found, err := h.tplSvc.UpdateTemplate(c.Request.Context(), req.toDomain(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, UpdatedResponse{Updated: found})
}

// DeleteTemplate godoc
// @ID          deleteTemplate
// @Summary     Delete a template
// @Description History entries keep the id and render as "(deleted template)".
// @Tags        Templates
// @Param       id   path  string  true  "Template ID"
// @Success     204  {string}  string  "No Content"
// @Failure     500  {object}  handlers.ErrorResponse  "Not saved"
// @Router      /templates/{id} [delete]
func (h *Handlers) DeleteTemplate(c *gin.Context) {
	if _, err := h.tplSvc.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	noContent(c)
}

// PreviewTemplate godoc
// @ID          previewTemplate
// @Summary     Preview a template
// @Tags        Templates
// @Produce     json
// @Param       id   path      string  true  "Template ID"
// @Success     200  {object}  handlers.PreviewResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Template not found"
// @Router      /templates/{id}/preview [get]
func (h *Handlers) PreviewTemplate(c *gin.Context) {
	p, err := h.tplSvc.PreviewTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, PreviewResponse{Preview: p})
}
