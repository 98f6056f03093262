// Streamer HTTP handlers: roster CRUD, local suggestions and the platform
// backed search and validation endpoints.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StreamerRequest carries a streamer name. Leading "@" and surrounding
// whitespace are stripped.
type StreamerRequest struct {
	Name string `json:"name" example:"@alice"`
}

// ListStreamers godoc
// @ID          listStreamers
// @Summary     List streamers
// @Tags        Streamers
// @Produce     json
// @Success     200  {array}  domain.Streamer
// @Router      /streamers [get]
func (h *Handlers) ListStreamers(c *gin.Context) {
	ok(c, http.StatusOK, h.strSvc.ListStreamers(c.Request.Context()))
}

// AddStreamer godoc
// @ID          addStreamer
// @Summary     Add a streamer
// @Description Names are unique case-insensitively.
// @Tags        Streamers
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.StreamerRequest  true  "Streamer"
// @Success     201   {object}  domain.Streamer
// @Failure     400   {object}  handlers.ErrorResponse  "Empty name"
// @Failure     409   {object}  handlers.ErrorResponse  "Duplicate name"
// @Router      /streamers [post]
func (h *Handlers) AddStreamer(c *gin.Context) {
	var req StreamerRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.strSvc.AddStreamer(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, s)
}

// RenameStreamer godoc
// @ID          renameStreamer
// @Summary     Rename a streamer
// @Tags        Streamers
// @Accept      json
// @Produce     json
// @Param       id    path      string                    true  "Streamer ID"
// @Param       body  body      handlers.StreamerRequest  true  "New name"
// @Success     200   {object}  handlers.UpdatedResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Empty name"
// @Failure     409   {object}  handlers.ErrorResponse  "Duplicate name"
// @Router      /streamers/{id} [put]
func (h *Handlers) RenameStreamer(c *gin.Context) {
	var req StreamerRequest
	if !bindJSON(c, &req) {
		return
	}
	found, err := h.strSvc.RenameStreamer(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, UpdatedResponse{Updated: found})
}

// DeleteStreamer godoc
// @ID          deleteStreamer
// @Summary     Delete a streamer
// @Description Groups and history keep the id; it is skipped when resolving names.
// @Tags        Streamers
// @Param       id   path  string  true  "Streamer ID"
// @Success     204  {string}  string  "No Content"
// @Router      /streamers/{id} [delete]
func (h *Handlers) DeleteStreamer(c *gin.Context) {
	if _, err := h.strSvc.DeleteStreamer(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	noContent(c)
}

// SuggestStreamers godoc
// @ID          suggestStreamers
// @Summary     Similar roster names
// @Description Roster names containing q or within edit distance 2 of it.
// @Tags        Streamers
// @Produce     json
// @Param       q    query     string  true  "Partial name"
// @Success     200  {array}   search.Result
// @Router      /streamers/suggest [get]
func (h *Handlers) SuggestStreamers(c *gin.Context) {
	ok(c, http.StatusOK, h.strSvc.Suggest(c.Request.Context(), c.Query("q")))
}

// SearchChannels godoc
// @ID          searchChannels
// @Summary     Live Twitch channel search
// @Description Debounced; a request overtaken by a newer one answers 409 stale_query. Queries shorter than 2 characters return [].
// @Tags        Streamers
// @Produce     json
// @Param       q    query     string  true  "Search text"
// @Success     200  {array}   services.SearchResult
// @Failure     400  {object}  handlers.ErrorResponse  "Credentials missing"
// @Failure     409  {object}  handlers.ErrorResponse  "Superseded by a newer query"
// @Failure     502  {object}  handlers.ErrorResponse  "Twitch error"
// @Router      /streamers/search [get]
func (h *Handlers) SearchChannels(c *gin.Context) {
	res, err := h.dirSvc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// ValidateStreamers godoc
// @ID          validateStreamers
// @Summary     Validate the roster against Twitch
// @Description The result is not persisted.
// @Tags        Streamers
// @Produce     json
// @Success     200  {object}  services.ValidationReport
// @Failure     400  {object}  handlers.ErrorResponse  "Credentials missing"
// @Failure     502  {object}  handlers.ErrorResponse  "Twitch error"
// @Router      /streamers/validate [post]
func (h *Handlers) ValidateStreamers(c *gin.Context) {
	rep, err := h.dirSvc.ValidateAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, rep)
}
