// History HTTP handlers.
//
//   - GET    /history             (paginated, weak ETag)
//   - DELETE /history
//   - POST   /history/{id}/reuse
//   - POST   /history/{id}/copy
package handlers

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
	"github.com/tbourn/go-shoutout-manager/internal/services"
	"github.com/tbourn/go-shoutout-manager/internal/utils"
)

const defaultHistoryPageSize = 20

// ReuseResponse is the generator state seeded from a history entry.
type ReuseResponse struct {
	services.Reused
	Warnings []string `json:"warnings,omitempty"`
}

// CopyHistoryRequest selects what to copy: the full command (default) or
// the text without the command prefix.
type CopyHistoryRequest struct {
	TextOnly bool `json:"textOnly,omitempty"`
}

// CopyHistoryResponse echoes the copied text.
type CopyHistoryResponse struct {
	Copied string `json:"copied"`
}

// historyETag hashes the rendered page, so renames and template edits that
// change a row change the tag too.
func historyETag(p services.HistoryPage) string {
	b, _ := json.Marshal(p)
	h := fnv.New64a()
	_, _ = h.Write(b)
	return fmt.Sprintf(`W/"history:%d:%x"`, p.Total, h.Sum64())
}

// ListHistory godoc
// @ID          listHistory
// @Summary     List history (newest first)
// @Description Rows carry the formatted time, template name or "(deleted template)", the rebuilt command and surviving streamer names.
// @Tags        History
// @Produce     json
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Param       page           query   int     false  "Page number"     minimum(1) default(1)
// @Param       pageSize       query   int     false  "Items per page"  minimum(1) maximum(50) default(20)
// @Success     200  {object}  services.HistoryPage
// @Header      200  {string}  ETag  "Weak ETag for the page"
// @Success     304  {string}  string  "Not Modified"
// @Router      /history [get]
func (h *Handlers) ListHistory(c *gin.Context) {
	page := utils.AtoiDefault(c.Query("page"), 1)
	size := utils.AtoiDefault(c.Query("pageSize"), defaultHistoryPageSize)
	if size > domain.HistoryLimit {
		size = domain.HistoryLimit
	}

	p := h.histSvc.List(c.Request.Context(), page, size)
	etag := historyETag(p)
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return
	}
	ok(c, http.StatusOK, p)
}

// ClearHistory godoc
// @ID          clearHistory
// @Summary     Clear history
// @Tags        History
// @Success     204  {string}  string  "No Content"
// @Failure     500  {object}  handlers.ErrorResponse  "Not saved"
// @Router      /history [delete]
func (h *Handlers) ClearHistory(c *gin.Context) {
	if err := h.histSvc.Clear(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	noContent(c)
}

// ReuseHistory godoc
// @ID          reuseHistory
// @Summary     Seed the generator from a history entry
// @Description Sets the entry's language and template (if it still exists) and replaces the selection with its surviving streamers. History itself is unchanged.
// @Tags        History
// @Produce     json
// @Param       id   path      string  true  "History entry ID"
// @Success     200  {object}  handlers.ReuseResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Entry not found"
// @Router      /history/{id}/reuse [post]
func (h *Handlers) ReuseHistory(c *gin.Context) {
	r, err := h.histSvc.Reuse(c.Request.Context(), c.Param("id"))
	if !isPersistOnly(err) {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, ReuseResponse{Reused: r, Warnings: warningsFor(err)})
}

// CopyHistory godoc
// @ID          copyHistory
// @Summary     Copy a history entry's command
// @Description Rebuilt with current streamer names in the entry's language.
// @Tags        History
// @Accept      json
// @Produce     json
// @Param       id    path      string                       true   "History entry ID"
// @Param       body  body      handlers.CopyHistoryRequest  false  "Options"
// @Success     200   {object}  handlers.CopyHistoryResponse
// @Failure     404   {object}  handlers.ErrorResponse  "Entry not found"
// @Failure     410   {object}  handlers.ErrorResponse  "Template deleted"
// @Failure     503   {object}  handlers.ErrorResponse  "Clipboard unavailable"
// @Router      /history/{id}/copy [post]
func (h *Handlers) CopyHistory(c *gin.Context) {
	var req CopyHistoryRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	res, err := h.histSvc.Command(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	text := res.Command
	if req.TextOnly {
		text = res.TextOnly
	}
	if err := h.genSvc.Copy(ctx, text); err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, CopyHistoryResponse{Copied: text})
}
