// Group HTTP handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-shoutout-manager/internal/domain"
)

// GroupRequest creates or replaces a group. Unknown and repeated streamer
// ids are dropped; at least one known member is required.
type GroupRequest struct {
	Name        string   `json:"name" example:"Raid crew"`
	StreamerIDs []string `json:"streamerIds"`
}

// ListGroups godoc
// @ID          listGroups
// @Summary     List groups
// @Description streamerIds only holds members still on the roster; deleted ones are counted in "missing".
// @Tags        Groups
// @Produce     json
// @Success     200  {array}  services.GroupView
// @Router      /groups [get]
func (h *Handlers) ListGroups(c *gin.Context) {
	ok(c, http.StatusOK, h.grpSvc.ListGroups(c.Request.Context()))
}

// CreateGroup godoc
// @ID          createGroup
// @Summary     Create a group
// @Tags        Groups
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.GroupRequest  true  "Group"
// @Success     201   {object}  domain.Group
// @Failure     400   {object}  handlers.ErrorResponse  "Empty name or no members"
// @Router      /groups [post]
func (h *Handlers) CreateGroup(c *gin.Context) {
	var req GroupRequest
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.grpSvc.CreateGroup(c.Request.Context(), req.Name, req.StreamerIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, g)
}

// UpdateGroup godoc
// @ID          updateGroup
// @Summary     Replace a group
// @Tags        Groups
// @Accept      json
// @Produce     json
// @Param       id    path      string                 true  "Group ID"
// @Param       body  body      handlers.GroupRequest  true  "Group"
// @Success     200   {object}  handlers.UpdatedResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Empty name or no members"
// @Router      /groups/{id} [put]
func (h *Handlers) UpdateGroup(c *gin.Context) {
	var req GroupRequest
	if !bindJSON(c, &req) {
		return
	}
	found, err := h.grpSvc.UpdateGroup(c.Request.Context(), domain.Group{
		ID:          c.Param("id"),
		Name:        req.Name,
		StreamerIDs: req.StreamerIDs,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, UpdatedResponse{Updated: found})
}

// DeleteGroup godoc
// @ID          deleteGroup
// @Summary     Delete a group
// @Tags        Groups
// @Param       id   path  string  true  "Group ID"
// @Success     204  {string}  string  "No Content"
// @Router      /groups/{id} [delete]
func (h *Handlers) DeleteGroup(c *gin.Context) {
	if _, err := h.grpSvc.DeleteGroup(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	noContent(c)
}

// GroupMembers godoc
// @ID          groupMembers
// @Summary     Resolve a group's members
// @Description Members deleted from the roster are counted in "missing".
// @Tags        Groups
// @Produce     json
// @Param       id   path      string  true  "Group ID"
// @Success     200  {object}  services.GroupMembers
// @Failure     404  {object}  handlers.ErrorResponse  "Group not found"
// @Router      /groups/{id}/members [get]
func (h *Handlers) GroupMembers(c *gin.Context) {
	m, err := h.grpSvc.GroupMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, m)
}
