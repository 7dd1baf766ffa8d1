package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

// ListHandler serves user lists and their entries. Non-admin callers only
// reach lists owned by their own account.
type ListHandler struct {
	lists   ports.ListService
	list    ports.PipelineFactory[ports.ListInput]
	entries ports.PipelineFactory[ports.ListEntryInput]
}

func NewListHandler(
	lists ports.ListService,
	list ports.PipelineFactory[ports.ListInput],
	entries ports.PipelineFactory[ports.ListEntryInput],
) *ListHandler {
	return &ListHandler{lists: lists, list: list, entries: entries}
}

// Create adds a list.
//
// @Summary      Create a list
// @Tags         lists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createListRequest  true  "List"
// @Success      200   {object}  domain.Result
// @Failure      400   {object}  domain.Result
// @Failure      401   {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/lists [post]
func (h *ListHandler) Create(c echo.Context) error {
	var req createListRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.forOwner(c, req.UserID); err != nil {
		return err
	}
	return runPipeline(c, "list", h.list, domain.OperationAdd, ports.ListInput{UserID: req.UserID, Name: req.Name})
}

// ByUser returns the lists owned by a user.
//
// @Summary      Lists of a user
// @Tags         lists
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     int  true  "User id"
// @Success      200      {object}  domain.Result
// @Failure      400      {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/lists [get]
func (h *ListHandler) ByUser(c echo.Context) error {
	var q userListsQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}
	if err := h.forOwner(c, q.UserID); err != nil {
		return err
	}
	lists, err := h.lists.UserLists(c.Request().Context(), q.UserID)
	if err != nil {
		return err
	}
	return respond(c, domain.OK("", lists))
}

// Delete removes a list and its entries.
//
// @Summary      Delete a list
// @Tags         lists
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "List id"
// @Success      200  {object}  domain.Result
// @Failure      400  {object}  domain.Result
// @Failure      403  {object}  map[string]string
// @Router       /api/lists/{id} [delete]
func (h *ListHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.forList(c, id); err != nil {
		return err
	}
	return runPipeline(c, "list", h.list, domain.OperationDelete, ports.ListInput{ID: id})
}

// Entries returns the anime in a list with their watch status.
//
// @Summary      Entries of a list
// @Tags         list-animes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "List id"
// @Success      200  {object}  domain.Result
// @Failure      404  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/list-animes/{id} [get]
func (h *ListHandler) Entries(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.forList(c, id); err != nil {
		return err
	}
	views, err := h.lists.Entries(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, domain.OK("", views))
}

// AddEntry puts an anime in a list. Status defaults to plan_to_watch.
//
// @Summary      Add an anime to a list
// @Tags         list-animes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addListEntryRequest  true  "Entry"
// @Success      200   {object}  domain.Result
// @Failure      400   {object}  domain.Result
// @Failure      403  {object}  map[string]string
// @Router       /api/list-animes [post]
func (h *ListHandler) AddEntry(c echo.Context) error {
	var req addListEntryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.forList(c, req.ListID); err != nil {
		return err
	}
	return runPipeline(c, "list_entry", h.entries, domain.OperationAdd, ports.ListEntryInput{
		ListID:  req.ListID,
		AnimeID: req.AnimeID,
		Status:  req.Status,
	})
}

// UpdateStatus changes the watch status of an entry.
//
// @Summary      Update watch status
// @Tags         list-animes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateListEntryRequest  true  "Entry key and new status"
// @Success      200   {object}  domain.Result
// @Failure      400   {object}  domain.Result
// @Failure      403  {object}  map[string]string
// @Router       /api/list-animes/status [put]
func (h *ListHandler) UpdateStatus(c echo.Context) error {
	var req updateListEntryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.forList(c, req.ListID); err != nil {
		return err
	}
	return runPipeline(c, "list_entry", h.entries, domain.OperationEdit, ports.ListEntryInput{
		ListID:  req.ListID,
		AnimeID: req.AnimeID,
		Status:  req.Status,
	})
}

// RemoveEntry takes one anime out of one list.
//
// @Summary      Remove an anime from a list
// @Tags         list-animes
// @Produce      json
// @Security     BearerAuth
// @Param        list_id   query     int  true  "List id"
// @Param        anime_id  query     int  true  "Anime id"
// @Success      200       {object}  domain.Result
// @Failure      400       {object}  domain.Result
// @Failure      403  {object}  map[string]string
// @Router       /api/list-animes [delete]
func (h *ListHandler) RemoveEntry(c echo.Context) error {
	var q listEntryKeyQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}
	if err := h.forList(c, q.ListID); err != nil {
		return err
	}
	return runPipeline(c, "list_entry", h.entries, domain.OperationDelete, ports.ListEntryInput{
		ListID:  q.ListID,
		AnimeID: q.AnimeID,
	})
}

func (h *ListHandler) forOwner(c echo.Context, userID int64) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}
	return h.lists.AuthorizeOwner(c.Request().Context(), id, userID)
}

func (h *ListHandler) forList(c echo.Context, listID int64) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}
	return h.lists.AuthorizeList(c.Request().Context(), id, listID)
}
