package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

const (
	sheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	sheetFilename    = "animes.xlsx"
)

// AnimeHandler serves the catalog. Reads are public; writes are admin only.
type AnimeHandler struct {
	catalog ports.CatalogService
	anime   ports.PipelineFactory[ports.AnimeInput]
}

func NewAnimeHandler(catalog ports.CatalogService, anime ports.PipelineFactory[ports.AnimeInput]) *AnimeHandler {
	return &AnimeHandler{catalog: catalog, anime: anime}
}

// List returns the whole catalog.
//
// @Summary      List anime
// @Tags         anime
// @Produce      json
// @Success      200  {object}  domain.Result
// @Failure      500  {object}  map[string]string
// @Router       /api/anime [get]
func (h *AnimeHandler) List(c echo.Context) error {
	items, err := h.catalog.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, domain.OK("", items))
}

// Get returns one catalog entry.
//
// @Summary      Get an anime
// @Tags         anime
// @Produce      json
// @Param        id   path      int  true  "Anime id"
// @Success      200  {object}  domain.Result
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/anime/{id} [get]
func (h *AnimeHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	a, err := h.catalog.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, domain.OK("", a))
}

// Search returns the anime whose title starts with prefix, ignoring case.
//
// @Summary      Search anime by title prefix
// @Tags         anime
// @Produce      json
// @Param        prefix  path      string  true  "Title prefix"
// @Success      200     {object}  domain.Result
// @Failure      400     {object}  map[string]string
// @Router       /api/anime/search/{prefix} [get]
func (h *AnimeHandler) Search(c echo.Context) error {
	items, err := h.catalog.Search(c.Request().Context(), c.Param("prefix"))
	if err != nil {
		return err
	}
	return respond(c, domain.OK("", items))
}

// Sheet downloads the catalog as an xlsx workbook.
//
// @Summary      Export the catalog
// @Tags         anime
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Failure      500  {object}  map[string]string
// @Router       /api/anime/sheet [get]
func (h *AnimeHandler) Sheet(c echo.Context) error {
	data, err := h.catalog.Sheet(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+sheetFilename+`"`)
	return c.Blob(http.StatusOK, sheetContentType, data)
}

// Create adds a catalog entry.
//
// @Summary      Add an anime
// @Tags         anime
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAnimeRequest  true  "Anime"
// @Success      200   {object}  domain.Result
// @Failure      400   {object}  domain.Result
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/anime [post]
func (h *AnimeHandler) Create(c echo.Context) error {
	var req createAnimeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return runPipeline(c, "anime", h.anime, domain.OperationAdd, ports.AnimeInput{
		Title:       req.Title,
		Seasons:     req.Seasons,
		Episodes:    req.Episodes,
		ReleaseYear: req.ReleaseYear,
	})
}

// Update edits a catalog entry. Zero or empty fields keep the stored value.
//
// @Summary      Update an anime
// @Tags         anime
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateAnimeRequest  true  "Fields to change"
// @Success      200   {object}  domain.Result
// @Failure      400   {object}  domain.Result
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/anime [put]
func (h *AnimeHandler) Update(c echo.Context) error {
	var req updateAnimeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return runPipeline(c, "anime", h.anime, domain.OperationEdit, ports.AnimeInput{
		ID:          req.ID,
		Title:       req.Title,
		Seasons:     req.Seasons,
		Episodes:    req.Episodes,
		ReleaseYear: req.ReleaseYear,
	})
}

// Delete removes a catalog entry.
//
// @Summary      Delete an anime
// @Tags         anime
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Anime id"
// @Success      200  {object}  domain.Result
// @Failure      400  {object}  domain.Result
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/anime/{id} [delete]
func (h *AnimeHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	return runPipeline(c, "anime", h.anime, domain.OperationDelete, ports.AnimeInput{ID: id})
}
