package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/cache"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/models"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/services"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/store"
)

const (
	defaultListLimit   = 20
	defaultSearchLimit = 10
	maxListLimit       = 100

	propertiesCachePrefix = "properties"
)

type PropertyController struct {
	store      store.Store
	searcher   *services.Searcher
	assembler  *services.Assembler
	mutator    *services.Mutator
	cache      *cache.Cache
	validate   *validator.Validate
	log        *zap.Logger
	production bool
}

func NewPropertyController(st store.Store, searcher *services.Searcher, assembler *services.Assembler,
	mutator *services.Mutator, ch *cache.Cache, log *zap.Logger, production bool) *PropertyController {
	return &PropertyController{
		store:      st,
		searcher:   searcher,
		assembler:  assembler,
		mutator:    mutator,
		cache:      ch,
		validate:   validator.New(),
		log:        log,
		production: production,
	}
}

func (pc *PropertyController) List(c echo.Context) error {
	return pc.list(c, defaultListLimit, false)
}

// Search is the lightweight lookup variant: same filter surface, no images.
func (pc *PropertyController) Search(c echo.Context) error {
	return pc.list(c, defaultSearchLimit, true)
}

func (pc *PropertyController) list(c echo.Context, defaultLimit int, forceSkipImages bool) error {
	ctx := c.Request().Context()
	f, skipImages, echoed := parseFilters(c, defaultLimit)
	if forceSkipImages {
		skipImages = true
	}
	echoed["skipImages"] = strconv.FormatBool(skipImages)

	key := cache.Key(propertiesCachePrefix, echoed)
	var cached models.PropertyListResponse
	if pc.cache.Get(ctx, key, &cached) {
		return c.JSON(http.StatusOK, cached)
	}

	result, err := pc.searcher.Search(ctx, f)
	if err != nil {
		return serverError(c, pc.log, err, "Failed to fetch properties")
	}

	resp := models.PropertyListResponse{
		Success:    true,
		Properties: pc.assembler.Assemble(ctx, result.Properties, skipImages),
		Pagination: models.Pagination{
			Total:   result.Total,
			Limit:   f.Limit,
			Offset:  f.Offset,
			HasMore: f.Offset+f.Limit < result.Total,
		},
		Filters: echoed,
	}
	pc.cache.Set(ctx, key, resp)
	return c.JSON(http.StatusOK, resp)
}

func (pc *PropertyController) Get(c echo.Context) error {
	ctx := c.Request().Context()
	id := pathID(c)

	doc, err := pc.store.Collection(models.PropertiesCollection).Doc(id).Get(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
	}
	if err != nil {
		return serverError(c, pc.log, err, "Failed to fetch property")
	}

	view := pc.assembler.AssembleDetail(ctx, models.PropertyFromDoc(doc))
	return c.JSON(http.StatusOK, view)
}

func (pc *PropertyController) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.CreatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", "Request body could not be parsed")
	}
	if err := pc.validate.Struct(req); err != nil {
		return failWithDetails(c, http.StatusBadRequest, "Validation failed",
			"title, type, area and price are required", validationDetails(err), pc.production)
	}

	id, images, err := pc.mutator.Create(ctx, req)
	if err != nil {
		return pc.mutationError(c, err, "Failed to create property")
	}

	pc.cache.Invalidate(ctx, propertiesCachePrefix)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"id":      id,
		"message": "Property created successfully",
		"images":  images,
	})
}

func (pc *PropertyController) Update(c echo.Context) error {
	ctx := c.Request().Context()
	id := pathID(c)

	var req models.UpdatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", "Request body could not be parsed")
	}

	images, err := pc.mutator.Update(ctx, id, req)
	if err != nil {
		return pc.mutationError(c, err, "Failed to update property")
	}

	pc.cache.Invalidate(ctx, propertiesCachePrefix)
	resp := map[string]any{"success": true}
	if req.Images != nil {
		resp["images"] = images
	}
	return c.JSON(http.StatusOK, resp)
}

func (pc *PropertyController) SetFeatured(c echo.Context) error {
	var body struct {
		Featured bool `json:"featured"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", "Request body could not be parsed")
	}
	return pc.patchFlag(c, func() error {
		return pc.mutator.SetFeatured(c.Request().Context(), pathID(c), body.Featured)
	})
}

func (pc *PropertyController) SetActive(c echo.Context) error {
	var body struct {
		Active bool `json:"active"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", "Request body could not be parsed")
	}
	return pc.patchFlag(c, func() error {
		return pc.mutator.SetActive(c.Request().Context(), pathID(c), body.Active)
	})
}

func (pc *PropertyController) patchFlag(c echo.Context, apply func() error) error {
	if err := apply(); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
		}
		return serverError(c, pc.log, err, "Failed to update property")
	}
	pc.cache.Invalidate(c.Request().Context(), propertiesCachePrefix)
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (pc *PropertyController) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	if err := pc.mutator.Delete(ctx, pathID(c)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
		}
		return serverError(c, pc.log, err, "Failed to delete property")
	}
	pc.cache.Invalidate(ctx, propertiesCachePrefix)
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (pc *PropertyController) mutationError(c echo.Context, err error, message string) error {
	switch {
	case errors.Is(err, services.ErrInvalidLocation):
		return fail(c, http.StatusBadRequest, "Invalid location",
			"The area does not exist. Create the location first, then retry.")
	case errors.Is(err, services.ErrInvalidType):
		return fail(c, http.StatusBadRequest, "Invalid property type",
			"The property type does not exist. Create it first, then retry.")
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Property not found"})
	default:
		return serverError(c, pc.log, err, message)
	}
}

func parseFilters(c echo.Context, defaultLimit int) (services.Filters, bool, map[string]string) {
	f := services.Filters{
		TransactionType: c.QueryParam("transactionType"),
		Type:            c.QueryParam("type"),
		Area:            c.QueryParam("area"),
		City:            c.QueryParam("city"),
		Search:          c.QueryParam("search"),
		Budget:          c.QueryParam("budget"),
		Limit:           defaultLimit,
	}

	if v := c.QueryParam("featured"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Featured = &b
		}
	}
	if v := c.QueryParam("active"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Active = &b
		}
	}
	if v := c.QueryParam("minPrice"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(n) {
			f.MinPrice = &n
		}
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(n) {
			f.MaxPrice = &n
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Limit = n
		}
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			f.Offset = n
		}
	}

	skipImages := false
	if v := c.QueryParam("skipImages"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			skipImages = b
		}
	}

	echoed := map[string]string{}
	for _, k := range []string{"search", "type", "city", "area", "featured", "active",
		"transactionType", "budget", "minPrice", "maxPrice"} {
		if v := c.QueryParam(k); v != "" {
			echoed[k] = v
		}
	}
	echoed["limit"] = strconv.Itoa(f.Limit)
	echoed["offset"] = strconv.Itoa(f.Offset)

	return f, skipImages, echoed
}

func validationDetails(err error) []string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		details = append(details, fe.Field()+" failed on "+fe.Tag())
	}
	return details
}
