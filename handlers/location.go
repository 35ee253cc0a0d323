package handlers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/cache"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/models"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/store"
)

type LocationController struct {
	store      store.Store
	cache      *cache.Cache
	validate   *validator.Validate
	log        *zap.Logger
	production bool
}

func NewLocationController(st store.Store, ch *cache.Cache, log *zap.Logger, production bool) *LocationController {
	return &LocationController{
		store:      st,
		cache:      ch,
		validate:   validator.New(),
		log:        log,
		production: production,
	}
}

func (lc *LocationController) List(c echo.Context) error {
	ctx := c.Request().Context()

	q := store.Query(lc.store.Collection(models.LocationsCollection))
	if city := c.QueryParam("city"); city != "" {
		q = q.Where("city", "==", city)
	}
	docs, err := q.Get(ctx)
	if err != nil {
		return serverError(c, lc.log, err, "Failed to fetch locations")
	}

	locations := make([]models.Location, 0, len(docs))
	for _, doc := range docs {
		locations = append(locations, models.LocationFromDoc(doc))
	}
	sort.Slice(locations, func(i, j int) bool {
		if locations[i].City != locations[j].City {
			return locations[i].City < locations[j].City
		}
		return locations[i].Name < locations[j].Name
	})
	return c.JSON(http.StatusOK, locations)
}

func (lc *LocationController) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.LocationRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", "Request body could not be parsed")
	}
	if err := lc.validate.Struct(req); err != nil {
		return failWithDetails(c, http.StatusBadRequest, "Validation failed",
			"name and city are required", validationDetails(err), lc.production)
	}

	// Exact-match existence check only; a concurrent create of the same
	// name can slip through. Admin-only traffic, accepted.
	existing, err := lc.store.Collection(models.LocationsCollection).
		Where("name", "==", req.Name).Where("city", "==", req.City).Limit(1).Get(ctx)
	if err != nil {
		return serverError(c, lc.log, err, "Failed to check location")
	}
	if len(existing) > 0 {
		return fail(c, http.StatusConflict, "Location already exists",
			"A location with this name and city already exists")
	}

	id, err := lc.store.Collection(models.LocationsCollection).Add(ctx,
		models.Location{Name: req.Name, City: req.City}.Doc())
	if err != nil {
		return serverError(c, lc.log, err, "Failed to create location")
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "id": id})
}

func (lc *LocationController) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.LocationRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", "Request body could not be parsed")
	}
	if err := lc.validate.Struct(req); err != nil {
		return failWithDetails(c, http.StatusBadRequest, "Validation failed",
			"name and city are required", validationDetails(err), lc.production)
	}

	err := lc.store.Collection(models.LocationsCollection).Doc(pathID(c)).
		Update(ctx, map[string]any{"name": req.Name, "city": req.City})
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Location not found"})
	}
	if err != nil {
		return serverError(c, lc.log, err, "Failed to update location")
	}

	// Property views embed the location name, so cached pages are stale now.
	lc.cache.Invalidate(ctx, propertiesCachePrefix)
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (lc *LocationController) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ref := lc.store.Collection(models.LocationsCollection).Doc(pathID(c))

	if _, err := ref.Get(ctx); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Location not found"})
		}
		return serverError(c, lc.log, err, "Failed to fetch location")
	}
	if err := ref.Delete(ctx); err != nil {
		return serverError(c, lc.log, err, "Failed to delete location")
	}

	lc.cache.Invalidate(ctx, propertiesCachePrefix)
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
