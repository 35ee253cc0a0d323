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

type TypeController struct {
	store      store.Store
	cache      *cache.Cache
	validate   *validator.Validate
	log        *zap.Logger
	production bool
}

func NewTypeController(st store.Store, ch *cache.Cache, log *zap.Logger, production bool) *TypeController {
	return &TypeController{
		store:      st,
		cache:      ch,
		validate:   validator.New(),
		log:        log,
		production: production,
	}
}

func (tc *TypeController) List(c echo.Context) error {
	docs, err := tc.store.Collection(models.TypesCollection).Get(c.Request().Context())
	if err != nil {
		return serverError(c, tc.log, err, "Failed to fetch property types")
	}

	types := make([]models.PropertyType, 0, len(docs))
	for _, doc := range docs {
		types = append(types, models.TypeFromDoc(doc))
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return c.JSON(http.StatusOK, types)
}

func (tc *TypeController) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.TypeRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", "Request body could not be parsed")
	}
	if err := tc.validate.Struct(req); err != nil {
		return failWithDetails(c, http.StatusBadRequest, "Validation failed",
			"name is required", validationDetails(err), tc.production)
	}

	existing, err := tc.store.Collection(models.TypesCollection).
		Where("name", "==", req.Name).Limit(1).Get(ctx)
	if err != nil {
		return serverError(c, tc.log, err, "Failed to check property type")
	}
	if len(existing) > 0 {
		return fail(c, http.StatusConflict, "Property type already exists",
			"A property type with this name already exists")
	}

	id, err := tc.store.Collection(models.TypesCollection).Add(ctx,
		models.PropertyType{Name: req.Name}.Doc())
	if err != nil {
		return serverError(c, tc.log, err, "Failed to create property type")
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "id": id})
}

func (tc *TypeController) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.TypeRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", "Request body could not be parsed")
	}
	if err := tc.validate.Struct(req); err != nil {
		return failWithDetails(c, http.StatusBadRequest, "Validation failed",
			"name is required", validationDetails(err), tc.production)
	}

	err := tc.store.Collection(models.TypesCollection).Doc(pathID(c)).
		Update(ctx, map[string]any{"name": req.Name})
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Property type not found"})
	}
	if err != nil {
		return serverError(c, tc.log, err, "Failed to update property type")
	}

	tc.cache.Invalidate(ctx, propertiesCachePrefix)
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (tc *TypeController) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ref := tc.store.Collection(models.TypesCollection).Doc(pathID(c))

	if _, err := ref.Get(ctx); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Property type not found"})
		}
		return serverError(c, tc.log, err, "Failed to fetch property type")
	}
	if err := ref.Delete(ctx); err != nil {
		return serverError(c, tc.log, err, "Failed to delete property type")
	}

	tc.cache.Invalidate(ctx, propertiesCachePrefix)
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
