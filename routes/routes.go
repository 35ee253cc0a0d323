package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/handlers"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/middleware"
)

func RegisterRoutes(e *echo.Echo, props *handlers.PropertyController,
	locations *handlers.LocationController, types *handlers.TypeController, jwtSecret string) {

	e.GET("/health", handlers.HealthCheck)

	e.GET("/properties", props.List)
	e.GET("/properties/search", props.Search)
	e.GET("/properties/:id", props.Get)
	e.GET("/locations", locations.List)
	e.GET("/types", types.List)

	admin := e.Group("", middleware.JWT(jwtSecret), middleware.AdminOnly())
	admin.POST("/properties", props.Create)
	admin.PUT("/properties/:id", props.Update)
	admin.PATCH("/properties/:id/featured", props.SetFeatured)
	admin.PATCH("/properties/:id/active", props.SetActive)
	admin.DELETE("/properties/:id", props.Delete)

	admin.POST("/locations", locations.Create)
	admin.PUT("/locations/:id", locations.Update)
	admin.DELETE("/locations/:id", locations.Delete)

	admin.POST("/types", types.Create)
	admin.PUT("/types/:id", types.Update)
	admin.DELETE("/types/:id", types.Delete)
}
