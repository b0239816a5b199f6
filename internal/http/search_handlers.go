package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budong-api/internal/domain"
	"budong-api/internal/geo"
)

type pointRequest struct {
	Latitude     *float64 `json:"latitude" binding:"required,lat"`
	Longitude    *float64 `json:"longitude" binding:"required,lng"`
	RadiusMeters float64  `json:"radius_meters" binding:"required,gt=0"`
}

func (r pointRequest) center() geo.Coordinate {
	return geo.Coordinate{Lat: *r.Latitude, Lon: *r.Longitude}
}

type categoryRequest struct {
	pointRequest
	Category string `json:"category" binding:"required,infra_category"`
}

func (h *Handler) searchPoint(c *gin.Context) {
	var req pointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.search.SearchPoint(c.Request.Context(), req.center(), req.RadiusMeters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"buildings": mapAll(res.Buildings, buildingMatchToResponse),
		"infrastructure": gin.H{
			"schools":         mapAll(res.Schools, schoolToResponse),
			"subway_stations": mapAll(res.SubwayStations, stationToResponse),
			"parks":           mapAll(res.Parks, parkToResponse),
		},
		"search_radius": res.Radius,
		"result_count":  res.Count(),
	})
}

func (h *Handler) infrastructureByCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	matches, err := h.search.InfrastructureByCategory(c.Request.Context(), domain.InfraCategory(req.Category), req.center(), req.RadiusMeters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category":       req.Category,
		"infrastructure": mapAll(matches, infrastructureToResponse),
		"search_radius":  req.RadiusMeters,
		"result_count":   len(matches),
	})
}
