package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budong-api/internal/domain"
	"budong-api/internal/geo"
)

type regionStatsQuery struct {
	BjdCode   int64  `form:"bjd_code" binding:"required,gt=0"`
	StatsType string `form:"stats_type" binding:"omitempty,stats_type"`
}

type environmentQuery struct {
	Latitude  *float64 `form:"latitude" binding:"required,lat"`
	Longitude *float64 `form:"longitude" binding:"required,lng"`
}

func (h *Handler) regionStats(c *gin.Context) {
	var q regionStatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	region, stats, err := h.regions.Stats(c.Request.Context(), q.BjdCode)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if q.StatsType != "" {
		filtered := stats[:0:0]
		for _, s := range stats {
			if s.Type == domain.StatsType(q.StatsType) {
				filtered = append(filtered, s)
			}
		}
		stats = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"region": regionToResponse(region),
		"stats":  mapAll(stats, regionStatToResponse),
	})
}

func (h *Handler) environmentData(c *gin.Context) {
	var q environmentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	m, err := h.regions.NearestNoise(c.Request.Context(), geo.Coordinate{Lat: *q.Latitude, Lon: *q.Longitude})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"noise": noiseToResponse(*m)})
}

func regionStatToResponse(s domain.RegionStat) RegionStatResponse {
	return RegionStatResponse{Year: s.Year, Type: string(s.Type), Value: s.Value}
}
