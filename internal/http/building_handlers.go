package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type buildingIDRequest struct {
	BuildingID int64 `json:"building_id" binding:"required,gt=0"`
}

type createReviewRequest struct {
	BuildingID int64  `json:"building_id" binding:"required,gt=0"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Content    string `json:"content" binding:"required"`
}

type saveBuildingRequest struct {
	BuildingID int64   `json:"building_id" binding:"required,gt=0"`
	Memo       *string `json:"memo"`
}

type deleteSavedRequest struct {
	SaveID int64 `json:"save_id" binding:"required,gt=0"`
}

func (h *Handler) buildingDetail(c *gin.Context) {
	var req buildingIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	d, err := h.buildings.Detail(c.Request.Context(), req.BuildingID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{
		"building":     buildingToResponse(d.Building),
		"transactions": mapAll(d.Transactions, transactionToResponse),
		"reviews":      mapAll(d.Reviews, reviewToResponse),
		"nearby_infrastructure": gin.H{
			"schools":        mapAll(d.Schools, schoolToResponse),
			"parks":          mapAll(d.Parks, parkToResponse),
			"infrastructure": mapAll(d.Infrastructure, infrastructureToResponse),
		},
		"nearest_station": nil,
		"region":          regionToResponse(d.Region),
		"region_stats":    mapAll(d.RegionStats, regionStatToResponse),
		"environment":     nil,
	}
	if d.NearestStation != nil {
		resp["nearest_station"] = stationToResponse(*d.NearestStation)
	}
	if d.Noise != nil {
		resp["environment"] = noiseToResponse(*d.Noise)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) buildingReviews(c *gin.Context) {
	var req buildingIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	reviews, err := h.buildings.Reviews(c.Request.Context(), req.BuildingID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews":     mapAll(reviews, reviewToResponse),
		"total_count": len(reviews),
	})
}

func (h *Handler) createReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user := currentUser(c)
	review, err := h.buildings.CreateReview(c.Request.Context(), user.ID, req.BuildingID, req.Rating, req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"review_id": review.ID,
		"message":   "review created",
	})
}

func (h *Handler) savedBuildings(c *gin.Context) {
	saved, err := h.buildings.ListSaved(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"saved_buildings": mapAll(saved, savedToResponse),
		"total_count":     len(saved),
	})
}

func (h *Handler) saveBuilding(c *gin.Context) {
	var req saveBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	saved, created, err := h.buildings.Save(c.Request.Context(), currentUser(c).ID, req.BuildingID, req.Memo)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"save_id": saved.ID,
			"message": "building already saved",
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"save_id": saved.ID,
		"message": "building saved",
	})
}

func (h *Handler) deleteSavedBuilding(c *gin.Context) {
	var req deleteSavedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.buildings.DeleteSaved(c.Request.Context(), currentUser(c).ID, req.SaveID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "saved building deleted"})
}
