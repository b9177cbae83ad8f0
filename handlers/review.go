package handlers

import (
	"net/http"

	"dinedash-server/models"

	"github.com/gin-gonic/gin"
)

// ReviewRequest names the food by id and, optionally, the ordered line item
// that gets flagged as reviewed. Email narrows the fallback match to the
// reviewer's own orders.
type ReviewRequest struct {
	ID     string `json:"id" binding:"required"`
	ItemID string `json:"itemId"`
	Email  string `json:"email"`
	Review string `json:"review" binding:"required"`
	Name   string `json:"name"`
	Image  string `json:"image"`
	Date   string `json:"date"`
}

// SubmitReview flags the reviewed regular item and stores the review under
// the food id.
func (h *Handler) SubmitReview(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	r := models.Review{FoodID: req.ID, Review: req.Review, Name: req.Name, Image: req.Image, Date: req.Date}
	if err := h.store.SubmitReview(c.Request.Context(), req.ItemID, req.Email, &r); err != nil {
		h.respondError(c, err)
		return
	}
	success(c)
}

func (h *Handler) ListReviews(c *gin.Context) {
	id, ok := requireQuery(c, "id")
	if !ok {
		return
	}
	reviews, err := h.store.ReviewsForFood(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
