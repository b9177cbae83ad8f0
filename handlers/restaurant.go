package handlers

import (
	"net/http"

	"dinedash-server/models"

	"github.com/gin-gonic/gin"
)

type CreateFoodRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Restaurant  string `json:"restaurant" binding:"required"`
	Price       int    `json:"price" binding:"gte=0"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// CreateFood adds a menu entry for a restaurant.
func (h *Handler) CreateFood(c *gin.Context) {
	var req CreateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	food := models.Food{
		Name:        req.Name,
		Category:    req.Category,
		Restaurant:  req.Restaurant,
		Price:       req.Price,
		Image:       req.Image,
		Description: req.Description,
	}
	if err := h.store.CreateFood(c.Request.Context(), &food); err != nil {
		h.respondError(c, err)
		return
	}
	h.invalidateCatalog(c.Request.Context())
	c.JSON(http.StatusCreated, food)
}

type CreateProviderRequest struct {
	Name        string              `json:"name" binding:"required"`
	Image       string              `json:"image"`
	Ingredients []models.Ingredient `json:"ingredients" binding:"dive"`
}

// CreateProvider lists a new custom burger provider with its ingredients.
func (h *Handler) CreateProvider(c *gin.Context) {
	var req CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	provider := models.Provider{Name: req.Name, Image: req.Image, Ingredients: req.Ingredients}
	if err := h.store.CreateProvider(c.Request.Context(), &provider); err != nil {
		h.respondError(c, err)
		return
	}
	h.invalidateCatalog(c.Request.Context())
	c.JSON(http.StatusCreated, provider)
}

type UpdateIngredientRequest struct {
	Provider   string `json:"provider" binding:"required"`
	Ingredient string `json:"ingredient" binding:"required"`
	Price      *int   `json:"price" binding:"required,gte=0"`
}

// UpdateIngredientPrice reprices one ingredient of a provider by name.
func (h *Handler) UpdateIngredientPrice(c *gin.Context) {
	var req UpdateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.store.UpdateIngredientPrice(c.Request.Context(), req.Provider, req.Ingredient, *req.Price); err != nil {
		h.respondError(c, err)
		return
	}
	h.invalidateCatalog(c.Request.Context())
	success(c)
}

type RegisterRestaurantRequest struct {
	Email          string `json:"email" binding:"required,email"`
	RestaurantName string `json:"restaurantName" binding:"required"`
	Thumbnail      string `json:"thumbnail"`
}

// RegisterRestaurant creates the restaurant of a partner and resolves their
// request. Acceptance is not checked.
func (h *Handler) RegisterRestaurant(c *gin.Context) {
	var req RegisterRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	restaurant, err := h.store.RegisterRestaurant(c.Request.Context(), req.Email, req.RestaurantName, req.Thumbnail)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.invalidateCatalog(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true, "pathname": restaurant.Pathname})
}
