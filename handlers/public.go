package handlers

import (
	"context"
	"net/http"
	"strconv"

	"dinedash-server/cache"
	"dinedash-server/models"
	"dinedash-server/statemachine"

	"github.com/gin-gonic/gin"
)

// Catalog responses are cached under this prefix and dropped on any
// catalog write.
const catalogPrefix = "catalog:"

type foodsPage struct {
	Result     []models.Food `json:"result"`
	FoodCounts int64         `json:"foodCounts"`
}

// Home answers the uptime probe of the client apps.
func (h *Handler) Home(c *gin.Context) {
	c.String(http.StatusOK, "Server is up and running")
}

// ListProviders returns the custom burger providers with their ingredients.
func (h *Handler) ListProviders(c *gin.Context) {
	providers, err := cache.Fetch(c.Request.Context(), h.cache, catalogPrefix+"providers", h.store.Providers)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, providers)
}

func (h *Handler) GetProvider(c *gin.Context) {
	name, ok := requireQuery(c, "name")
	if !ok {
		return
	}
	provider, err := h.store.ProviderByName(c.Request.Context(), name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, provider)
}

// ListRestaurants feeds the homepage slider.
func (h *Handler) ListRestaurants(c *gin.Context) {
	restaurants, err := cache.Fetch(c.Request.Context(), h.cache, catalogPrefix+"restaurants", h.store.Restaurants)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurants)
}

// GetRestaurantData looks a restaurant up by its pathname.
func (h *Handler) GetRestaurantData(c *gin.Context) {
	name, ok := requireQuery(c, "name")
	if !ok {
		return
	}
	restaurant, err := h.store.RestaurantByPathname(c.Request.Context(), name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

func (h *Handler) ListFoods(c *gin.Context) {
	foods, err := cache.Fetch(c.Request.Context(), h.cache, catalogPrefix+"foods", h.store.Foods)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

// FoodsPage returns page `page` (zero-based) of the catalog plus the total
// number of foods.
func (h *Handler) FoodsPage(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		badRequest(c, "page must be a non-negative integer")
		return
	}
	key := catalogPrefix + "foods:page:" + strconv.Itoa(page)
	out, err := cache.Fetch(c.Request.Context(), h.cache, key, func(ctx context.Context) (foodsPage, error) {
		foods, count, err := h.store.FoodsPage(ctx, page)
		return foodsPage{Result: foods, FoodCounts: count}, err
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) FoodsByCategory(c *gin.Context) {
	category, ok := requireQuery(c, "category")
	if !ok {
		return
	}
	foods, err := h.store.FoodsByCategory(c.Request.Context(), category)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

// SearchFoods matches a case-insensitive substring of the food name.
func (h *Handler) SearchFoods(c *gin.Context) {
	foods, err := h.store.SearchFoods(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	resp := gin.H{"result": foods}
	if len(foods) == 0 {
		resp["result"] = []models.Food{}
		resp["noResultFound"] = "no result found"
	}
	c.JSON(http.StatusOK, resp)
}

// RestaurantFoods lists the menu of one restaurant by display name.
func (h *Handler) RestaurantFoods(c *gin.Context) {
	name, ok := requireQuery(c, "name")
	if !ok {
		return
	}
	foods, err := h.store.FoodsByRestaurant(c.Request.Context(), name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

func (h *Handler) GetFood(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid food id")
		return
	}
	food, err := h.store.FoodByID(c.Request.Context(), uint(id))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

// GetStateMachineInfo returns the line item state machine for informational purposes
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	terminal := []models.LineStatus{}
	for _, s := range []models.LineStatus{
		models.StatusPlaced, models.StatusCooking, models.StatusOutForDelivery,
		models.StatusCompleted, models.StatusCancelled,
	} {
		if statemachine.IsTerminal(s) {
			terminal = append(terminal, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"terminal_states": terminal,
		"applies_to":      []models.LineKind{models.KindRegular, models.KindCustom},
		"description":     "Line item lifecycle; each item of an order moves independently",
	})
}

// invalidateCatalog drops cached catalog responses after a write.
func (h *Handler) invalidateCatalog(ctx context.Context) {
	if err := h.cache.DeleteByPrefix(ctx, catalogPrefix); err != nil {
		h.log.WarnContext(ctx, "catalog cache not invalidated", "error", err)
	}
}
