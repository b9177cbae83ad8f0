package handlers

import (
	"net/http"

	"dinedash-server/events"
	"dinedash-server/metrics"
	"dinedash-server/models"

	"github.com/gin-gonic/gin"
)

type LineItemRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

// TransitionOrder builds the accept, reject and deliver handlers of the
// restaurant dashboard. orderId in the body names the line item.
func (h *Handler) TransitionOrder(kind models.LineKind, to models.LineStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LineItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		ctx := c.Request.Context()
		if err := h.store.TransitionLineItem(ctx, req.OrderID, kind, models.RoleRestaurantHandler, to); err != nil {
			h.respondError(c, err)
			return
		}
		metrics.LineTransitions.WithLabelValues(string(kind), string(to)).Inc()
		if to == models.StatusCooking {
			h.publish(ctx, events.DeliveryAvailable, events.DeliveryEvent{ItemID: req.OrderID, Kind: string(kind)})
		}
		success(c)
	}
}

// RestaurantOrders lists the regular items of one restaurant.
func (h *Handler) RestaurantOrders(c *gin.Context) {
	h.ownerItems(c, models.KindRegular)
}

// CustomOrders lists the custom burger items of one provider.
func (h *Handler) CustomOrders(c *gin.Context) {
	h.ownerItems(c, models.KindCustom)
}

func (h *Handler) ownerItems(c *gin.Context, kind models.LineKind) {
	name, ok := requireQuery(c, "name")
	if !ok {
		return
	}
	items, err := h.store.LineItemsFor(c.Request.Context(), name, kind)
	if err != nil {
		h.respondError(c, err)
		return
	}
	summary := map[models.LineStatus]int{}
	for _, it := range items {
		summary[it.Status]++
	}
	c.JSON(http.StatusOK, gin.H{
		"count":         len(items),
		"order_summary": summary,
		"orders":        items,
	})
}

// TotalEarned recomputes the completed sales of a restaurant or provider.
func (h *Handler) TotalEarned(c *gin.Context) {
	name, ok := requireQuery(c, "name")
	if !ok {
		return
	}
	rev, err := h.store.RevenueFor(c.Request.Context(), name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rev)
}
