package handlers

import (
	"net/http"

	"dinedash-server/events"
	"dinedash-server/metrics"
	"dinedash-server/models"

	"github.com/gin-gonic/gin"
)

// IncomingDeliveries lists cooking, unclaimed items in the rider's region.
func (h *Handler) IncomingDeliveries(c *gin.Context) {
	region, ok := requireQuery(c, "region")
	if !ok {
		return
	}
	items, err := h.store.IncomingDeliveries(c.Request.Context(), region)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// deliveryParams reads orderId, type and riderName from the query string.
func deliveryParams(c *gin.Context) (id string, kind models.LineKind, rider string, ok bool) {
	id, rider = c.Query("orderId"), c.Query("riderName")
	if id == "" || rider == "" {
		badRequest(c, "orderId and riderName query parameters are required")
		return "", "", "", false
	}
	kind, ok = models.ParseLineKind(c.Query("type"))
	if !ok {
		badRequest(c, "type must be \"regular order\" or \"custom burger\"")
		return "", "", "", false
	}
	return id, kind, rider, true
}

// AcceptDelivery claims an item for a rider. Only the first claim wins; later
// ones get 409.
func (h *Handler) AcceptDelivery(c *gin.Context) {
	id, kind, rider, ok := deliveryParams(c)
	if !ok {
		return
	}
	if err := h.store.AcceptDelivery(c.Request.Context(), id, kind, rider); err != nil {
		h.respondError(c, err)
		return
	}
	success(c)
}

func (h *Handler) AcceptedDeliveries(c *gin.Context) {
	rider, ok := requireQuery(c, "riderName")
	if !ok {
		return
	}
	items, err := h.store.AcceptedDeliveries(c.Request.Context(), rider)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) DeliveredDeliveries(c *gin.Context) {
	rider, ok := requireQuery(c, "riderName")
	if !ok {
		return
	}
	items, err := h.store.DeliveredDeliveries(c.Request.Context(), rider)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// DeliverFood completes an item the rider carries and credits the flat fee.
func (h *Handler) DeliverFood(c *gin.Context) {
	id, kind, rider, ok := deliveryParams(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	credited, err := h.store.CompleteDelivery(ctx, id, kind, rider)
	if err != nil {
		h.respondError(c, err)
		return
	}
	metrics.LineTransitions.WithLabelValues(string(kind), string(models.StatusCompleted)).Inc()
	metrics.DeliveriesCompleted.Inc()
	metrics.RiderEarnings.Add(models.RiderFlatFee)
	h.publish(ctx, events.DeliveryCompleted, events.DeliveryEvent{
		ItemID: id,
		Kind:   string(kind),
		Region: credited.Region,
		Rider:  rider,
	})
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"delivered": credited.Delivered,
		"earned":    credited.Earned,
	})
}

func (h *Handler) GetRider(c *gin.Context) {
	email, ok := requireQuery(c, "email")
	if !ok {
		return
	}
	rider, err := h.store.RiderByEmail(c.Request.Context(), email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rider)
}
