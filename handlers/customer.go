package handlers

import (
	"context"
	"net/http"
	"strings"

	"dinedash-server/events"
	"dinedash-server/metrics"
	"dinedash-server/models"
	"dinedash-server/payment"

	"github.com/gin-gonic/gin"
)

// PlaceOrder stores a cash-on-delivery order as sent and mails the invoice.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		badRequest(c, err.Error())
		return
	}
	if order.Email == "" {
		badRequest(c, "email is required")
		return
	}
	if len(order.CartFood)+len(order.Burger) == 0 {
		badRequest(c, "order has no items")
		return
	}

	ctx := c.Request.Context()
	if err := h.store.CreateOrder(ctx, &order); err != nil {
		h.respondError(c, err)
		return
	}
	h.orderPlaced(ctx, &order, "cash")
	success(c)
}

type CheckoutRequest struct {
	models.Order
	RandString string `json:"randString"`
}

// CheckoutSSLCommerz stages the order under the client's correlation string
// and opens a gateway session. The order is persisted by PaymentSuccess.
func (h *Handler) CheckoutSSLCommerz(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.RandString == "" || req.Email == "" {
		badRequest(c, "randString and email are required")
		return
	}

	ctx := c.Request.Context()
	pending, err := h.store.CreatePendingOrder(ctx, req.RandString, req.Order)
	if err != nil {
		h.respondError(c, err)
		return
	}

	server := strings.TrimRight(h.cfg.Payment.ServerURL, "/")
	url, err := h.gateway.InitSession(ctx, payment.Session{
		TransactionID: pending.TransactionID,
		Amount:        req.OrderTotal,
		CustomerName:  req.Name,
		CustomerEmail: req.Email,
		CustomerPhone: req.Phone,
		CustomerAddr:  req.Address,
		SuccessURL:    server + "/payment/success/" + pending.TransactionID + "/" + req.RandString,
		FailURL:       server + "/payment/failed",
		CancelURL:     server + "/payment/failed",
	})
	if err != nil {
		h.log.ErrorContext(ctx, "payment session failed", "tran_id", pending.TransactionID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// PaymentSuccess is the gateway callback. It promotes the staged order and
// sends the browser back to the client. Repeated callbacks are harmless.
func (h *Handler) PaymentSuccess(c *gin.Context) {
	ctx := c.Request.Context()
	order, err := h.store.PromotePendingOrder(ctx, c.Param("oid"), c.Param("tranID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.orderPlaced(ctx, order, "sslcommerz")

	redirectTo := "customMadeBurgers"
	if len(order.CartFood) > 0 {
		redirectTo = "myOrders"
	}
	c.Redirect(http.StatusFound, h.clientURL("/order-success/"+redirectTo))
}

func (h *Handler) PaymentFailed(c *gin.Context) {
	c.Redirect(http.StatusFound, h.clientURL("/payment-cancelled"))
}

func (h *Handler) clientURL(path string) string {
	return strings.TrimRight(h.cfg.Payment.ClientURL, "/") + path
}

func (h *Handler) orderPlaced(ctx context.Context, order *models.Order, via string) {
	metrics.OrdersPlaced.WithLabelValues(via).Inc()
	h.notifyFailed(ctx, "invoice", h.notifier.SendInvoice(ctx, order))
	h.publish(ctx, events.OrderPlaced, events.OrderPlacedEvent{
		OrderID: order.ID,
		Email:   order.Email,
		Region:  order.Region,
		Total:   order.OrderTotal,
		Payment: order.PaymentMethod,
	})
}

type UpdateAddressRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Address string `json:"address" binding:"required"`
}

func (h *Handler) UpdateAddress(c *gin.Context) {
	var req UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.store.UpsertAddress(c.Request.Context(), req.Email, req.Address); err != nil {
		h.respondError(c, err)
		return
	}
	success(c)
}

type UpdatePhoneRequest struct {
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

func (h *Handler) UpdatePhone(c *gin.Context) {
	var req UpdatePhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.store.UpsertPhone(c.Request.Context(), req.Email, req.Phone); err != nil {
		h.respondError(c, err)
		return
	}
	success(c)
}

func (h *Handler) MyAddress(c *gin.Context) {
	email, ok := requireQuery(c, "email")
	if !ok {
		return
	}
	addr, err := h.store.AddressByEmail(c.Request.Context(), email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

// MyOrders returns the customer's orders, newest first.
func (h *Handler) MyOrders(c *gin.Context) {
	email, ok := requireQuery(c, "email")
	if !ok {
		return
	}
	orders, err := h.store.OrdersByEmail(c.Request.Context(), email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
