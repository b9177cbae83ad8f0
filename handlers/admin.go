package handlers

import (
	"net/http"

	"dinedash-server/models"

	"github.com/gin-gonic/gin"
)

type PartnerRequestBody struct {
	Email          string         `json:"email" binding:"required,email"`
	Name           string         `json:"name" binding:"required"`
	RestaurantName string         `json:"restaurantName" binding:"required"`
	Phone          string         `json:"phone"`
	Address        string         `json:"address"`
	Details        map[string]any `json:"details"`
}

// SubmitPartnerRequest files a restaurant onboarding application.
func (h *Handler) SubmitPartnerRequest(c *gin.Context) {
	var body PartnerRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}
	req := models.PartnerRequest{
		Email:          body.Email,
		Name:           body.Name,
		RestaurantName: body.RestaurantName,
		Phone:          body.Phone,
		Address:        body.Address,
		Details:        body.Details,
	}
	if err := h.store.SubmitPartnerRequest(c.Request.Context(), &req); err != nil {
		h.respondError(c, err)
		return
	}
	success(c)
}

func (h *Handler) GetPartnerRequest(c *gin.Context) {
	email, ok := requireQuery(c, "email")
	if !ok {
		return
	}
	req, err := h.store.PartnerRequest(c.Request.Context(), email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// ListPartnerRequests shows the pending applications to the admin.
func (h *Handler) ListPartnerRequests(c *gin.Context) {
	reqs, err := h.store.PendingPartnerRequests(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

type DecisionBody struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// AcceptPartnerRequest grants the restaurant-handler role and mails the
// registration instructions.
func (h *Handler) AcceptPartnerRequest(c *gin.Context) {
	var body DecisionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	req, err := h.store.AcceptPartnerRequest(ctx, body.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.notifyFailed(ctx, "partner instruction", h.notifier.SendPartnerInstruction(ctx, req.Email, nameOr(body.Name, req.Name)))
	success(c)
}

func (h *Handler) RejectPartnerRequest(c *gin.Context) {
	email, ok := requireQuery(c, "email")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	req, err := h.store.RejectPartnerRequest(ctx, email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.notifyFailed(ctx, "rejection", h.notifier.SendRejection(ctx, req.Email, req.Name))
	success(c)
}

type RiderRequestBody struct {
	Email   string         `json:"email" binding:"required,email"`
	Name    string         `json:"name" binding:"required"`
	Phone   string         `json:"phone"`
	Region  string         `json:"region" binding:"required"`
	Vehicle string         `json:"vehicle"`
	Details map[string]any `json:"details"`
}

// SubmitRiderRequest files a rider onboarding application.
func (h *Handler) SubmitRiderRequest(c *gin.Context) {
	var body RiderRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}
	req := models.RiderRequest{
		Email:   body.Email,
		Name:    body.Name,
		Phone:   body.Phone,
		Region:  body.Region,
		Vehicle: body.Vehicle,
		Details: body.Details,
	}
	if err := h.store.SubmitRiderRequest(c.Request.Context(), &req); err != nil {
		h.respondError(c, err)
		return
	}
	success(c)
}

func (h *Handler) GetRiderRequest(c *gin.Context) {
	email, ok := requireQuery(c, "email")
	if !ok {
		return
	}
	req, err := h.store.RiderRequest(c.Request.Context(), email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *Handler) ListRiderRequests(c *gin.Context) {
	reqs, err := h.store.PendingRiderRequests(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// AcceptRiderRequest grants the rider role and mails the instructions.
func (h *Handler) AcceptRiderRequest(c *gin.Context) {
	var body DecisionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	req, err := h.store.AcceptRiderRequest(ctx, body.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.notifyFailed(ctx, "rider instruction", h.notifier.SendRiderInstruction(ctx, req.Email, nameOr(body.Name, req.Name)))
	success(c)
}

func (h *Handler) RejectRiderRequest(c *gin.Context) {
	email, ok := requireQuery(c, "email")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	req, err := h.store.RejectRiderRequest(ctx, email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.notifyFailed(ctx, "rejection", h.notifier.SendRejection(ctx, req.Email, req.Name))
	success(c)
}

type RegisterRiderBody struct {
	Email  string `json:"email" binding:"required,email"`
	Name   string `json:"name" binding:"required"`
	Phone  string `json:"phone"`
	Region string `json:"region" binding:"required"`
}

// RegisterRider creates the rider profile and resolves the request.
func (h *Handler) RegisterRider(c *gin.Context) {
	var body RegisterRiderBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}
	rider := models.Rider{Email: body.Email, Name: body.Name, Phone: body.Phone, Region: body.Region}
	if err := h.store.RegisterRider(c.Request.Context(), &rider); err != nil {
		h.respondError(c, err)
		return
	}
	success(c)
}

func nameOr(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}
