package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"dinedash-server/cache"
	"dinedash-server/config"
	"dinedash-server/events"
	"dinedash-server/notify"
	"dinedash-server/payment"
	"dinedash-server/statemachine"
	"dinedash-server/store"

	"github.com/gin-gonic/gin"
)

// Handler serves every route. Collaborators are injected once at startup.
type Handler struct {
	store    *store.Store
	gateway  payment.Gateway
	notifier notify.Sender
	cache    cache.Cache
	events   events.Publisher
	log      *slog.Logger
	cfg      *config.Settings
}

type Deps struct {
	Store    *store.Store
	Gateway  payment.Gateway
	Notifier notify.Sender
	Cache    cache.Cache
	Events   events.Publisher
	Logger   *slog.Logger
	Config   *config.Settings
}

// New fills optional collaborators with no-op implementations.
func New(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Notifier == nil {
		d.Notifier = notify.NewLogSender(d.Logger)
	}
	if d.Cache == nil {
		d.Cache = cache.Nop{}
	}
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	return &Handler{
		store:    d.Store,
		gateway:  d.Gateway,
		notifier: d.Notifier,
		cache:    d.Cache,
		events:   d.Events,
		log:      d.Logger,
		cfg:      d.Config,
	}
}

// respondError maps store and state machine errors onto status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	var terr *store.TransitionError
	switch {
	case errors.As(err, &terr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"reason":            err.Error(),
			"current_status":    terr.Current,
			"valid_next_states": statemachine.ValidTransitionsFrom(terr.Current),
		})
	case errors.Is(err, store.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid state transition", "reason": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrAlreadyClaimed),
		errors.Is(err, store.ErrNotAssigned),
		errors.Is(err, store.ErrNoRider),
		errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// requireQuery reads a mandatory query parameter, answering 400 when absent.
func requireQuery(c *gin.Context, key string) (string, bool) {
	v := c.Query(key)
	if v == "" {
		badRequest(c, key+" query parameter is required")
		return "", false
	}
	return v, true
}

func success(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// notifyFailed logs a notification error; the triggering action stands.
func (h *Handler) notifyFailed(ctx context.Context, what string, err error) {
	if err != nil {
		h.log.WarnContext(ctx, "notification failed", "kind", what, "error", err)
	}
}

func (h *Handler) publish(ctx context.Context, subject string, v any) {
	if err := h.events.Publish(ctx, subject, v); err != nil {
		h.log.WarnContext(ctx, "event not published", "subject", subject, "error", err)
	}
}
