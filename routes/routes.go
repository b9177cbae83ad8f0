package routes

import (
	"dinedash-server/config"
	"dinedash-server/handlers"
	"dinedash-server/middleware"
	"dinedash-server/models"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers every route once at startup. Role checks apply only
// when auth.enforce_roles is set; otherwise roles stay advisory.
func SetupRoutes(r *gin.Engine, h *handlers.Handler, cfg *config.Settings) {
	r.Use(middleware.Identify([]byte(cfg.Auth.JWTSecret)))

	guard := func(roles ...models.UserRole) []gin.HandlerFunc {
		if !cfg.Auth.EnforceRoles {
			return nil
		}
		return []gin.HandlerFunc{middleware.AuthRequired(), middleware.RoleRequired(roles...)}
	}

	r.GET("/", h.Home)
	r.GET("/state-machine", h.GetStateMachineInfo)

	// ── Catalog ────────────────────────────────────────────────────
	r.GET("/providers", h.ListProviders)
	r.GET("/provider", h.GetProvider)
	r.GET("/restaurants", h.ListRestaurants)
	r.GET("/restaurantData", h.GetRestaurantData)
	r.GET("/foods", h.ListFoods)
	r.GET("/foods/pagination", h.FoodsPage)
	r.GET("/foods/category", h.FoodsByCategory)
	r.GET("/foods/search", h.SearchFoods)
	r.GET("/restaurant", h.RestaurantFoods)
	r.GET("/food/:id", h.GetFood)

	// ── Customer ───────────────────────────────────────────────────
	r.POST("/orders", h.PlaceOrder)
	r.POST("/orders/sslcommerz", h.CheckoutSSLCommerz)
	r.POST("/payment/success/:tranID/:oid", h.PaymentSuccess)
	r.POST("/payment/failed", h.PaymentFailed)
	r.POST("/update-address", h.UpdateAddress)
	r.POST("/update-phone", h.UpdatePhone)
	r.GET("/my-address", h.MyAddress)
	r.GET("/my-orders", h.MyOrders)
	r.POST("/review", h.SubmitReview)
	r.GET("/reviews", h.ListReviews)

	// ── Accounts ───────────────────────────────────────────────────
	r.POST("/jwt", h.IssueToken)
	r.GET("/get-role", h.GetRole)
	r.POST("/send/verificationCode", h.SendVerificationCode)
	r.POST("/verify/gmail", h.VerifyEmail)
	r.POST("/check/verificationStatus", h.VerificationStatus)

	// ── Onboarding applications ────────────────────────────────────
	r.POST("/partner-request", h.SubmitPartnerRequest)
	r.GET("/partner-request", h.GetPartnerRequest)
	r.POST("/register-restaurant", h.RegisterRestaurant)
	r.POST("/rider-request", h.SubmitRiderRequest)
	r.GET("/rider-request", h.GetRiderRequest)
	r.POST("/register-rider", h.RegisterRider)

	// ── Admin ──────────────────────────────────────────────────────
	admin := r.Group("/", guard(models.RoleAdmin)...)
	{
		admin.GET("/partner-requests", h.ListPartnerRequests)
		admin.POST("/accept/partner-request", h.AcceptPartnerRequest)
		admin.POST("/reject/partner-request", h.RejectPartnerRequest)
		admin.GET("/rider-requests", h.ListRiderRequests)
		admin.POST("/accept/rider-request", h.AcceptRiderRequest)
		admin.POST("/reject/rider-request", h.RejectRiderRequest)
		admin.POST("/providers", h.CreateProvider)
	}

	// ── Restaurant handler ─────────────────────────────────────────
	restaurant := r.Group("/", guard(models.RoleRestaurantHandler, models.RoleAdmin)...)
	{
		for kind, path := range map[models.LineKind]string{models.KindRegular: "regular", models.KindCustom: "custom"} {
			restaurant.POST("/accept/order/"+path, h.TransitionOrder(kind, models.StatusCooking))
			restaurant.POST("/reject/order/"+path, h.TransitionOrder(kind, models.StatusCancelled))
			restaurant.POST("/deliver/order/"+path, h.TransitionOrder(kind, models.StatusOutForDelivery))
		}
		restaurant.GET("/restaurant-orders", h.RestaurantOrders)
		restaurant.GET("/custom-orders", h.CustomOrders)
		restaurant.GET("/total-earned", h.TotalEarned)
		restaurant.POST("/foods", h.CreateFood)
		restaurant.PATCH("/provider/ingredient", h.UpdateIngredientPrice)
	}

	// ── Rider ──────────────────────────────────────────────────────
	rider := r.Group("/", guard(models.RoleRider)...)
	{
		rider.GET("/deliveries/incoming", h.IncomingDeliveries)
		rider.POST("/accept/delivery", h.AcceptDelivery)
		rider.GET("/deliveries/accepted", h.AcceptedDeliveries)
		rider.GET("/deliveries/delivered", h.DeliveredDeliveries)
		rider.POST("/deliver/food", h.DeliverFood)
		rider.GET("/rider", h.GetRider)
	}
}
