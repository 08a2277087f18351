// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"samaha/internal/http/handlers"
	"samaha/internal/http/middleware"
	"samaha/internal/infra"
	"samaha/internal/modules/coupon"
	"samaha/internal/modules/dispatch"
	"samaha/internal/modules/driver"
	"samaha/internal/modules/order"
	"samaha/internal/modules/user"
	"samaha/internal/types"
)

type RouterDeps struct {
	Order        *order.Service
	Events       *order.PostgresEventLog
	Dispatch     *dispatch.Service
	Driver       *driver.Service
	Coupon       *coupon.Service
	Users        *user.Store
	Verifier     infra.TokenVerifier
	RestaurantID types.ID
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	orderHandler := handlers.NewOrderHandler(deps.Order, deps.Events, deps.RestaurantID)
	dispatchHandler := handlers.NewDispatchHandler(deps.Dispatch)
	driverHandler := handlers.NewDriverHandler(deps.Driver, deps.Order)
	couponHandler := handlers.NewCouponHandler(deps.Coupon)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.POST("/api/coupons/validate", couponHandler.Validate)

	authed := r.Group("/api", middleware.Auth(deps.Verifier, deps.Users))
	{
		authed.POST("/orders", orderHandler.Create)
		authed.GET("/orders", orderHandler.ListMine)
		authed.GET("/orders/:id", orderHandler.Get)
		authed.POST("/orders/:id/cancel", orderHandler.Cancel)
		authed.GET("/orders/:id/eta", driverHandler.ETA)

		staff := authed.Group("", middleware.RoleRequired(user.RoleAdmin, user.RoleDriver))
		{
			staff.POST("/orders/:id/status", orderHandler.UpdateStatus)
		}

		drivers := authed.Group("/drivers", middleware.RoleRequired(user.RoleDriver))
		{
			drivers.POST("/availability", driverHandler.SetAvailability)
			drivers.PUT("/location", driverHandler.UpdateLocation)
		}

		admin := authed.Group("", middleware.RoleRequired(user.RoleAdmin))
		{
			admin.POST("/orders/:id/dispatch", dispatchHandler.Dispatch)
			admin.POST("/orders/:id/assign", dispatchHandler.Assign)
			admin.GET("/orders/:id/events", orderHandler.Events)
		}
	}

	return r
}
