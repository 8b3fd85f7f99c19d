package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/handlers"
	"github.com/Skotchmaster/storefront/internal/logging"
)

type Deps struct {
	Logger          *slog.Logger
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	CartHandler     *handlers.CartHandler
	AddressHandler  *handlers.AddressHandler
	CheckoutHandler *handlers.CheckoutHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	if d.Logger != nil {
		e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				req := c.Request()
				ctx := logging.IntoContext(req.Context(), d.Logger)
				c.SetRequest(req.WithContext(ctx))
				return next(c)
			}
		})
	}

	v1 := e.Group("/api/v1")

	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	v1.GET("/search", d.ProductHandler.Search)
	v1.GET("/countries", d.AddressHandler.Countries)

	cart := v1.Group("/cart")
	cart.GET("", d.CartHandler.GetCart)
	cart.GET("/badge", d.CartHandler.Badge)
	cart.POST("/add", d.CartHandler.AddToCart)
	cart.POST("/quantity", d.CartHandler.ChangeQuantity)
	cart.POST("/coupon", d.CartHandler.ApplyCoupon)
	cart.DELETE("/items/:id", d.CartHandler.RemoveItem)

	addrs := v1.Group("/addresses")
	addrs.GET("", d.AddressHandler.List)
	addrs.POST("", d.AddressHandler.Create)
	addrs.PUT("/:id", d.AddressHandler.Update)
	addrs.DELETE("/:id", d.AddressHandler.Delete)

	co := v1.Group("/checkout")
	co.GET("", d.CheckoutHandler.Begin)
	co.POST("", d.CheckoutHandler.Submit)
	co.POST("/coupon", d.CartHandler.ApplyCoupon)
}
