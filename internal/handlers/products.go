package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/util"
)

// ProductHandler serves the anonymous catalog surface. Prices are relayed
// exactly as the upstream returned them.
type ProductHandler struct {
	Catalog *catalog.Service
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	products, err := h.Catalog.ListProducts(c.Request().Context())
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	product, err := h.Catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing query")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	total, products, err := h.Catalog.Search(c.Request().Context(), q, from, size)
	if errors.Is(err, catalog.ErrSearchDisabled) {
		return echo.NewHTTPError(http.StatusNotImplemented, "search is not configured")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
}
