package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/addresses"
	"github.com/Skotchmaster/storefront/internal/models"
)

// AddressHandler manages the per-type address books. Responses to mutations
// carry the re-fetched list so the client picks up server-assigned defaults.
type AddressHandler struct {
	*Auth
}

func (h *AddressHandler) service(c echo.Context) (*addresses.Service, error) {
	client, err := h.authedClient(c)
	if err != nil {
		return nil, err
	}
	return addresses.New(client), nil
}

func addressType(c echo.Context) (models.AddressType, error) {
	t := models.AddressType(c.QueryParam("address_type"))
	if !t.Valid() {
		return "", echo.NewHTTPError(http.StatusBadRequest, "address_type must be B or S")
	}
	return t, nil
}

func (h *AddressHandler) List(c echo.Context) error {
	svc, err := h.service(c)
	if err != nil {
		return err
	}
	t, err := addressType(c)
	if err != nil {
		return err
	}
	list, err := svc.List(c.Request().Context(), t)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AddressHandler) Create(c echo.Context) error {
	svc, err := h.service(c)
	if err != nil {
		return err
	}
	var addr models.Address
	if err := c.Bind(&addr); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	list, err := svc.Create(c.Request().Context(), addr)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusCreated, list)
}

func (h *AddressHandler) Update(c echo.Context) error {
	svc, err := h.service(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var addr models.Address
	if err := c.Bind(&addr); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	list, err := svc.Update(c.Request().Context(), id, addr)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AddressHandler) Delete(c echo.Context) error {
	svc, err := h.service(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	t, err := addressType(c)
	if err != nil {
		return err
	}
	list, err := svc.Delete(c.Request().Context(), id, t)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Countries is anonymous upstream data but served beside the address forms
// that need it.
func (h *AddressHandler) Countries(c echo.Context) error {
	countries, err := addresses.New(h.API).Countries(c.Request().Context())
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, countries)
}
