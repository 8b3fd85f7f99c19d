package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

func TestListAddressesFiltersByType(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/addresses/", r.URL.Path)
		require.Equal(t, "B", r.URL.Query().Get("address-type"))
		w.Write([]byte(oneBilling))
	}))
	h := &AddressHandler{Auth: env.Auth}
	ck := env.login(t, "tok")

	rec, c := env.doJSON(t, http.MethodGet, "/api/v1/addresses?address_type=B", nil, ck)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []models.Address
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, 5, list[0].ID)
	require.True(t, list[0].Default)
}

func TestListAddressesRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t, http.NotFoundHandler())
	h := &AddressHandler{Auth: env.Auth}
	ck := env.login(t, "tok")

	_, c := env.doJSON(t, http.MethodGet, "/api/v1/addresses?address_type=X", nil, ck)
	err := h.List(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCreateAddressReturnsRefetchedList(t *testing.T) {
	created := false
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/addresses/create/":
			var addr models.Address
			require.NoError(t, json.NewDecoder(r.Body).Decode(&addr))
			require.Equal(t, "1 Main St", addr.StreetAddress)
			created = true
			w.WriteHeader(http.StatusCreated)
		case "/api/addresses/":
			w.Write([]byte(oneBilling))
		default:
			http.NotFound(w, r)
		}
	}))
	h := &AddressHandler{Auth: env.Auth}
	ck := env.login(t, "tok")

	body := models.Address{StreetAddress: "1 Main St", Country: "US", Zip: "11111", AddressType: models.AddressTypeBilling}
	rec, c := env.doJSON(t, http.MethodPost, "/api/v1/addresses", body, ck)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, created)

	var list []models.Address
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
}

func TestUpdateAddressUsesPathID(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/addresses/5/update/":
			w.WriteHeader(http.StatusOK)
		case "/api/addresses/":
			w.Write([]byte(oneBilling))
		default:
			http.NotFound(w, r)
		}
	}))
	h := &AddressHandler{Auth: env.Auth}
	ck := env.login(t, "tok")

	body := models.Address{StreetAddress: "1 Main St", Country: "US", Zip: "11111", AddressType: models.AddressTypeBilling}
	rec, c := env.doJSON(t, http.MethodPut, "/api/v1/addresses/5", body, ck)
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteAddressRefetchesRemainder(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/addresses/5/delete/":
			w.WriteHeader(http.StatusNoContent)
		case "/api/addresses/":
			w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	h := &AddressHandler{Auth: env.Auth}
	ck := env.login(t, "tok")

	rec, c := env.doJSON(t, http.MethodDelete, "/api/v1/addresses/5?address_type=B", nil, ck)
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]", rec.Body.String()[:2])
}

func TestCountriesIsAnonymous(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/countries/", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"US":"United States","DE":"Germany"}`))
	}))
	h := &AddressHandler{Auth: env.Auth}

	rec, c := env.doJSON(t, http.MethodGet, "/api/v1/countries", nil)
	require.NoError(t, h.Countries(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var countries map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &countries))
	require.Equal(t, "United States", countries["US"])
}
