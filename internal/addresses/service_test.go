package addresses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

func TestListIsPartitionedByType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/addresses/", r.URL.Path)
		switch r.URL.Query().Get("address-type") {
		case "B":
			json.NewEncoder(w).Encode([]models.Address{{ID: 1, AddressType: models.AddressTypeBilling}})
		case "S":
			json.NewEncoder(w).Encode([]models.Address{{ID: 2, AddressType: models.AddressTypeShipping}})
		default:
			t.Fatalf("missing address-type query")
		}
	}))
	defer srv.Close()

	svc := New(apiclient.New(srv.URL).WithToken("t"))

	billing, err := svc.List(context.Background(), models.AddressTypeBilling)
	require.NoError(t, err)
	require.Len(t, billing, 1)
	require.Equal(t, 1, billing[0].ID)

	shipping, err := svc.List(context.Background(), models.AddressTypeShipping)
	require.NoError(t, err)
	require.Equal(t, 2, shipping[0].ID)
}

func TestListRejectsUnknownType(t *testing.T) {
	svc := New(apiclient.New("http://example.com"))
	_, err := svc.List(context.Background(), models.AddressType("X"))
	require.Error(t, err)
}

// The upstream may silently move the default flag when a new default is
// created; the refetched list is the only truth.
func TestCreateRefetchesAndPicksUpFlippedDefault(t *testing.T) {
	var created bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/addresses/create/":
			var addr models.Address
			require.NoError(t, json.NewDecoder(r.Body).Decode(&addr))
			require.Equal(t, models.AddressTypeBilling, addr.AddressType)
			require.True(t, addr.Default)
			created = true
			w.WriteHeader(http.StatusCreated)
		case "/api/addresses/":
			require.True(t, created, "list must be refetched after create")
			json.NewEncoder(w).Encode([]models.Address{
				{ID: 1, StreetAddress: "old st", Default: false, AddressType: models.AddressTypeBilling},
				{ID: 2, StreetAddress: "new st", Default: true, AddressType: models.AddressTypeBilling},
			})
		}
	}))
	defer srv.Close()

	svc := New(apiclient.New(srv.URL).WithToken("t"))
	list, err := svc.Create(context.Background(), models.Address{
		StreetAddress: "new st",
		Default:       true,
		AddressType:   models.AddressTypeBilling,
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.False(t, list[0].Default)
	require.True(t, list[1].Default)
}

func TestUpdateHitsUpdateEndpointThenRefetches(t *testing.T) {
	var path string
	var fetches int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut:
			path = r.URL.Path
			w.WriteHeader(http.StatusOK)
		default:
			fetches++
			json.NewEncoder(w).Encode([]models.Address{})
		}
	}))
	defer srv.Close()

	svc := New(apiclient.New(srv.URL).WithToken("t"))
	_, err := svc.Update(context.Background(), 9, models.Address{AddressType: models.AddressTypeShipping})
	require.NoError(t, err)
	require.Equal(t, "/api/addresses/9/update/", path)
	require.Equal(t, 1, fetches)
}

func TestDeleteRefetchesAffectedType(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			path = r.URL.Path
			w.WriteHeader(http.StatusOK)
		default:
			require.Equal(t, "S", r.URL.Query().Get("address-type"))
			json.NewEncoder(w).Encode([]models.Address{})
		}
	}))
	defer srv.Close()

	svc := New(apiclient.New(srv.URL).WithToken("t"))
	list, err := svc.Delete(context.Background(), 3, models.AddressTypeShipping)
	require.NoError(t, err)
	require.Equal(t, "/api/addresses/3/delete/", path)
	require.Empty(t, list)
}

func TestCountriesMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/countries/", r.URL.Path)
		w.Write([]byte(`{"DE":"Germany","US":"United States of America"}`))
	}))
	defer srv.Close()

	svc := New(apiclient.New(srv.URL))
	countries, err := svc.Countries(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Germany", countries["DE"])
	require.Len(t, countries, 2)
}
