package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

func TestResourcePhases(t *testing.T) {
	var r Resource[int]

	phase, _, err := r.Snapshot()
	require.Equal(t, Idle, phase)
	require.NoError(t, err)

	r.Start()
	phase, _, _ = r.Snapshot()
	require.Equal(t, Loading, phase)

	r.Succeed(42)
	phase, v, err := r.Snapshot()
	require.Equal(t, Success, phase)
	require.Equal(t, 42, v)
	require.NoError(t, err)

	r.Fail(errors.New("boom"))
	phase, _, err = r.Snapshot()
	require.Equal(t, Failed, phase)
	require.EqualError(t, err, "boom")

	r.Reset()
	phase, v, err = r.Snapshot()
	require.Equal(t, Idle, phase)
	require.Zero(t, v)
	require.NoError(t, err)
}

func TestRefreshCartDispatch(t *testing.T) {
	s := New()

	s.RefreshCart(func() (models.CartSummary, error) {
		return models.CartSummary{ItemCount: 3, Total: 25}, nil
	})
	phase, summary, err := s.Cart().Snapshot()
	require.Equal(t, Success, phase)
	require.NoError(t, err)
	require.Equal(t, uint(3), summary.ItemCount)
	require.Equal(t, 25.0, summary.Total)

	s.RefreshCart(func() (models.CartSummary, error) {
		return models.CartSummary{}, errors.New("upstream down")
	})
	phase, _, err = s.Cart().Snapshot()
	require.Equal(t, Failed, phase)
	require.EqualError(t, err, "upstream down")
}

func TestTokenLifecycle(t *testing.T) {
	s := New()
	require.False(t, s.LoggedIn())

	s.SetToken("abc")
	require.True(t, s.LoggedIn())
	require.Equal(t, "abc", s.Token())

	s.Cart().Succeed(models.CartSummary{ItemCount: 1})
	s.ClearToken()
	require.False(t, s.LoggedIn())

	phase, summary, _ := s.Cart().Snapshot()
	require.Equal(t, Idle, phase)
	require.Zero(t, summary.ItemCount)
}

func TestSummarize(t *testing.T) {
	require.Zero(t, models.Summarize(nil).ItemCount)

	order := &models.Order{
		Total: 25,
		OrderItems: []models.OrderItem{
			{Quantity: 2},
			{Quantity: 1},
		},
	}
	summary := models.Summarize(order)
	require.Equal(t, uint(3), summary.ItemCount)
	require.Equal(t, 25.0, summary.Total)
}
