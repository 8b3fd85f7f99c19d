package store

import (
	"sync"

	"github.com/Skotchmaster/storefront/internal/models"
)

type Phase int

const (
	Idle Phase = iota
	Loading
	Success
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Resource is the {Idle, Loading, Success(payload), Failed(error)} projection
// of one async fetch. Consumers read the snapshot instead of re-fetching.
type Resource[T any] struct {
	mu    sync.RWMutex
	phase Phase
	value T
	err   error
}

func (r *Resource[T]) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phase = Loading
	r.err = nil
}

func (r *Resource[T]) Succeed(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phase = Success
	r.value = v
	r.err = nil
}

func (r *Resource[T]) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phase = Failed
	r.err = err
}

func (r *Resource[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	r.phase = Idle
	r.value = zero
	r.err = nil
}

func (r *Resource[T]) Snapshot() (Phase, T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.phase, r.value, r.err
}

// Store is the process-wide view of the auth session and the cart summary.
type Store struct {
	mu    sync.RWMutex
	token string

	cart Resource[models.CartSummary]
}

func New() *Store {
	return &Store{}
}

func (s *Store) SetToken(tok string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = tok
}

func (s *Store) ClearToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.cart.Reset()
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) LoggedIn() bool {
	return s.Token() != ""
}

func (s *Store) Cart() *Resource[models.CartSummary] {
	return &s.cart
}

// RefreshCart drives the three-phase dispatch around the given fetch.
func (s *Store) RefreshCart(fetch func() (models.CartSummary, error)) {
	s.cart.Start()
	summary, err := fetch()
	if err != nil {
		s.cart.Fail(err)
		return
	}
	s.cart.Succeed(summary)
}
