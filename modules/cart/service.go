// Package cart provides per-session shopping carts.
package cart

import (
	"errors"
	"sync"
	"time"

	"github.com/3marnadates-alt/3marna.art/domain/cart"
	"github.com/3marnadates-alt/3marna.art/domain/catalog"
)

// ErrProductNotFound is returned when adding an id missing from the catalog.
var ErrProductNotFound = errors.New("product not found")

// ProductLookup resolves catalog products by id.
type ProductLookup interface {
	Product(id int) (catalog.Product, bool)
}

// View is a cart with its derived totals.
type View struct {
	SessionID  string      `json:"session_id"`
	Items      []cart.Item `json:"items"`
	TotalItems int         `json:"total_items"`
	TotalPrice float64     `json:"total_price"`
}

type session struct {
	cart    *cart.Cart
	touched time.Time
}

// Service keeps one cart per session id in memory.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*session
	products ProductLookup
	idleTTL  time.Duration
	now      func() time.Time
}

// NewService creates a Service. Carts untouched for idleTTL are dropped by Sweep.
func NewService(products ProductLookup, idleTTL time.Duration) *Service {
	return &Service{
		sessions: make(map[string]*session),
		products: products,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Get returns the cart for sessionID. Unknown sessions have an empty cart.
func (s *Service) Get(sessionID string) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return View{SessionID: sessionID, Items: []cart.Item{}}
	}
	sess.touched = s.now()
	return view(sessionID, sess.cart)
}

// Add snapshots the product with productID into the session cart.
func (s *Service) Add(sessionID string, productID int) (View, error) {
	p, ok := s.products.Product(productID)
	if !ok {
		return View{}, ErrProductNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session(sessionID)
	sess.cart.Add(p)
	return view(sessionID, sess.cart), nil
}

// Remove deletes the line for productID.
func (s *Service) Remove(sessionID string, productID int) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session(sessionID)
	sess.cart.Remove(productID)
	return view(sessionID, sess.cart)
}

// UpdateQuantity sets the quantity for productID; below 1 removes the line.
func (s *Service) UpdateQuantity(sessionID string, productID, quantity int) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session(sessionID)
	sess.cart.UpdateQuantity(productID, quantity)
	return view(sessionID, sess.cart)
}

// Clear empties the session cart.
func (s *Service) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Sweep drops carts idle longer than the TTL and returns how many were removed.
func (s *Service) Sweep() int {
	if s.idleTTL <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idleTTL)
	removed := 0
	for id, sess := range s.sessions {
		if sess.touched.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Sessions returns the number of live carts.
func (s *Service) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// session must be called with mu held.
func (s *Service) session(id string) *session {
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{cart: cart.New()}
		s.sessions[id] = sess
	}
	sess.touched = s.now()
	return sess
}

func view(sessionID string, c *cart.Cart) View {
	return View{
		SessionID:  sessionID,
		Items:      c.Items(),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}
