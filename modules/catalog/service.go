package catalog

import (
	"context"
	"sync"

	"github.com/3marnadates-alt/3marna.art/domain/catalog"
	"github.com/3marnadates-alt/3marna.art/modules/kvstore"
	"github.com/go-monolith/mono/pkg/types"
)

// Storage keys for the persisted collections.
const (
	KeyProducts = "store_products"
	KeySettings = "store_settings"
)

// Service owns the product catalog and the store settings.
// Every mutation rewrites the affected collection to the key-value store.
type Service struct {
	mu       sync.RWMutex
	products []catalog.Product
	settings catalog.Settings
	store    kvstore.Store
	logger   types.Logger
}

// NewService creates a Service holding the built-in defaults.
// Call Load to rehydrate persisted state.
func NewService(store kvstore.Store, logger types.Logger) *Service {
	return &Service{
		products: catalog.DefaultProducts(),
		settings: catalog.DefaultSettings(),
		store:    store,
		logger:   logger,
	}
}

// Load reads both collections from storage. Missing or unreadable values
// fall back to the defaults; errors are logged, never returned.
func (s *Service) Load(ctx context.Context) {
	products := catalog.DefaultProducts()
	if raw, err := s.store.GetRaw(ctx, KeyProducts); err != nil {
		s.logger.Warn("Failed to read products, using defaults", "error", err)
	} else if raw != nil {
		if decoded, err := catalog.DecodeProducts(raw); err != nil {
			s.logger.Warn("Stored products unreadable, using defaults", "error", err)
		} else {
			products = decoded
		}
	}

	settings := catalog.DefaultSettings()
	if raw, err := s.store.GetRaw(ctx, KeySettings); err != nil {
		s.logger.Warn("Failed to read settings, using defaults", "error", err)
	} else if raw != nil {
		if decoded, err := catalog.DecodeSettings(raw); err != nil {
			s.logger.Warn("Stored settings unreadable, using defaults", "error", err)
		} else {
			settings = decoded
		}
	}

	s.mu.Lock()
	s.products = products
	s.settings = settings
	s.mu.Unlock()

	s.logger.Info("Catalog loaded", "products", len(products))
}

// ListProducts returns the catalog in insertion order.
func (s *Service) ListProducts() []catalog.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyProducts()
}

// Product returns the product with id.
func (s *Service) Product(id int) (catalog.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}

// AddProduct appends a product with id max+1, or 1 for an empty catalog.
func (s *Service) AddProduct(ctx context.Context, in catalog.ProductInput) catalog.Product {
	s.mu.Lock()
	maxID := 0
	for _, p := range s.products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	p := in.WithID(maxID + 1)
	s.products = append(s.products, p)
	snapshot := s.copyProducts()
	s.mu.Unlock()

	s.persist(ctx, KeyProducts, snapshot)
	s.logger.Info("Product added", "id", p.ID, "name", p.Name)
	return p
}

// UpdateProduct replaces the product with the same id.
// Reports false, and changes nothing, when the id is unknown.
func (s *Service) UpdateProduct(ctx context.Context, p catalog.Product) bool {
	s.mu.Lock()
	found := false
	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = p
			found = true
			break
		}
	}
	snapshot := s.copyProducts()
	s.mu.Unlock()

	if !found {
		return false
	}
	s.persist(ctx, KeyProducts, snapshot)
	s.logger.Info("Product updated", "id", p.ID)
	return true
}

// DeleteProduct removes the product with id. Reports whether it existed.
func (s *Service) DeleteProduct(ctx context.Context, id int) bool {
	s.mu.Lock()
	kept := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	found := len(kept) != len(s.products)
	s.products = kept
	snapshot := s.copyProducts()
	s.mu.Unlock()

	if !found {
		return false
	}
	s.persist(ctx, KeyProducts, snapshot)
	s.logger.Info("Product deleted", "id", id)
	return true
}

// Settings returns the current store settings.
func (s *Service) Settings() catalog.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings replaces the store settings.
func (s *Service) UpdateSettings(ctx context.Context, settings catalog.Settings) {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	s.persist(ctx, KeySettings, settings)
	s.logger.Info("Settings updated",
		"discountActive", settings.IsDiscountActive,
		"discountPercentage", settings.DiscountPercentage)
}

// Snapshot returns products and settings read under one lock.
func (s *Service) Snapshot() ([]catalog.Product, catalog.Settings) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyProducts(), s.settings
}

// copyProducts must be called with mu held.
func (s *Service) copyProducts() []catalog.Product {
	out := make([]catalog.Product, len(s.products))
	copy(out, s.products)
	return out
}

// persist writes value under key. Failures are logged; in-memory state is kept.
func (s *Service) persist(ctx context.Context, key string, value any) {
	if err := s.store.Set(ctx, key, value); err != nil {
		s.logger.Error("Failed to persist", "key", key, "error", err)
	}
}
