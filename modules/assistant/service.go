// Package assistant provides the recipe generator and the store chat persona
// backed by the Gemini API.
package assistant

import (
	"context"
	"errors"

	"github.com/go-monolith/mono/pkg/types"
	"golang.org/x/sync/singleflight"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for both features.
const DefaultModel = "gemini-2.5-flash"

// ErrNotConfigured is returned when no model client is available.
var ErrNotConfigured = errors.New("assistant model is not configured")

// Generator is the content generation call of the Gemini client.
// *genai.Models satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Service answers recipe and chat requests.
type Service struct {
	generator Generator
	model     string
	store     StoreSnapshot
	sfGroup   singleflight.Group // collapses identical recipe requests
	logger    types.Logger
}

// NewService creates an assistant service. A nil generator makes every
// recipe fail and every chat return the fallback reply.
func NewService(generator Generator, model string, store StoreSnapshot, logger types.Logger) *Service {
	if model == "" {
		model = DefaultModel
	}
	return &Service{
		generator: generator,
		model:     model,
		store:     store,
		logger:    logger,
	}
}

// Configured reports whether a model client is available.
func (s *Service) Configured() bool {
	return s.generator != nil
}
