package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// ErrRecipeFailed carries the customer-facing message for any recipe failure.
var ErrRecipeFailed = errors.New("فشل في توليد الوصفة. يرجى المحاولة مرة أخرى.")

// ErrInvalidDifficulty is returned for a difficulty outside easy|medium|hard.
var ErrInvalidDifficulty = errors.New("difficulty must be easy, medium or hard")

// Difficulty is the recipe difficulty tier.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DateTypes are the varieties offered by the recipe form.
var DateTypes = []string{"عجوة", "سكري", "مجدول", "صقعي", "خلاص"}

// DefaultDateType is preselected by the recipe form.
const DefaultDateType = "سكري"

// RecipeTimeout bounds a shared upstream recipe call.
const RecipeTimeout = 60 * time.Second

const recipeSystemInstruction = "You are a professional gourmet chef specializing in Middle Eastern sweets and dates. You speak fluent, appetizing Arabic."

// RecipeRequest asks for a recipe featuring a date variety.
type RecipeRequest struct {
	DateType   string     `json:"dateType"`
	Difficulty Difficulty `json:"difficulty"`
}

// Normalize fills defaults and validates the difficulty.
func (r RecipeRequest) Normalize() (RecipeRequest, error) {
	r.DateType = strings.TrimSpace(r.DateType)
	if r.DateType == "" {
		r.DateType = DefaultDateType
	}
	switch r.Difficulty {
	case "":
		r.Difficulty = DifficultyEasy
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return r, ErrInvalidDifficulty
	}
	return r, nil
}

// Recipe is the structured model output.
type Recipe struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     string   `json:"prepTime"`
}

func recipePrompt(r RecipeRequest) string {
	return fmt.Sprintf(
		"Create a creative dessert or snack recipe using \"%s\" dates.\n"+
			"The difficulty level should be \"%s\".\n"+
			"The output must be in Arabic.\n"+
			"Be creative and highlight the flavor profile of this specific date.",
		r.DateType, string(r.Difficulty))
}

func recipeSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title": {
				Type:        genai.TypeString,
				Description: "The name of the recipe in Arabic",
			},
			"description": {
				Type:        genai.TypeString,
				Description: "A short, appetizing description in Arabic",
			},
			"ingredients": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "List of ingredients with quantities in Arabic",
			},
			"instructions": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Step by step instructions in Arabic",
			},
			"prepTime": {
				Type:        genai.TypeString,
				Description: "Preparation time in Arabic (e.g., 15 دقيقة)",
			},
		},
		Required: []string{"title", "description", "ingredients", "instructions", "prepTime"},
	}
}

// GenerateRecipe asks the model for a recipe. Identical in-flight requests
// share one upstream call, which runs detached from any single caller and is
// bounded by RecipeTimeout. A caller whose ctx ends stops waiting without
// cancelling the call for the others. Every failure is reported as ErrRecipeFailed.
func (s *Service) GenerateRecipe(ctx context.Context, req RecipeRequest) (*Recipe, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	key := req.DateType + "|" + string(req.Difficulty)
	ch := s.sfGroup.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), RecipeTimeout)
		defer cancel()
		return s.generateRecipe(callCtx, req)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrRecipeFailed, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			s.logger.Error("Recipe generation failed", "dateType", req.DateType, "difficulty", req.Difficulty, "error", res.Err)
			return nil, fmt.Errorf("%w: %v", ErrRecipeFailed, res.Err)
		}
		if res.Shared {
			s.logger.Debug("Recipe request shared", "key", key)
		}
		recipe := *res.Val.(*Recipe)
		return &recipe, nil
	}
}

func (s *Service) generateRecipe(ctx context.Context, req RecipeRequest) (*Recipe, error) {
	if s.generator == nil {
		return nil, ErrNotConfigured
	}

	resp, err := s.generator.GenerateContent(ctx, s.model,
		[]*genai.Content{genai.NewContentFromText(recipePrompt(req), genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(recipeSystemInstruction, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    recipeSchema(),
		})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, errors.New("empty response from model")
	}

	var recipe Recipe
	if err := json.Unmarshal([]byte(text), &recipe); err != nil {
		return nil, fmt.Errorf("decode recipe: %w", err)
	}
	if recipe.Title == "" {
		return nil, errors.New("recipe without title")
	}
	return &recipe, nil
}
