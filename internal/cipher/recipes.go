package cipher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/RowanDark/cipherlab/internal/logging"
)

const recipeExt = ".yaml"

// RecipeManager handles storage and retrieval of recipes
type RecipeManager struct {
	recipes   map[string]*Recipe
	storePath string
	audit     *logging.AuditLogger
	mu        sync.RWMutex
}

// NewRecipeManager creates a new recipe manager. An empty storePath keeps
// recipes in memory only.
func NewRecipeManager(storePath string) *RecipeManager {
	return &RecipeManager{
		recipes:   make(map[string]*Recipe),
		storePath: storePath,
	}
}

// SetAuditLogger makes the manager record saved recipes.
func (rm *RecipeManager) SetAuditLogger(l *logging.AuditLogger) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.audit = l
}

// SaveRecipe stores a recipe, assigning an ID and timestamps as needed.
func (rm *RecipeManager) SaveRecipe(recipe *Recipe) error {
	if strings.TrimSpace(recipe.Name) == "" {
		return fmt.Errorf("recipe name cannot be empty")
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}
	if recipe.CreatedAt == "" {
		recipe.CreatedAt = now
	}
	recipe.UpdatedAt = now

	rm.recipes[recipe.Name] = recipe

	if rm.storePath != "" {
		if err := rm.persistRecipe(recipe); err != nil {
			return err
		}
	}

	if rm.audit != nil {
		_ = rm.audit.Emit(logging.AuditEvent{
			EventType: logging.EventRecipeSaved,
			Decision:  logging.DecisionSuccess,
			Metadata: map[string]any{
				"recipe_id": recipe.ID,
				"name":      recipe.Name,
				"steps":     len(recipe.Pipeline.Operations),
			},
		})
	}
	return nil
}

// GetRecipe retrieves a recipe by name
func (rm *RecipeManager) GetRecipe(name string) (*Recipe, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	recipe, exists := rm.recipes[name]
	return recipe, exists
}

// ListRecipes returns all recipes sorted by name.
func (rm *RecipeManager) ListRecipes() []*Recipe {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	recipes := make([]*Recipe, 0, len(rm.recipes))
	for _, recipe := range rm.recipes {
		recipes = append(recipes, recipe)
	}
	slices.SortFunc(recipes, func(a, b *Recipe) int {
		return strings.Compare(a.Name, b.Name)
	})
	return recipes
}

// DeleteRecipe removes a recipe
func (rm *RecipeManager) DeleteRecipe(name string) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	delete(rm.recipes, name)

	if rm.storePath != "" {
		recipePath := filepath.Join(rm.storePath, sanitizeFilename(name)+recipeExt)
		if err := os.Remove(recipePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete recipe file: %w", err)
		}
	}

	return nil
}

// LoadRecipes loads all recipes from the store path
func (rm *RecipeManager) LoadRecipes() error {
	if rm.storePath == "" {
		return nil
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	entries, err := os.ReadDir(rm.storePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read recipes directory: %w", err)
	}

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != recipeExt && ext != ".yml") {
			continue
		}

		recipePath := filepath.Join(rm.storePath, entry.Name())
		data, err := os.ReadFile(recipePath)
		if err != nil {
			return fmt.Errorf("failed to read recipe %s: %w", entry.Name(), err)
		}

		var recipe Recipe
		if err := yaml.Unmarshal(data, &recipe); err != nil {
			return fmt.Errorf("failed to parse recipe %s: %w", entry.Name(), err)
		}
		if recipe.Name == "" {
			return fmt.Errorf("recipe %s has no name", entry.Name())
		}

		rm.recipes[recipe.Name] = &recipe
	}

	return nil
}

// persistRecipe writes a single recipe to disk
func (rm *RecipeManager) persistRecipe(recipe *Recipe) error {
	if err := os.MkdirAll(rm.storePath, 0o755); err != nil {
		return fmt.Errorf("failed to create recipes directory: %w", err)
	}

	data, err := yaml.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("failed to serialize recipe: %w", err)
	}

	recipePath := filepath.Join(rm.storePath, sanitizeFilename(recipe.Name)+recipeExt)
	if err := os.WriteFile(recipePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write recipe file: %w", err)
	}

	return nil
}

// sanitizeFilename converts a recipe name to a safe filename
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "recipe"
	}
	return b.String()
}

// SearchRecipes finds recipes whose name, description or tags contain query,
// ignoring case.
func (rm *RecipeManager) SearchRecipes(query string) []*Recipe {
	query = strings.ToLower(query)
	matches := func(s string) bool {
		return strings.Contains(strings.ToLower(s), query)
	}

	results := make([]*Recipe, 0)
	for _, recipe := range rm.ListRecipes() {
		if matches(recipe.Name) || matches(recipe.Description) || slices.ContainsFunc(recipe.Tags, matches) {
			results = append(results, recipe)
		}
	}
	return results
}
