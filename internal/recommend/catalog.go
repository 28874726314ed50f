package recommend

import (
	"fmt"

	"verve/internal/models"
)

// Catalog is the immutable content library a scoring session runs
// against. It preserves load order so that equal-score ties resolve the
// same way on every call. Safe for concurrent reads after construction.
type Catalog struct {
	items []models.ContentItem
	byID  map[string]int
}

// NewCatalog builds a catalog from the given items, keeping their order.
// Duplicate content IDs keep the first occurrence.
func NewCatalog(items []models.ContentItem) *Catalog {
	c := &Catalog{
		items: make([]models.ContentItem, 0, len(items)),
		byID:  make(map[string]int, len(items)),
	}
	for _, item := range items {
		if _, exists := c.byID[item.ContentID]; exists {
			continue
		}
		c.byID[item.ContentID] = len(c.items)
		c.items = append(c.items, item)
	}
	return c
}

// Get resolves a content ID. An unknown ID is a caller contract
// violation and returns models.ErrNotFound; it is never silently scored
// as zero.
func (c *Catalog) Get(contentID string) (models.ContentItem, error) {
	idx, ok := c.byID[contentID]
	if !ok {
		return models.ContentItem{}, fmt.Errorf("content %q: %w", contentID, models.ErrNotFound)
	}
	return c.items[idx], nil
}

// Items returns the catalog contents in load order. Callers must not
// mutate the returned slice.
func (c *Catalog) Items() []models.ContentItem {
	return c.items
}

// Len returns the number of items in the catalog.
func (c *Catalog) Len() int {
	return len(c.items)
}
