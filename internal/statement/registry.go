// Package statement maps imported tables onto labeled financial
// statements and computes the standard ratio grid over them.
package statement

import (
	"fmt"
	"sort"
	"sync"
)

// LineItem is one labeled row of a statement layout.
type LineItem struct {
	Key      string
	Label    string
	Required bool
	Aliases  []string
}

// Definition describes a statement layout: its key, display label,
// reporting group, and line items in presentation order.
type Definition struct {
	Key   string
	Label string
	Group string
	Items []LineItem
}

// Item returns the line item with the given key.
func (d Definition) Item(key string) (LineItem, bool) {
	for _, item := range d.Items {
		if item.Key == key {
			return item, true
		}
	}
	return LineItem{}, false
}

var (
	registry   = make(map[string]Definition)
	registryMu sync.RWMutex
)

// Register adds a statement definition to the registry.
// Panics if a definition with the same key is already registered.
func Register(def Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Key]; exists {
		panic(fmt.Sprintf("statement already registered: %s", def.Key))
	}
	registry[def.Key] = def
}

// Get returns a statement definition by key.
// Returns false if not found.
func Get(key string) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered definitions.
// Sorted by group then by key for consistent ordering.
func All() []Definition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Definition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Group != result[j].Group {
			return result[i].Group < result[j].Group
		}
		return result[i].Key < result[j].Key
	})

	return result
}

// ByGroup returns all definitions for a specific group.
// Sorted by key for consistent ordering.
func ByGroup(group string) []Definition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var result []Definition
	for _, def := range registry {
		if def.Group == group {
			result = append(result, def)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// Groups returns all unique group names.
// Sorted alphabetically.
func Groups() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	for _, def := range registry {
		seen[def.Group] = true
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}

	sort.Strings(groups)
	return groups
}
