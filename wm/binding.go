package wm

import (
	"log"
	"sync"
)

// bindingKey identifies a binding by its modifier mask and keysym.
type bindingKey struct {
	mods   uint32
	keysym uint32
}

// BindingSet holds (modifiers, keysym) → shell command bindings.
// Inserting a duplicate key replaces the stored command.
type BindingSet struct {
	mu       sync.RWMutex
	bindings map[bindingKey]string
}

// NewBindingSet returns an empty binding set.
func NewBindingSet() *BindingSet {
	return &BindingSet{bindings: make(map[bindingKey]string)}
}

// Add upserts the binding for (mods, keysym) to command.
func (b *BindingSet) Add(mods, keysym uint32, command string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bindings[bindingKey{mods, keysym}] = command
	log.Printf("wm: binding add mods=%#x keysym=%#x", mods, keysym)
}

// Lookup returns the command bound to (mods, keysym), if any.
func (b *BindingSet) Lookup(mods, keysym uint32) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	cmd, ok := b.bindings[bindingKey{mods, keysym}]
	return cmd, ok
}
