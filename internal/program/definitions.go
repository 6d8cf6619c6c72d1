package program

import "github.com/roach88/quilt/internal/ir"

// definitions stores program-level definitions keyed by name in insertion
// order. Redefining a key replaces the entry in place, keeping its position.
type definitions[T any] struct {
	keys      []string
	items     map[string]T
	cloneItem func(T) T
}

func newDefinitions[T any](cloneItem func(T) T) *definitions[T] {
	return &definitions[T]{items: make(map[string]T), cloneItem: cloneItem}
}

func (d *definitions[T]) insert(key string, v T) {
	if _, exists := d.items[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.items[key] = d.cloneItem(v)
}

func (d *definitions[T]) len() int {
	return len(d.keys)
}

func (d *definitions[T]) names() []string {
	return append([]string{}, d.keys...)
}

// ordered returns copies of every entry in insertion order.
func (d *definitions[T]) ordered() []T {
	out := make([]T, len(d.keys))
	for i, key := range d.keys {
		out[i] = d.cloneItem(d.items[key])
	}
	return out
}

func (d *definitions[T]) clone() *definitions[T] {
	out := &definitions[T]{
		keys:      append([]string(nil), d.keys...),
		items:     make(map[string]T, len(d.items)),
		cloneItem: d.cloneItem,
	}
	for key, v := range d.items {
		out.items[key] = d.cloneItem(v)
	}
	return out
}

func newMemoryRegions() *definitions[*ir.Declaration] {
	return newDefinitions((*ir.Declaration).CloneDeclaration)
}

func newFrameDefinitions() *definitions[*ir.FrameDefinition] {
	return newDefinitions((*ir.FrameDefinition).CloneFrameDefinition)
}

func newWaveformDefinitions() *definitions[*ir.WaveformDefinition] {
	return newDefinitions((*ir.WaveformDefinition).CloneWaveformDefinition)
}
