package config

import (
	"sort"

	"github.com/dshills/tinkering/internal/config/loader"
)

// Standard priority levels for configuration layers.
// Higher values override lower values during merging.
const (
	PriorityBuiltin = 0
	PriorityUser    = 100
	PriorityProject = 200
	PriorityEnv     = 500
	PriorityFlags   = 600
)

// Layer is one source of configuration values.
type Layer struct {
	// Name identifies the layer ("defaults", "user", "project", "env", "flags").
	Name string

	// Priority orders layers during merging.
	Priority int

	// Path is the file the layer was read from, if any.
	Path string

	// Data holds the layer's nested values.
	Data map[string]any
}

// layerStack holds layers sorted by ascending priority.
type layerStack struct {
	layers []*Layer
	merged map[string]any
}

// set adds or replaces the layer with the same name.
func (s *layerStack) set(l *Layer) {
	s.merged = nil
	for i, existing := range s.layers {
		if existing.Name == l.Name {
			s.layers[i] = l
			return
		}
	}
	s.layers = append(s.layers, l)
	sort.SliceStable(s.layers, func(i, j int) bool {
		return s.layers[i].Priority < s.layers[j].Priority
	})
}

func (s *layerStack) remove(name string) {
	s.merged = nil
	for i, l := range s.layers {
		if l.Name == name {
			s.layers = append(s.layers[:i], s.layers[i+1:]...)
			return
		}
	}
}

func (s *layerStack) get(name string) *Layer {
	for _, l := range s.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// merge returns the merged view, cached until the stack changes.
func (s *layerStack) merge() map[string]any {
	if s.merged != nil {
		return s.merged
	}
	merged := make(map[string]any)
	for _, l := range s.layers {
		merged = loader.DeepMerge(merged, l.Data)
	}
	s.merged = merged
	return merged
}
