// Package store provides an in-memory graph store whose vertex properties can be updated in place.
package store

import (
	"sync"

	"github.com/dominikbraun/graph"
)

// CustomStore is a graph.Store which also lets the caller update the properties of a vertex.
type CustomStore[K comparable, T any] interface {
	graph.Store[K, T]
	UpdateVertex(k K, options ...func(*graph.VertexProperties)) error
}

type vertex[T any] struct {
	value      T
	properties *graph.VertexProperties
}

// MemoryStore keeps vertices in insertion order, which is also the order ListVertices returns.
type MemoryStore[K comparable, T any] struct {
	lock     sync.RWMutex
	vertices map[K]*vertex[T]
	order    []K

	outEdges map[K]map[K]graph.Edge[K] // source -> target
	inEdges  map[K]map[K]graph.Edge[K] // target -> source
}

func NewMemoryStore[K comparable, T any]() CustomStore[K, T] {
	return &MemoryStore[K, T]{
		vertices: make(map[K]*vertex[T]),
		outEdges: make(map[K]map[K]graph.Edge[K]),
		inEdges:  make(map[K]map[K]graph.Edge[K]),
	}
}

func (s *MemoryStore[K, T]) AddVertex(k K, t T, p graph.VertexProperties) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.vertices[k]; ok {
		return graph.ErrVertexAlreadyExists
	}

	if p.Attributes == nil {
		p.Attributes = make(map[string]string)
	}

	s.vertices[k] = &vertex[T]{value: t, properties: &p}
	s.order = append(s.order, k)

	return nil
}

func (s *MemoryStore[K, T]) ListVertices() ([]K, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return append([]K(nil), s.order...), nil
}

func (s *MemoryStore[K, T]) VertexCount() (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return len(s.vertices), nil
}

func (s *MemoryStore[K, T]) Vertex(k K) (T, graph.VertexProperties, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	v, ok := s.vertices[k]
	if !ok {
		var zero T

		return zero, graph.VertexProperties{}, graph.ErrVertexNotFound
	}

	return v.value, *v.properties, nil
}

func (s *MemoryStore[K, T]) RemoveVertex(k K) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.vertices[k]; !ok {
		return graph.ErrVertexNotFound
	}

	if len(s.inEdges[k]) > 0 || len(s.outEdges[k]) > 0 {
		return graph.ErrVertexHasEdges
	}

	delete(s.inEdges, k)
	delete(s.outEdges, k)
	delete(s.vertices, k)

	for i, hash := range s.order {
		if hash == k {
			s.order = append(s.order[:i], s.order[i+1:]...)

			break
		}
	}

	return nil
}

// UpdateVertex applies options to the properties of the vertex k.
func (s *MemoryStore[K, T]) UpdateVertex(k K, options ...func(*graph.VertexProperties)) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	v, ok := s.vertices[k]
	if !ok {
		return graph.ErrVertexNotFound
	}

	for _, opt := range options {
		opt(v.properties)
	}

	return nil
}

func (s *MemoryStore[K, T]) setEdge(sourceHash, targetHash K, edge graph.Edge[K]) {
	if _, ok := s.outEdges[sourceHash]; !ok {
		s.outEdges[sourceHash] = make(map[K]graph.Edge[K])
	}

	if _, ok := s.inEdges[targetHash]; !ok {
		s.inEdges[targetHash] = make(map[K]graph.Edge[K])
	}

	s.outEdges[sourceHash][targetHash] = edge
	s.inEdges[targetHash][sourceHash] = edge
}

func (s *MemoryStore[K, T]) AddEdge(sourceHash, targetHash K, edge graph.Edge[K]) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.setEdge(sourceHash, targetHash, edge)

	return nil
}

func (s *MemoryStore[K, T]) UpdateEdge(sourceHash, targetHash K, edge graph.Edge[K]) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.outEdges[sourceHash][targetHash]; !ok {
		return graph.ErrEdgeNotFound
	}

	s.setEdge(sourceHash, targetHash, edge)

	return nil
}

func (s *MemoryStore[K, T]) RemoveEdge(sourceHash, targetHash K) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.inEdges[targetHash], sourceHash)
	delete(s.outEdges[sourceHash], targetHash)

	return nil
}

func (s *MemoryStore[K, T]) Edge(sourceHash, targetHash K) (graph.Edge[K], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	edge, ok := s.outEdges[sourceHash][targetHash]
	if !ok {
		return graph.Edge[K]{}, graph.ErrEdgeNotFound
	}

	return edge, nil
}

// ListEdges returns the edges grouped by source vertex, in vertex insertion order.
func (s *MemoryStore[K, T]) ListEdges() ([]graph.Edge[K], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	res := make([]graph.Edge[K], 0)

	for _, source := range s.order {
		for _, target := range s.order {
			if edge, ok := s.outEdges[source][target]; ok {
				res = append(res, edge)
			}
		}
	}

	return res, nil
}

var _ CustomStore[string, string] = (*MemoryStore[string, string])(nil)
