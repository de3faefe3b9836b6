// Package lrustore implementa preferences.Store sobre un LRU en memoria.
// Al llenarse descarta la clave menos usada; sirve para dev y como cache de un solo nodo.
package lrustore

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

type Store struct {
	cache *lru.Cache
}

func New(size int) (*Store, error) {
	if size <= 0 {
		return nil, fmt.Errorf("lrustore: size must be > 0, got %d", size)
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Store{cache: c}, nil
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return "", false, nil
	}
	str, ok := v.(string)
	return str, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.cache.Add(key, value)
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.cache.Remove(key)
	return nil
}

func (s *Store) Len() int {
	return s.cache.Len()
}
