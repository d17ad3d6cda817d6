package services

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/dmitrijs2005/filedrop/internal/client/repositories/metadata"
)

// MetadataPreferences stores preferences in the local metadata table.
type MetadataPreferences struct {
	repo metadata.Repository
}

func NewMetadataPreferences(repo metadata.Repository) *MetadataPreferences {
	return &MetadataPreferences{repo: repo}
}

func (p *MetadataPreferences) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := p.repo.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("read preference %s: %w", key, err)
	}
	if v == nil {
		return "", false, nil
	}
	return string(v), true, nil
}

func (p *MetadataPreferences) Set(ctx context.Context, key, value string) error {
	if err := p.repo.Set(ctx, key, []byte(value)); err != nil {
		return fmt.Errorf("write preference %s: %w", key, err)
	}
	return nil
}

// All returns every stored preference.
func (p *MetadataPreferences) All(ctx context.Context) (map[string]string, error) {
	raw, err := p.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = string(v)
	}
	return out, nil
}

// Unset removes key. Removing a missing key is not an error.
func (p *MetadataPreferences) Unset(ctx context.Context, key string) error {
	if err := p.repo.Delete(ctx, key); err != nil {
		return fmt.Errorf("unset preference %s: %w", key, err)
	}
	return nil
}

// MemoryPreferences keeps preferences for the life of the process.
type MemoryPreferences struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{values: map[string]string{}}
}

func (p *MemoryPreferences) Get(_ context.Context, key string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[key]
	return v, ok, nil
}

func (p *MemoryPreferences) Set(_ context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
	return nil
}

func (p *MemoryPreferences) All(context.Context) (map[string]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return maps.Clone(p.values), nil
}

func (p *MemoryPreferences) Unset(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.values, key)
	return nil
}
