package auth

import "sync"

// TokenRegistry tracks the refresh tokens currently accepted for exchange.
// A token is usable only while registered; logout revokes it. Implementations
// must be safe for concurrent use.
type TokenRegistry interface {
	Register(token string)
	IsValid(token string) bool
	Revoke(token string)
}

// MemoryRegistry is a process-local TokenRegistry. It starts empty and holds
// nothing across restarts, so every outstanding refresh token dies with the
// process.
type MemoryRegistry struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

var _ TokenRegistry = (*MemoryRegistry)(nil)

// NewMemoryRegistry returns an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{tokens: make(map[string]struct{})}
}

func (r *MemoryRegistry) Register(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = struct{}{}
}

func (r *MemoryRegistry) IsValid(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tokens[token]
	return ok
}

// Revoke removes the token; revoking an absent token is a no-op.
func (r *MemoryRegistry) Revoke(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
}
