// ABOUTME: Static access token store for the MCP endpoint
// ABOUTME: Tokens map to an agent name and are validated on every new session

package mcp

import "sync"

// TokenStore manages static MCP access tokens. Tokens come from config at
// startup and identify the agent they were issued to.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]string // token -> agent name
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		tokens: make(map[string]string),
	}
}

// Register adds a preconfigured token for the named agent.
func (s *TokenStore) Register(token, agent string) {
	s.mu.Lock()
	s.tokens[token] = agent
	s.mu.Unlock()
}

// Lookup returns the agent a token was issued to, or false if the token is
// unknown.
func (s *TokenStore) Lookup(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	agent, ok := s.tokens[token]
	return agent, ok
}
