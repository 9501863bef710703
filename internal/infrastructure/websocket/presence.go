package websocket

import "sync"

// Presence maps a user to the one connection that receives their targeted
// notifications. The last registration wins.
type Presence struct {
	mu     sync.Mutex
	byUser map[string]string
}

func NewPresence() *Presence {
	return &Presence{
		byUser: make(map[string]string),
	}
}

func (p *Presence) Register(userID, connID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byUser[userID] = connID
}

func (p *Presence) Resolve(userID string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	connID, ok := p.byUser[userID]
	return connID, ok
}

// Unregister drops the entry pointing at connID, if any. A connection that
// was already superseded by a newer registration leaves the entry alone.
func (p *Presence) Unregister(connID string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for userID, current := range p.byUser {
		if current == connID {
			delete(p.byUser, userID)
			return userID, true
		}
	}
	return "", false
}

func (p *Presence) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.byUser)
}
