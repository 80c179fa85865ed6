package hub

import "sync"

// Registry owns every live connection. An employee may hold several
// connections at once (multi-device); each gets its own connection id.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]*Client            // connection id -> client
	byUser map[string]map[string]*Client // employee id -> connection id -> client
}

func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]*Client),
		byUser: make(map[string]map[string]*Client),
	}
}

func (r *Registry) Register(c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conns[c.ID]; exists {
		return ErrDuplicateConnection
	}

	r.conns[c.ID] = c
	if r.byUser[c.EmployeeID] == nil {
		r.byUser[c.EmployeeID] = make(map[string]*Client)
	}
	r.byUser[c.EmployeeID][c.ID] = c
	return nil
}

// Unregister removes and closes the connection. Unregistering an unknown
// id is a no-op.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	c, exists := r.conns[connID]
	if exists {
		delete(r.conns, connID)
		userConns := r.byUser[c.EmployeeID]
		delete(userConns, connID)
		if len(userConns) == 0 {
			delete(r.byUser, c.EmployeeID)
		}
	}
	r.mu.Unlock()

	if exists {
		c.close()
	}
}

func (r *Registry) Get(connID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[connID]
	return c, ok
}

// LookupByUser returns every live connection of the employee.
func (r *Registry) LookupByUser(employeeID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var clients []*Client
	for _, c := range r.byUser[employeeID] {
		clients = append(clients, c)
	}
	return clients
}

// Send enqueues the message on the connection's outbound queue. It reports
// failure instead of raising so a broadcast loop can prune the member and
// keep going.
func (r *Registry) Send(connID string, env *Envelope) bool {
	r.mu.RLock()
	c, ok := r.conns[connID]
	r.mu.RUnlock()

	if !ok {
		return false
	}
	return c.Enqueue(env)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
