package chat

import "github.com/samber/lo"

// Registry owns the participant set, indexed both by connection id and by
// username. At most one live participant may hold a given username at any
// instant; a fresh join with a taken username wins and evicts the old binding.
//
// Registry is not safe for concurrent use on its own ― Room serializes every
// access under its mutex.
type Registry struct {
	byConn map[string]*Participant
	byName map[string]*Participant
	order  []*Participant // join order
}

func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]*Participant),
		byName: make(map[string]*Participant),
	}
}

// Bind attaches username to connID. A connection that is already bound keeps
// its existing participant untouched (duplicate joins must not create a second
// entry). If another live connection holds username, that participant is
// evicted before the new one is registered and returned so the caller can act
// on the takeover.
func (r *Registry) Bind(connID, username string) (p, evicted *Participant) {
	if existing, ok := r.byConn[connID]; ok {
		return existing, nil
	}

	if old, ok := r.byName[username]; ok {
		evicted = old
		r.drop(old)
	}

	p = &Participant{ID: connID, Username: username}
	r.byConn[connID] = p
	r.byName[username] = p
	r.order = append(r.order, p)
	return p, evicted
}

// Unbind removes the participant bound to connID. Unknown connection ids
// return nil ― disconnecting before joining is not an error.
func (r *Registry) Unbind(connID string) *Participant {
	p, ok := r.byConn[connID]
	if !ok {
		return nil
	}
	r.drop(p)
	return p
}

func (r *Registry) LookupByConnection(connID string) *Participant {
	return r.byConn[connID]
}

// Snapshot returns a point-in-time copy of every live participant in join
// order. Mutating the returned slice never touches the registry.
func (r *Registry) Snapshot() []Participant {
	return lo.Map(r.order, func(p *Participant, _ int) Participant { return *p })
}

func (r *Registry) Len() int { return len(r.byConn) }

func (r *Registry) drop(p *Participant) {
	delete(r.byConn, p.ID)
	delete(r.byName, p.Username)
	r.order = lo.Reject(r.order, func(q *Participant, _ int) bool { return q.ID == p.ID })
}
