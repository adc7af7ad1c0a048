package party

import "strings"

// Known is a directory entry a party can resolve to.
type Known struct {
	ID   string
	Name string
}

// Resolver maps (id, name) pairs onto accumulated party records. Every lookup walks the
// same chain: id, then exact directory name, then case-insensitive name among parties
// already seen, then a synthetic record.
//
// A Resolver holds per-run state; create a new one for every recomputation.
type Resolver struct {
	parties   map[string]*Party
	order     []string
	names     map[string]string
	dirByName map[string]string
	dirByID   map[string]string
}

// NewResolver creates a resolver backed by a directory.
func NewResolver(directory []Known) *Resolver {
	r := &Resolver{
		parties:   make(map[string]*Party),
		names:     make(map[string]string),
		dirByName: make(map[string]string, len(directory)),
		dirByID:   make(map[string]string, len(directory)),
	}
	for _, k := range directory {
		if k.ID == "" {
			continue
		}
		r.dirByID[k.ID] = k.Name
		if name := strings.TrimSpace(k.Name); name != "" {
			if _, dup := r.dirByName[name]; !dup {
				r.dirByName[name] = k.ID
			}
		}
	}
	return r
}

// Resolve returns the party for id/name, creating it with role and syntheticID when the
// chain finds nothing. The boolean reports whether the party was created by this call.
func (r *Resolver) Resolve(id, name, role, syntheticID string) (*Party, bool) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)

	if id != "" {
		if p, ok := r.parties[id]; ok {
			return p, false
		}
		if dirName := strings.TrimSpace(r.dirByID[id]); dirName != "" {
			name = dirName
		}
		if name == "" {
			name = id
		}
		return r.add(newParty(id, name, role)), true
	}

	if name == "" {
		name = UnknownName
	}

	if dirID, ok := r.dirByName[name]; ok {
		if p, ok := r.parties[dirID]; ok {
			return p, false
		}
		return r.add(newParty(dirID, name, role)), true
	}

	if existing, ok := r.names[strings.ToLower(name)]; ok {
		return r.parties[existing], false
	}

	if p, ok := r.parties[syntheticID]; ok {
		return p, false
	}
	return r.add(newParty(syntheticID, name, role)), true
}

func (r *Resolver) add(p *Party) *Party {
	r.parties[p.ID] = p
	r.order = append(r.order, p.ID)
	key := strings.ToLower(p.Name)
	if _, taken := r.names[key]; !taken {
		r.names[key] = p.ID
	}
	return p
}

// Parties returns copies of every resolved party in first-seen order.
func (r *Resolver) Parties() []Party {
	out := make([]Party, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.parties[id])
	}
	return out
}
