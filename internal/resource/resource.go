// Package resource implements the generic resource envelope the backend uses
// for every entity, and the client-side join of relationship pointers against
// side-loaded resources.
package resource

import (
	"encoding/json"
	"strconv"
)

// Resource is the generic envelope for a single API entity.
type Resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    map[string]any          `json:"attributes"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// Relationship returns the named relationship, or a zero Relationship
// (RelNone) when it is absent.
func (r Resource) Relationship(name string) Relationship {
	return r.Relationships[name]
}

// resourceJSON mirrors Resource for decoding, with the ID left raw so both
// string and numeric IDs are accepted.
type resourceJSON struct {
	ID            json.RawMessage         `json:"id"`
	Type          string                  `json:"type"`
	Attributes    map[string]any          `json:"attributes"`
	Relationships map[string]Relationship `json:"relationships"`
}

func (r *Resource) UnmarshalJSON(data []byte) error {
	var raw resourceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := normalizeID(raw.ID)
	if err != nil {
		return err
	}

	*r = Resource{
		ID:            id,
		Type:          raw.Type,
		Attributes:    raw.Attributes,
		Relationships: raw.Relationships,
	}

	return nil
}

// normalizeID turns a raw JSON id into its string form. The backend is not
// consistent about sending ids as strings or numbers, so both are accepted
// and compared as strings everywhere.
func normalizeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}

	return n.String(), nil
}

// Ref is a relationship pointer to a resource by id and type.
type Ref struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Matches reports whether the resource is the one the pointer refers to.
func (ref Ref) Matches(r Resource) bool {
	return ref.ID == r.ID && ref.Type == r.Type
}

func (ref *Ref) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   json.RawMessage `json:"id"`
		Type string          `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := normalizeID(raw.ID)
	if err != nil {
		return err
	}

	*ref = Ref{ID: id, Type: raw.Type}
	return nil
}

func (ref Ref) MarshalJSON() ([]byte, error) {
	// Ids always go out as strings even if they came in as numbers.
	return json.Marshal(struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}{ID: ref.ID, Type: ref.Type})
}

// RelKind discriminates the shape of a relationship.
type RelKind int

const (
	// RelNone is an absent or null relationship.
	RelNone RelKind = iota
	// RelSingle points at exactly one resource.
	RelSingle
	// RelMany points at an ordered collection of resources.
	RelMany
)

// Relationship is a relationship reference as sent by the backend. The wire
// shape is a union ({"data": {...}} vs {"data": [...]}), which is resolved
// into a tagged variant once at decode time so consumers never re-inspect
// the shape.
type Relationship struct {
	kind RelKind
	one  Ref
	many []Ref
}

// Single constructs a singular relationship. Mostly used in tests and when
// building request payloads.
func Single(ref Ref) Relationship {
	return Relationship{kind: RelSingle, one: ref}
}

// Many constructs a collection relationship.
func Many(refs ...Ref) Relationship {
	return Relationship{kind: RelMany, many: refs}
}

// Kind returns the shape of the relationship.
func (rel Relationship) Kind() RelKind {
	return rel.kind
}

// One returns the pointer of a singular relationship. The bool is false for
// RelNone and RelMany.
func (rel Relationship) One() (Ref, bool) {
	if rel.kind != RelSingle {
		return Ref{}, false
	}

	return rel.one, true
}

// Refs returns all pointers of the relationship regardless of shape, in
// order. Empty for RelNone.
func (rel Relationship) Refs() []Ref {
	switch rel.kind {
	case RelSingle:
		return []Ref{rel.one}
	case RelMany:
		return rel.many
	default:
		return nil
	}
}

func (rel *Relationship) UnmarshalJSON(data []byte) error {
	var probe struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	raw := probe.Data
	if len(raw) == 0 || string(raw) == "null" {
		*rel = Relationship{}
		return nil
	}

	if raw[0] == '[' {
		var refs []Ref
		if err := json.Unmarshal(raw, &refs); err != nil {
			return err
		}

		*rel = Relationship{kind: RelMany, many: refs}
		return nil
	}

	var ref Ref
	if err := json.Unmarshal(raw, &ref); err != nil {
		return err
	}

	*rel = Relationship{kind: RelSingle, one: ref}
	return nil
}

func (rel Relationship) MarshalJSON() ([]byte, error) {
	switch rel.kind {
	case RelSingle:
		return json.Marshal(struct {
			Data Ref `json:"data"`
		}{Data: rel.one})
	case RelMany:
		refs := rel.many
		if refs == nil {
			refs = []Ref{}
		}

		return json.Marshal(struct {
			Data []Ref `json:"data"`
		}{Data: refs})
	default:
		return []byte(`{"data":null}`), nil
	}
}

// String implements fmt.Stringer for log output.
func (rel Relationship) String() string {
	switch rel.kind {
	case RelSingle:
		return rel.one.Type + "/" + rel.one.ID
	case RelMany:
		return "[" + strconv.Itoa(len(rel.many)) + " refs]"
	default:
		return "none"
	}
}
