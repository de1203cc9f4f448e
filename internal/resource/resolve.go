package resource

// ResolveOne resolves a singular relationship against the side-loaded
// resources, falling back to the primary collection. The bool is false when
// the relationship is absent, plural, or no resource matches.
//
// Pure function: never modifies its inputs and never panics on missing data.
func ResolveOne(rel Relationship, included, primary []Resource) (Resource, bool) {
	ref, ok := rel.One()
	if !ok {
		return Resource{}, false
	}

	return lookup(ref, included, primary)
}

// ResolveMany resolves a relationship of any shape into the ordered list of
// matching resources. Pointers that match nothing are skipped.
func ResolveMany(rel Relationship, included, primary []Resource) []Resource {
	refs := rel.Refs()
	if len(refs) == 0 {
		return nil
	}

	resolved := make([]Resource, 0, len(refs))
	for _, ref := range refs {
		if r, ok := lookup(ref, included, primary); ok {
			resolved = append(resolved, r)
		}
	}

	return resolved
}

// lookup searches included first since it is the canonical side-table, then
// primary for self-referential payloads that ship without one.
func lookup(ref Ref, included, primary []Resource) (Resource, bool) {
	for _, r := range included {
		if ref.Matches(r) {
			return r, true
		}
	}

	for _, r := range primary {
		if ref.Matches(r) {
			return r, true
		}
	}

	return Resource{}, false
}

// OfType returns the resources of the given type, preserving order. Used for
// join tables like expenses_users that are filtered rather than resolved
// through a pointer.
func OfType(resources []Resource, typ string) []Resource {
	var out []Resource
	for _, r := range resources {
		if r.Type == typ {
			out = append(out, r)
		}
	}

	return out
}
