package resource

import "fmt"

// Meta is the pagination metadata of a collection response.
type Meta struct {
	CurrentPage int  `json:"current_page"`
	NextPage    *int `json:"next_page"`
	PrevPage    *int `json:"prev_page"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"total_pages"`
}

// HasNext reports whether another page follows.
func (m Meta) HasNext() bool {
	return m.NextPage != nil
}

// HasPrev reports whether a page precedes the current one.
func (m Meta) HasPrev() bool {
	return m.PrevPage != nil
}

// Check verifies the pagination invariant: next_page is null exactly when
// the current page is the last one. Empty result sets (total_pages == 0)
// are accepted with no next page.
func (m Meta) Check() error {
	last := m.CurrentPage >= m.TotalPages

	if last && m.NextPage != nil {
		return fmt.Errorf("page %d of %d must not have a next page", m.CurrentPage, m.TotalPages)
	}

	if !last && m.NextPage == nil {
		return fmt.Errorf("page %d of %d must have a next page", m.CurrentPage, m.TotalPages)
	}

	return nil
}

// Document is the envelope for a single-resource response with side-loaded
// related resources.
type Document struct {
	Data     Resource   `json:"data"`
	Included []Resource `json:"included,omitempty"`
}

// ResolveOne resolves a relationship of the primary resource against the
// document's included side-table.
func (d Document) ResolveOne(name string) (Resource, bool) {
	return ResolveOne(d.Data.Relationship(name), d.Included, nil)
}

// ResolveMany resolves a collection relationship of the primary resource.
func (d Document) ResolveMany(name string) []Resource {
	return ResolveMany(d.Data.Relationship(name), d.Included, nil)
}

// Page is the envelope for a paginated collection response.
type Page struct {
	Data     []Resource `json:"data"`
	Included []Resource `json:"included,omitempty"`
	Meta     Meta       `json:"meta"`
}

// Resolve resolves a relationship against the page, searching the included
// side-table first and the primary data second.
func (p Page) Resolve(rel Relationship) []Resource {
	return ResolveMany(rel, p.Included, p.Data)
}
