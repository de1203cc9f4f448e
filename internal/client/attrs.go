package client

import (
	"encoding/json"
	"time"

	"github.com/ezsplit/ezsplit-go/internal/apierror"
	"github.com/ezsplit/ezsplit-go/internal/resource"
	"github.com/shopspring/decimal"
)

// Attribute readers for the loosely-typed resource envelopes. Every resource
// is parsed into a typed record at the API boundary; a payload whose
// attributes have the wrong shape is rejected with KindServer instead of
// propagating zero values silently.

func stringAttr(r resource.Resource, key string) (string, error) {
	v, ok := r.Attributes[key]
	if !ok || v == nil {
		return "", nil
	}

	s, ok := v.(string)
	if !ok {
		return "", malformed(r, key, v)
	}

	return s, nil
}

func optionalStringAttr(r resource.Resource, key string) (*string, error) {
	v, ok := r.Attributes[key]
	if !ok || v == nil {
		return nil, nil
	}

	s, ok := v.(string)
	if !ok {
		return nil, malformed(r, key, v)
	}

	return &s, nil
}

func boolAttr(r resource.Resource, key string) (bool, error) {
	v, ok := r.Attributes[key]
	if !ok || v == nil {
		return false, nil
	}

	b, ok := v.(bool)
	if !ok {
		return false, malformed(r, key, v)
	}

	return b, nil
}

// decimalAttr accepts both JSON numbers and string-encoded decimals, since
// the backend serializes money either way depending on the endpoint.
func decimalAttr(r resource.Resource, key string) (decimal.Decimal, error) {
	v, ok := r.Attributes[key]
	if !ok || v == nil {
		return decimal.Zero, nil
	}

	switch n := v.(type) {
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero, malformed(r, key, v)
		}

		return d, nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, malformed(r, key, v)
		}

		return d, nil
	default:
		return decimal.Zero, malformed(r, key, v)
	}
}

// timeAttr parses RFC 3339 timestamps, returning the zero time for absent
// values.
func timeAttr(r resource.Resource, key string) (time.Time, error) {
	s, err := stringAttr(r, key)
	if err != nil || s == "" {
		return time.Time{}, err
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, malformed(r, key, s)
	}

	return t, nil
}

func malformed(r resource.Resource, key string, v any) error {
	return apierror.New(apierror.KindServer, "malformed %s resource %s: attribute %q has unexpected value %v", r.Type, r.ID, key, v)
}

// relationshipID returns the id of a singular relationship, empty when the
// relationship is absent.
func relationshipID(r resource.Resource, name string) string {
	ref, ok := r.Relationship(name).One()
	if !ok {
		return ""
	}

	return ref.ID
}
