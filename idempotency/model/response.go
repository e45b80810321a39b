package model

import "net/http"

// BodyKind discriminates the response body variants.
type BodyKind string

const (
	// BodyKindPlain is a plain payload written as-is.
	BodyKindPlain BodyKind = "plain"
	// BodyKindCreatedAtRoute is a payload created at a named route; the
	// Location header is rebuilt from the route name and values on replay.
	BodyKindCreatedAtRoute BodyKind = "created_at_route"
)

// Valid reports whether k is a known body kind.
func (k BodyKind) Valid() bool {
	switch k {
	case BodyKindPlain, BodyKindCreatedAtRoute:
		return true
	}
	return false
}

// Body is the produced result of a protected operation.
type Body struct {
	Kind        BodyKind          `json:"ResultType"`
	Value       []byte            `json:"ResultValue,omitempty"`
	RouteName   string            `json:"ResultRouteName,omitempty"`
	RouteValues map[string]string `json:"ResultRouteValues,omitempty"`
}

// PlainBody wraps value in the plain variant.
func PlainBody(value []byte) *Body {
	return &Body{Kind: BodyKindPlain, Value: value}
}

// CreatedAtRouteBody wraps value in the created-at-route variant.
func CreatedAtRouteBody(routeName string, routeValues map[string]string, value []byte) *Body {
	return &Body{
		Kind:        BodyKindCreatedAtRoute,
		Value:       value,
		RouteName:   routeName,
		RouteValues: routeValues,
	}
}

// Clone returns a deep copy of b.
func (b *Body) Clone() *Body {
	if b == nil {
		return nil
	}
	out := &Body{Kind: b.Kind, RouteName: b.RouteName}
	if b.Value != nil {
		out.Value = append([]byte(nil), b.Value...)
	}
	if b.RouteValues != nil {
		out.RouteValues = make(map[string]string, len(b.RouteValues))
		for k, v := range b.RouteValues {
			out.RouteValues[k] = v
		}
	}
	return out
}

// ResponseModel is a framework neutral capture of a completed response.
type ResponseModel struct {
	StatusCode  int
	ContentType string
	Headers     http.Header
	Body        *Body
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *ResponseModel) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}
