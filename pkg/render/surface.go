package render

// Tag keys attached to every marker primitive. Hosts translate them to their
// own tagging mechanism (data-name / data-region attributes in SVG).
const (
	TagName   = "name"
	TagRegion = "region"
)

// ClassMarker is the style class given to every marker primitive.
const ClassMarker = "province-point"

// DefaultRadius is the marker radius in canvas units.
const DefaultRadius = 5.6

// Primitive is a point created on a Surface.
type Primitive interface {
	SetPosition(x, y float64)
	SetRadius(r float64)
	Tag(key, value string)
	AddClass(class string)
	SetFocusable(focusable bool)
}

// Activatable is implemented by primitives that can show an active visual
// state. The interaction controller toggles it on engage and disengage.
type Activatable interface {
	SetActive(active bool)
}

// ClassActive is the style class of the engaged marker.
const ClassActive = "active"

// Surface is the host canvas markers are drawn on.
type Surface interface {
	// CreatePoint returns a new, detached point primitive.
	CreatePoint() Primitive
	// Append attaches p to the surface's marker container. Primitives are
	// kept in append order.
	Append(p Primitive)
}
