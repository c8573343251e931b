package synth

import "github.com/grafana/dispatchgen/model"

// Shape is the way a dispatcher reports success values through its single
// Call signature.
type Shape int

const (
	// Shared means every method has the same success type, which the
	// dispatcher returns as is.
	Shared Shape = iota

	// Disjoint means success types differ between methods. The dispatcher
	// returns a closed response union and proxies unbox their own variant.
	Disjoint
)

func (s Shape) String() string {
	switch s {
	case Shared:
		return "shared"
	case Disjoint:
		return "disjoint"
	default:
		return "unknown"
	}
}

// ShapeOf returns the response shape used for iface. An interface without
// methods is Shared.
func ShapeOf(iface *model.Interface) Shape {
	if len(iface.Methods) == 0 {
		return Shared
	}
	for _, m := range iface.Methods[1:] {
		if m.Success != iface.Methods[0].Success {
			return Disjoint
		}
	}
	return Shared
}

// responseType returns the success type of the dispatcher's Call method.
func responseType(iface *model.Interface) string {
	if ShapeOf(iface) == Disjoint {
		return names{iface}.response()
	}
	if len(iface.Methods) == 0 {
		return "struct{}"
	}
	if s := iface.Methods[0].Success; s != "" {
		return s
	}
	return "struct{}"
}
