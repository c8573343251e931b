package synth

import (
	"go/token"

	"github.com/grafana/dispatchgen/model"
)

// names derives every identifier the synthesizers emit for one interface.
// All of them are prefixed with the interface name so that several
// interfaces can share a package.
type names struct {
	iface *model.Interface
}

func (n names) request() string {
	return n.iface.Name + "Request"
}

func (n names) variant(m model.Method) string {
	return n.iface.Name + m.Name + "Request"
}

func (n names) response() string {
	return n.iface.Name + "Response"
}

func (n names) responseVariant(m model.Method) string {
	return n.iface.Name + m.Name + "Response"
}

func (n names) service() string {
	return n.iface.Name + "Service"
}

func (n names) dispatcher() string {
	return n.iface.Name + "Dispatcher"
}

func (n names) client() string {
	return n.iface.Name + "Client"
}

// dispatch is the unexported method sealing the request union.
func (n names) dispatch() string {
	return "dispatch" + model.ExportName(n.iface.Name)
}

// isResponse is the unexported method sealing the response union.
func (n names) isResponse() string {
	return "is" + model.ExportName(n.iface.Name) + "Response"
}

// ctor returns the constructor name for typ, exported only when typ is.
func (n names) ctor(typ string) string {
	if token.IsExported(typ) {
		return "New" + typ
	}
	return "new" + model.ExportName(typ)
}

// declared returns every package-level identifier generated for the
// interface.
func (n names) declared() []string {
	out := []string{
		n.request(),
		n.service(),
		n.dispatcher(),
		n.ctor(n.dispatcher()),
		n.client(),
		n.ctor(n.client()),
	}
	for _, m := range n.iface.Methods {
		out = append(out, n.variant(m))
	}
	if ShapeOf(n.iface) == Disjoint {
		out = append(out, n.response())
		for _, m := range n.iface.Methods {
			out = append(out, n.responseVariant(m))
		}
	}
	return out
}

// fresh returns base, or base with trailing underscores, so that it does
// not collide with any name in taken. The result is added to taken.
func fresh(base string, taken map[string]bool) string {
	name := base
	for taken[name] {
		name += "_"
	}
	taken[name] = true
	return name
}
