package synth

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/grafana/dispatchgen/model"
)

// Dispatcher returns the declarations that serve requests for iface: the
// service interface, the response union when the shape is [Disjoint], the
// dispatcher with its readiness check and call operation, and the dispatch
// method of every request variant.
//
// The dispatch methods are what make the match exhaustive: a variant
// without one does not implement the request interface and cannot be
// passed to Call.
func Dispatcher(iface *model.Interface) []byte {
	n := names{iface}
	resp := responseType(iface)
	shape := ShapeOf(iface)
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "// %s serves %ss.\n", n.service(), n.request())
	fmt.Fprintf(&buf, "type %s interface {\n", n.service())
	buf.WriteString("\t// Ready returns nil once the service can accept a call. Callers must\n")
	buf.WriteString("\t// invoke it before every call.\n")
	buf.WriteString("\tReady(ctx context.Context) error\n\n")
	buf.WriteString("\t// Call serves req.\n")
	fmt.Fprintf(&buf, "\tCall(ctx context.Context, req %s) (%s, error)\n", n.request(), resp)
	buf.WriteString("}\n\n")

	if shape == Disjoint {
		writeResponses(&buf, iface)
	}

	fmt.Fprintf(&buf, "// %s implements %s by calling the matching method of %s.\n", n.dispatcher(), n.service(), iface.Name)
	buf.WriteString("// It holds no state of its own and is safe for concurrent use whenever the\n")
	buf.WriteString("// implementation is.\n")
	fmt.Fprintf(&buf, "type %s struct {\n\timpl %s\n}\n\n", n.dispatcher(), iface.ImplType())
	fmt.Fprintf(&buf, "var _ %s = (*%s)(nil)\n\n", n.service(), n.dispatcher())

	fmt.Fprintf(&buf, "// %s returns a dispatcher calling the methods of impl.\n", n.ctor(n.dispatcher()))
	fmt.Fprintf(&buf, "func %s(impl %s) *%s {\n", n.ctor(n.dispatcher()), iface.ImplType(), n.dispatcher())
	fmt.Fprintf(&buf, "\treturn &%s{impl: impl}\n}\n\n", n.dispatcher())

	buf.WriteString("// Ready always returns nil.\n")
	fmt.Fprintf(&buf, "func (d *%s) Ready(ctx context.Context) error {\n\treturn nil\n}\n\n", n.dispatcher())

	fmt.Fprintf(&buf, "// Call invokes the method of %s matching req and returns its results.\n", iface.Name)
	fmt.Fprintf(&buf, "func (d *%s) Call(ctx context.Context, req %s) (%s, error) {\n", n.dispatcher(), n.request(), resp)
	fmt.Fprintf(&buf, "\treturn req.%s(ctx, d.impl)\n}\n\n", n.dispatch())

	for _, m := range iface.Methods {
		fmt.Fprintf(&buf, "func (r %s) %s(ctx context.Context, impl %s) (%s, error) {\n", n.variant(m), n.dispatch(), iface.ImplType(), resp)
		call := methodCall(m)
		switch {
		case shape == Shared && m.HasSuccess():
			fmt.Fprintf(&buf, "\treturn %s\n", call)
		case shape == Shared:
			fmt.Fprintf(&buf, "\treturn struct{}{}, %s\n", call)
		case m.HasSuccess():
			fmt.Fprintf(&buf, "\tvalue, err := %s\n", call)
			fmt.Fprintf(&buf, "\treturn %s{Value: value}, err\n", n.responseVariant(m))
		default:
			fmt.Fprintf(&buf, "\terr := %s\n", call)
			fmt.Fprintf(&buf, "\treturn %s{}, err\n", n.responseVariant(m))
		}
		buf.WriteString("}\n\n")
	}

	return buf.Bytes()
}

func writeResponses(buf *bytes.Buffer, iface *model.Interface) {
	n := names{iface}

	fmt.Fprintf(buf, "// %s is returned by %s.Call. Only the %s*Response\n", n.response(), n.service(), iface.Name)
	buf.WriteString("// types declared in this file implement it.\n")
	fmt.Fprintf(buf, "type %s interface {\n\t%s()\n}\n\n", n.response(), n.isResponse())

	for _, m := range iface.Methods {
		fmt.Fprintf(buf, "// %s holds the result of %s.%s.\n", n.responseVariant(m), iface.Name, m.Name)
		if m.HasSuccess() {
			fmt.Fprintf(buf, "type %s struct {\n\tValue %s\n}\n\n", n.responseVariant(m), m.Success)
		} else {
			fmt.Fprintf(buf, "type %s struct{}\n\n", n.responseVariant(m))
		}
		fmt.Fprintf(buf, "func (%s) %s() {}\n\n", n.responseVariant(m), n.isResponse())
	}
}

// methodCall renders the call of m on impl with the fields of r.
func methodCall(m model.Method) string {
	args := make([]string, 0, len(m.Params)+1)
	if m.Context {
		args = append(args, "ctx")
	}
	for _, p := range m.Params {
		arg := "r." + p.Field
		if p.Variadic {
			arg += "..."
		}
		args = append(args, arg)
	}
	return fmt.Sprintf("impl.%s(%s)", m.Name, strings.Join(args, ", "))
}
