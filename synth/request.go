package synth

import (
	"bytes"
	"fmt"

	"github.com/grafana/dispatchgen/model"
)

// Request returns the declaration of the request union for iface: a sealed
// interface, and one struct per method carrying its parameters as fields in
// declared order.
func Request(iface *model.Interface) []byte {
	n := names{iface}
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "// %s is a request for one of the methods of %s. Only the\n", n.request(), iface.Name)
	fmt.Fprintf(&buf, "// %s*Request types declared in this file implement it.\n", iface.Name)
	fmt.Fprintf(&buf, "type %s interface {\n", n.request())
	fmt.Fprintf(&buf, "\t%s(ctx context.Context, impl %s) (%s, error)\n", n.dispatch(), iface.ImplType(), responseType(iface))
	buf.WriteString("}\n\n")

	for _, m := range iface.Methods {
		fmt.Fprintf(&buf, "// %s requests a call to %s.%s.\n", n.variant(m), iface.Name, m.Name)
		if len(m.Params) == 0 {
			fmt.Fprintf(&buf, "type %s struct{}\n\n", n.variant(m))
			continue
		}
		fmt.Fprintf(&buf, "type %s struct {\n", n.variant(m))
		for _, p := range m.Params {
			fmt.Fprintf(&buf, "\t%s %s\n", p.Field, p.FieldType())
		}
		buf.WriteString("}\n\n")
	}

	return buf.Bytes()
}
