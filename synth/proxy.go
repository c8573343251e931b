package synth

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/grafana/dispatchgen/model"
)

// Proxy returns the client wrapper for iface and one proxy method per
// original method. A proxy keeps the original parameters and results, checks
// readiness once, sends the matching request variant and hands back the
// results unchanged.
func Proxy(iface *model.Interface) []byte {
	n := names{iface}
	shape := ShapeOf(iface)
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "// %s calls the methods of %s through the %s it holds.\n", n.client(), iface.Name, n.service())
	fmt.Fprintf(&buf, "type %s struct {\n\tsvc %s\n}\n\n", n.client(), n.service())

	fmt.Fprintf(&buf, "// %s returns a client sending its calls to svc.\n", n.ctor(n.client()))
	fmt.Fprintf(&buf, "func %s(svc %s) *%s {\n", n.ctor(n.client()), n.service(), n.client())
	fmt.Fprintf(&buf, "\treturn &%s{svc: svc}\n}\n\n", n.client())

	for _, m := range iface.Methods {
		writeProxy(&buf, n, shape, m)
	}

	return buf.Bytes()
}

func writeProxy(buf *bytes.Buffer, n names, shape Shape, m model.Method) {
	// Generated type names used in the body must not be shadowed by a
	// parameter.
	taken := map[string]bool{
		n.variant(m):         true,
		n.responseVariant(m): true,
	}
	ctx := "ctx"
	if m.Context {
		ctx = m.ContextName
	}
	ctx = fresh(ctx, taken)
	locals := make([]string, len(m.Params))
	for i, p := range m.Params {
		locals[i] = fresh(p.Name, taken)
	}
	recv := fresh("c", taken)
	errv := fresh("err", taken)

	params := []string{ctx + " context.Context"}
	fields := make([]string, 0, len(m.Params))
	for i, p := range m.Params {
		params = append(params, locals[i]+" "+p.DeclType())
		fields = append(fields, p.Field+": "+locals[i])
	}
	request := n.variant(m) + "{" + strings.Join(fields, ", ") + "}"
	call := fmt.Sprintf("%s.svc.Call(%s, %s)", recv, ctx, request)

	fmt.Fprintf(buf, "// %s calls %s.%s through the client's service.\n", m.Name, n.iface.Name, m.Name)

	if !m.HasSuccess() {
		fmt.Fprintf(buf, "func (%s *%s) %s(%s) error {\n", recv, n.client(), m.Name, strings.Join(params, ", "))
		fmt.Fprintf(buf, "\tif %s := %s.svc.Ready(%s); %s != nil {\n", errv, recv, ctx, errv)
		fmt.Fprintf(buf, "\t\treturn %s\n", errv)
		buf.WriteString("\t}\n")
		fmt.Fprintf(buf, "\t_, %s := %s\n", errv, call)
		fmt.Fprintf(buf, "\treturn %s\n", errv)
		buf.WriteString("}\n\n")
		return
	}

	// The success type is only named in the result list, which resolves
	// outside the scope of the parameters.
	value := fresh("value", taken)
	fmt.Fprintf(buf, "func (%s *%s) %s(%s) (%s %s, %s error) {\n", recv, n.client(), m.Name, strings.Join(params, ", "), value, m.Success, errv)
	fmt.Fprintf(buf, "\tif %s = %s.svc.Ready(%s); %s != nil {\n", errv, recv, ctx, errv)
	fmt.Fprintf(buf, "\t\treturn %s, %s\n", value, errv)
	buf.WriteString("\t}\n")
	if shape == Shared {
		fmt.Fprintf(buf, "\treturn %s\n", call)
	} else {
		resp := fresh("resp", taken)
		out := fresh("out", taken)
		fmt.Fprintf(buf, "\t%s, %s := %s\n", resp, errv, call)
		fmt.Fprintf(buf, "\t%s, _ := %s.(%s)\n", out, resp, n.responseVariant(m))
		fmt.Fprintf(buf, "\treturn %s.Value, %s\n", out, errv)
	}
	buf.WriteString("}\n\n")
}
