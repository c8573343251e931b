package synth

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/grafana/dispatchgen/model"
	"github.com/hashicorp/go-multierror"
)

// Options controls how generated declarations are assembled into a unit.
type Options struct {
	// Inline places the original declarations of every file contributing to
	// an interface ahead of the generated ones, producing a standalone unit
	// in place of a companion file for the original package.
	Inline bool
}

// Assemble returns the complete Go source of the unit generated for iface.
// The output is syntactically valid but not gofmt'ed.
func Assemble(iface *model.Interface, opts Options) ([]byte, error) {
	return AssembleAll([]*model.Interface{iface}, opts)
}

// AssembleAll is like [Assemble], but places the declarations generated for
// several interfaces of the same package into one unit, in the given order.
func AssembleAll(ifaces []*model.Interface, opts Options) ([]byte, error) {
	if err := validate(ifaces, opts); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// %s. DO NOT EDIT.\n\n", model.GeneratedBy)
	fmt.Fprintf(&buf, "package %s\n\n", ifaces[0].Package)

	buf.WriteString("import (\n")
	for _, im := range unitImports(ifaces, opts) {
		fmt.Fprintf(&buf, "\t%s\n", im)
	}
	buf.WriteString(")\n\n")

	if opts.Inline {
		written := make(map[string]bool)
		for _, iface := range ifaces {
			for _, src := range iface.Sources {
				if written[src.Filename] {
					continue
				}
				written[src.Filename] = true
				buf.Write(src.Body)
				buf.WriteString("\n\n")
			}
		}
	}

	for _, iface := range ifaces {
		buf.Write(Request(iface))
		buf.Write(Dispatcher(iface))
		buf.Write(Proxy(iface))
	}

	return buf.Bytes(), nil
}

func validate(ifaces []*model.Interface, opts Options) error {
	if len(ifaces) == 0 {
		return fmt.Errorf("no interfaces to assemble")
	}

	var result *multierror.Error
	seen := make(map[string]bool)
	owners := make(map[string]string)
	for i, iface := range ifaces {
		switch {
		case iface == nil:
			result = multierror.Append(result, fmt.Errorf("interface %d is nil", i))
			continue
		case len(iface.Methods) == 0:
			result = multierror.Append(result, fmt.Errorf("%s has no methods", iface.Name))
		case opts.Inline && len(iface.Sources) == 0:
			result = multierror.Append(result, fmt.Errorf("%s carries no sources to inline", iface.Name))
		}
		if seen[iface.Name] {
			result = multierror.Append(result, fmt.Errorf("%s is listed more than once", iface.Name))
		}
		seen[iface.Name] = true
		for _, id := range (names{iface}).declared() {
			if owner, ok := owners[id]; ok && owner != iface.Name {
				result = multierror.Append(result, fmt.Errorf("%s and %s both generate %s", owner, iface.Name, id))
				continue
			}
			owners[id] = iface.Name
		}
		if ifaces[0] != nil && iface.Package != ifaces[0].Package {
			result = multierror.Append(result, fmt.Errorf("%s is in package %s, expected %s", iface.Name, iface.Package, ifaces[0].Package))
		}
	}
	return result.ErrorOrNil()
}

func unitImports(ifaces []*model.Interface, opts Options) []model.Import {
	set := map[model.Import]bool{
		{Path: "context"}: true,
	}
	for _, iface := range ifaces {
		for _, im := range iface.Imports {
			set[im] = true
		}
		if !opts.Inline {
			continue
		}
		for _, src := range iface.Sources {
			for _, im := range src.Imports {
				set[im] = true
			}
		}
	}

	out := make([]model.Import, 0, len(set))
	for im := range set {
		out = append(out, im)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Name < out[j].Name
	})
	return out
}
