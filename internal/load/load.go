// Package load reads the Go package dispatchgen runs against.
package load

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"os"
	"path/filepath"

	"github.com/grafana/dispatchgen/model"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/tools/go/packages"
)

// Package is the parsed source of a single Go package.
type Package struct {
	Name string
	Dir  string
	Fset *token.FileSet

	Files []*ast.File

	// Sources maps the absolute name of each file in Files to its contents.
	Sources map[string][]byte
}

// Dir loads the package in dir. Only syntax is loaded; the package does not
// need to type-check, so stale generated files do not get in the way of
// regenerating them.
func Dir(ctx context.Context, dir string) (*Package, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     abs,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedSyntax,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to load package in %s: %w", abs, err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("expected one package in %s, found %d", abs, len(pkgs))
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		var result *multierror.Error
		for _, e := range pkg.Errors {
			result = multierror.Append(result, e)
		}
		return nil, result
	}

	out := &Package{
		Name:    pkg.Name,
		Dir:     abs,
		Fset:    pkg.Fset,
		Files:   pkg.Syntax,
		Sources: make(map[string][]byte, len(pkg.Syntax)),
	}
	for _, f := range pkg.Syntax {
		name := pkg.Fset.Position(f.Package).Filename
		b, err := os.ReadFile(name) //nolint:gosec
		if err != nil {
			return nil, fmt.Errorf("%s: error reading file: %w", name, err)
		}
		out.Sources[name] = b
	}
	return out, nil
}

// Interfaces builds the Interface of every named type, in the given order.
// Errors for all types are reported together.
func (p *Package) Interfaces(typeNames ...string) ([]*model.Interface, error) {
	var result *multierror.Error
	ifaces := make([]*model.Interface, 0, len(typeNames))
	for _, name := range typeNames {
		iface, err := model.FromFiles(p.Fset, p.Files, p.Sources, name)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		ifaces = append(ifaces, iface)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return ifaces, nil
}
