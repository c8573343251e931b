package dispatchgen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grafana/dispatchgen/model"
	"github.com/grafana/dispatchgen/synth"
	"golang.org/x/tools/imports"
)

// PackageFile is the default name of the file written by [PackageJenny].
const PackageFile = "dispatch_gen.go"

// CompanionPath returns the default path of the file generated for iface by
// [DispatchJenny].
func CompanionPath(iface *model.Interface) string {
	return strings.ToLower(iface.Name) + "_dispatch.go"
}

// DispatchJenny generates the request union, dispatcher and client of one
// interface into a single file.
type DispatchJenny struct {
	Options synth.Options

	// Path returns the relative path of the generated file. CompanionPath is
	// used when nil.
	Path func(iface *model.Interface) string
}

var _ OneToOne[*model.Interface] = DispatchJenny{}

func (j DispatchJenny) JennyName() string {
	return "DispatchJenny"
}

func (j DispatchJenny) Generate(iface *model.Interface) (*File, error) {
	b, err := synth.Assemble(iface, j.Options)
	if err != nil {
		return nil, err
	}
	path := CompanionPath
	if j.Path != nil {
		path = j.Path
	}
	return NewFile(path(iface), b, j), nil
}

// PackageJenny generates the code for every interface of a package into one
// file.
type PackageJenny struct {
	Options synth.Options

	// Path of the generated file. PackageFile is used when empty.
	Path string
}

var _ ManyToOne[*model.Interface] = PackageJenny{}

func (j PackageJenny) JennyName() string {
	return "PackageJenny"
}

func (j PackageJenny) Generate(ifaces ...*model.Interface) (*File, error) {
	if len(ifaces) == 0 {
		return nil, nil
	}
	b, err := synth.AssembleAll(ifaces, j.Options)
	if err != nil {
		return nil, err
	}
	path := j.Path
	if path == "" {
		path = PackageFile
	}
	return NewFile(path, b, j), nil
}

// GoFormat returns a FileMapper that formats Go files the way gofmt does and
// sorts their imports. Files without a .go extension are left alone.
func GoFormat() FileMapper {
	opts := &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	}
	return func(f File) (File, error) {
		if filepath.Ext(f.RelativePath) != ".go" {
			return f, nil
		}
		b, err := imports.Process(f.RelativePath, f.Data, opts)
		if err != nil {
			return f, fmt.Errorf("formatting %s: %w", f.RelativePath, err)
		}
		f.Data = b
		return f, nil
	}
}
