package model

import (
	"errors"
	"fmt"
	"go/scanner"
	"go/token"

	"github.com/hashicorp/go-multierror"
)

// ParseError is a problem with the declaration dispatchgen was asked to
// transform. It is always reported at generation time.
type ParseError struct {
	Pos token.Position
	Msg string
}

func (e *ParseError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

// ParseErrors returns every *ParseError contained in err.
func ParseErrors(err error) []*ParseError {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		var out []*ParseError
		for _, e := range merr.Errors {
			out = append(out, ParseErrors(e)...)
		}
		return out
	}
	var perr *ParseError
	if errors.As(err, &perr) {
		return []*ParseError{perr}
	}
	return nil
}

func fromScanner(err error) error {
	var list scanner.ErrorList
	if !errors.As(err, &list) {
		return err
	}
	var result *multierror.Error
	for _, e := range list {
		result = multierror.Append(result, &ParseError{Pos: e.Pos, Msg: e.Msg})
	}
	return result.ErrorOrNil()
}
