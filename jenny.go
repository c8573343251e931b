// Package dispatchgen turns a Go type and its methods into a request/dispatch
// layer: a closed union of request values, a dispatcher that routes each
// request back to its method, and a client whose proxy methods keep the
// original call signatures.
//
// Generation is organized in jennies. Each jenny turns an input, here a
// [model.Interface], into a [File]. A [JennyList] runs jennies in order,
// applies postprocessors such as [GoFormat] and collects the results in an
// [FS], which can write them to disk or verify that disk is up to date.
package dispatchgen

// A Jenny is a dispatchgen code generator.
//
// Each Jenny works with exactly one type of input to its code generation, as
// indicated by type parameter. dispatchgen follows a naming convention of
// naming these type parameters "Input" as an indicator for humans that a
// particular type parameter is used in this way.
//
// Each Jenny takes either one or many Inputs and produces zero or one output
// file. Go's generic system does not allow expressing that choice as part of
// the Jenny interface itself; see [OneToOne] and [ManyToOne].
type Jenny[Input any] interface {
	// JennyName returns the name of the generator.
	JennyName() string
}

// NamedJenny includes just the JennyName method. It is the non-generic
// form of [Jenny] used to record which jennies produced a [File].
type NamedJenny interface {
	JennyName() string
}
