package dispatchgen

// ManyToOne is a Jenny that accepts many inputs and produces at most one file.
type ManyToOne[Input any] interface {
	Jenny[Input]

	// Generate takes a slice of Input and generates one File. A nil File may
	// be returned to indicate the jenny was a no-op for the provided Inputs.
	Generate(...Input) (*File, error)
}

type m2oAdapt[AdaptedInput, OriginalInput any] struct {
	fn func(AdaptedInput) OriginalInput
	j  ManyToOne[OriginalInput]
}

func (oa *m2oAdapt[AdaptedInput, OriginalInput]) JennyName() string {
	return oa.j.JennyName()
}

func (oa *m2oAdapt[AdaptedInput, OriginalInput]) Generate(ps ...AdaptedInput) (*File, error) {
	qs := make([]OriginalInput, len(ps))
	for i, p := range ps {
		qs[i] = oa.fn(p)
	}
	return oa.j.Generate(qs...)
}

// AdaptManyToOne takes a ManyToOne jenny that accepts a particular type as input
// (OriginalInput), and transforms it into a jenny that accepts a different type
// as input (AdaptedInput), given a function that can transform an AdaptedInput
// to an OriginalInput.
//
// Use this to make jennies reusable in other Input type contexts.
func AdaptManyToOne[AdaptedInput, OriginalInput any](j ManyToOne[OriginalInput], fn func(AdaptedInput) OriginalInput) ManyToOne[AdaptedInput] {
	return &m2oAdapt[AdaptedInput, OriginalInput]{
		fn: fn,
		j:  j,
	}
}
