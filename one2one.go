package dispatchgen

// OneToOne is a Jenny that accepts one input and produces at most one file.
type OneToOne[Input any] interface {
	Jenny[Input]

	// Generate takes an Input and generates one [File], or none (nil) if the
	// jenny was a no-op for the provided Input.
	Generate(Input) (*File, error)
}

type o2oAdapt[AdaptedInput, OriginalInput any] struct {
	fn func(AdaptedInput) OriginalInput
	j  OneToOne[OriginalInput]
}

func (oa *o2oAdapt[AdaptedInput, OriginalInput]) JennyName() string {
	return oa.j.JennyName()
}

func (oa *o2oAdapt[AdaptedInput, OriginalInput]) Generate(t AdaptedInput) (*File, error) {
	return oa.j.Generate(oa.fn(t))
}

// AdaptOneToOne takes a OneToOne jenny that accepts a particular type as input
// (OriginalInput), and transforms it into a jenny that accepts a different type
// as input (AdaptedInput), given a function that can transform an AdaptedInput
// to an OriginalInput.
//
// Use this to make jennies reusable in other Input type contexts.
func AdaptOneToOne[AdaptedInput, OriginalInput any](j OneToOne[OriginalInput], fn func(AdaptedInput) OriginalInput) OneToOne[AdaptedInput] {
	return &o2oAdapt[AdaptedInput, OriginalInput]{
		fn: fn,
		j:  j,
	}
}
