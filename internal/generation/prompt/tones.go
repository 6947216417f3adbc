package prompt

import "github.com/samber/lo"

// Tone is a short descriptor steering the register of the generated text.
type Tone string

// Tones is the immutable catalog of registers. One is drawn uniformly at
// random per request, optionally excluding a caller-supplied set.
var Tones = []Tone{
	"optimistic",
	"bold",
	"empathetic",
	"practical",
	"curious",
	"confident",
	"witty",
	"direct",
	"thoughtful",
	"energetic",
}

// pickTone draws one tone uniformly at random from the catalog minus the
// exclusions. If the exclusions cover the entire catalog, the draw falls
// back to the full catalog rather than failing.
func (b *Builder) pickTone(exclude []string) Tone {
	excluded := make(map[Tone]struct{}, len(exclude))
	for _, name := range exclude {
		excluded[Tone(name)] = struct{}{}
	}

	candidates := lo.Filter(Tones, func(t Tone, _ int) bool {
		_, skip := excluded[t]
		return !skip
	})
	if len(candidates) == 0 {
		candidates = Tones
	}

	return candidates[b.intn(len(candidates))]
}

// pickArchetype draws one hook archetype uniformly at random.
func (b *Builder) pickArchetype() HookArchetype {
	return Archetypes[b.intn(len(Archetypes))]
}
