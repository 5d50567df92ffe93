/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sequence.go
Description: Command sequence builder for the RESP fuzzing harness.
Assembles 1..maxCommands commands per iteration from decision stream
choices, applying the exclusion and focus weighting policy. Excluded
commands are filtered out of the candidate list at construction time, so no
selection path can ever produce one.
*/

package gen

import (
	"fmt"

	"github.com/kleascm/resp-fuzzer/pkg/catalog"
	"github.com/kleascm/resp-fuzzer/pkg/decision"
	"github.com/kleascm/resp-fuzzer/pkg/dict"
	"github.com/kleascm/resp-fuzzer/pkg/interfaces"
)

// maxVariadicRepeat bounds variable-arity slot expansion. More repeats would
// slow every iteration without reaching new parser states.
const maxVariadicRepeat = 4

// Builder assembles one command sequence per iteration.
type Builder struct {
	cfg   *interfaces.HarnessConfig
	cat   *catalog.Catalog
	gen   *Generator
	names []string // candidate commands, exclusions removed, table order
	focus []string // focus commands, exclusions removed
}

// NewBuilder precomputes the candidate and focus command lists.
// An exclusion set that empties the catalog is a fatal configuration error.
// Focus names not present in the catalog are dropped here; the cmd layer
// warns about them at startup.
func NewBuilder(cfg *interfaces.HarnessConfig, cat *catalog.Catalog, store *dict.Store) (*Builder, error) {
	exclude := cfg.ExcludeSet()
	names := cat.NamesExcluding(exclude)
	if len(names) == 0 {
		return nil, fmt.Errorf("exclude set removes every command from the catalog")
	}

	var focus []string
	for _, name := range cfg.FocusCommands {
		if !cat.Has(name) {
			continue
		}
		if _, skip := exclude[name]; skip {
			continue
		}
		focus = append(focus, name)
	}

	return &Builder{
		cfg:   cfg,
		cat:   cat,
		gen:   NewGenerator(cfg, cat, store),
		names: names,
		focus: focus,
	}, nil
}

// Build produces the full command sequence for one iteration.
// The sequence length and every argument derive only from the stream, so
// identical input bytes always yield byte-identical sequences.
func (b *Builder) Build(s *decision.Stream) []interfaces.Command {
	k := s.IntN(1, b.cfg.MaxCommands)
	cmds := make([]interfaces.Command, 0, k)
	for i := 0; i < k; i++ {
		cmds = append(cmds, b.buildCommand(b.pickName(s), s))
	}
	return cmds
}

// pickName applies the focus weighting policy: a single focus command gets
// 30% of draws, two or more share 50% uniformly; the rest fall through to a
// uniform draw over the non-excluded catalog.
func (b *Builder) pickName(s *decision.Stream) string {
	switch {
	case len(b.focus) == 1:
		if s.Bool(30, 100) {
			return b.focus[0]
		}
	case len(b.focus) > 1:
		if s.Bool(50, 100) {
			return b.focus[s.IntN(0, len(b.focus)-1)]
		}
	}
	return b.names[s.IntN(0, len(b.names)-1)]
}

// buildCommand generates arguments for one command: required slots in
// order, variadic slots repeated a bounded number of times, then each
// optional slot gated by one boolean decision in declared order.
func (b *Builder) buildCommand(name string, s *decision.Stream) interfaces.Command {
	spec, ok := b.cat.Spec(name)
	if !ok {
		// Names come from the catalog's own lists; a miss would be a
		// programming error in the catalog itself.
		return interfaces.Command{Name: name}
	}

	cmd := interfaces.Command{Name: name}
	for _, slot := range spec.Args {
		b.appendSlot(&cmd, slot, s)
	}
	for _, slot := range spec.Optional {
		if !s.Bool(7, 10) {
			continue
		}
		b.appendSlot(&cmd, slot, s)
	}
	return cmd
}

func (b *Builder) appendSlot(cmd *interfaces.Command, slot interfaces.Slot, s *decision.Stream) {
	n := 1
	if slot.Variadic {
		n = s.IntN(1, maxVariadicRepeat)
	}
	for i := 0; i < n; i++ {
		cmd.Args = append(cmd.Args, b.gen.Value(slot, s))
	}
}

// Candidates exposes the filtered candidate list for startup logging.
func (b *Builder) Candidates() []string {
	return b.names
}

// Focus exposes the validated focus list for startup logging.
func (b *Builder) Focus() []string {
	return b.focus
}
