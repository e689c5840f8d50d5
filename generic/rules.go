package generic

// =============================================================================
// RULE SET - Ordered predicate → emitter tables
// =============================================================================

// Rule emits zero or more lines of type L when its predicate holds for the
// input C. Name is used for logging only.
type Rule[C, L any] struct {
	Name string
	When func(C) bool
	Emit func(C) []L
}

// RuleSet evaluates two ordered tables.
//
//   - Stacking rules are independent: every rule whose predicate holds emits.
//   - Exclusive rules form a precedence list: only the first rule whose
//     predicate holds emits.
//
// Adding a rule to either table cannot silently change the outcome of an
// earlier exclusive rule; it only takes effect when every rule above it
// declines.
type RuleSet[C, L any] struct {
	Stacking  []Rule[C, L]
	Exclusive []Rule[C, L]
}

// Evaluate returns emitted lines in table order, stacking rules first. fired
// receives the name of every rule that emitted and may be nil.
func (rs RuleSet[C, L]) Evaluate(input C, fired func(name string)) []L {
	var out []L
	for _, r := range rs.Stacking {
		if r.When(input) {
			out = append(out, r.Emit(input)...)
			if fired != nil {
				fired(r.Name)
			}
		}
	}
	for _, r := range rs.Exclusive {
		if r.When(input) {
			out = append(out, r.Emit(input)...)
			if fired != nil {
				fired(r.Name)
			}
			break
		}
	}
	return out
}

// Always is a predicate that holds for every input.
func Always[C any](C) bool { return true }
