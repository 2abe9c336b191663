package rules

import "github.com/fatih/structs"

// describeFact renders a fact as a map for structured logging and trace
// export. Struct facts (the common case) go through fatih/structs so field
// names come through as map keys instead of a %+v dump; everything else is
// passed through unchanged.
func describeFact(fact any) any {
	if fact == nil {
		return nil
	}
	if !structs.IsStruct(fact) {
		return fact
	}
	return structs.Map(fact)
}
