package override

import "fmt"

// Kind distinguishes the two override commands.
type Kind int

const (
	// KindSet replaces the published theme with an arbitrary value.
	KindSet Kind = iota + 1
	// KindRevert drops any active override.
	KindRevert
)

func (k Kind) String() string {
	switch k {
	case KindSet:
		return "override"
	case KindRevert:
		return "revert"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Command is a request from the operator, carried from the listener to the resolver.
type Command struct {
	Kind Kind
	// Value is the override theme, opaque and used verbatim. Empty for KindRevert.
	Value string
}

// Set builds a SetOverride command.
func Set(value string) Command {
	return Command{Kind: KindSet, Value: value}
}

// Revert builds a Revert command.
func Revert() Command {
	return Command{Kind: KindRevert}
}

func (c Command) String() string {
	if c.Kind == KindSet {
		return fmt.Sprintf("override(%q)", c.Value)
	}
	return c.Kind.String()
}
