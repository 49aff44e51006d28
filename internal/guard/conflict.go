package guard

import "fmt"

// Conflict reports a mutation blocked by records that still reference the
// target. It names the action, the entity kind, the specific record, and
// what the caller must do before retrying.
type Conflict struct {
	Action   string `json:"action"`
	Entity   string `json:"entity"`
	Name     string `json:"name"`
	Guidance string `json:"guidance"`
}

// Error implements the error interface.
func (c *Conflict) Error() string {
	return fmt.Sprintf("cannot %s %s %q: %s", c.Action, c.Entity, c.Name, c.Guidance)
}
