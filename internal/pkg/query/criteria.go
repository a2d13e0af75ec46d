package query

import (
	"fmt"
)

// Criteria accumulates a WHERE condition and the parameters it binds.
// Builders work on clones; a Criteria handed to them is never modified.
type Criteria struct {
	// Alias is the table alias conditions are qualified with by default.
	Alias string
	// Condition is nil when nothing has been merged yet.
	Condition Expr
	// Params maps parameter names (without the @ sigil) to bound values.
	Params map[string]interface{}
}

// NewCriteria creates an empty Criteria for the given table alias.
func NewCriteria(alias string) *Criteria {
	return &Criteria{
		Alias:  alias,
		Params: make(map[string]interface{}),
	}
}

// Clone returns a copy that can be merged into without affecting c.
// Cloning a nil Criteria yields an empty one.
func (c *Criteria) Clone() *Criteria {
	if c == nil {
		return NewCriteria("")
	}
	clone := &Criteria{
		Alias:     c.Alias,
		Condition: c.Condition,
		Params:    make(map[string]interface{}, len(c.Params)),
	}
	for k, v := range c.Params {
		clone.Params[k] = v
	}
	return clone
}

// MergeWith combines cond into the existing condition using op and adds params.
// Expressions are immutable, so the previous condition tree is never altered.
func (c *Criteria) MergeWith(cond Expr, params map[string]interface{}, op Operator) *Criteria {
	c.Condition = Combine(c.Condition, cond, op)
	if c.Params == nil {
		c.Params = make(map[string]interface{}, len(params))
	}
	for k, v := range params {
		c.Params[k] = v
	}
	return c
}

// Merge combines another criteria into c using op.
// c keeps its alias unless it has none.
func (c *Criteria) Merge(other *Criteria, op Operator) *Criteria {
	if other == nil {
		return c
	}
	if c.Alias == "" {
		c.Alias = other.Alias
	}
	return c.MergeWith(other.Condition, other.Params, op)
}

// IsEmpty reports whether no condition has been merged.
func (c *Criteria) IsEmpty() bool {
	return c == nil || c.Condition == nil
}

// SQL renders the condition, or "" when empty.
func (c *Criteria) SQL() string {
	if c.IsEmpty() {
		return ""
	}
	return c.Condition.SQL()
}

// String returns a human-readable representation for debugging.
func (c *Criteria) String() string {
	if c == nil {
		return "<nil>"
	}
	return fmt.Sprintf("Condition: %s\nParams: %v", c.SQL(), c.Params)
}
