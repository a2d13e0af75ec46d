package query

import (
	"strings"
)

// Operator combines two conditions.
type Operator string

const (
	// And requires both conditions to hold.
	And Operator = "AND"
	// Or requires either condition to hold.
	Or Operator = "OR"
)

// normalize defaults an empty operator to And.
func (o Operator) normalize() Operator {
	switch strings.ToUpper(strings.TrimSpace(string(o))) {
	case "OR":
		return Or
	default:
		return And
	}
}

// Expr is a node of a WHERE condition tree.
// Values never appear in an Expr; they are referenced by parameter name and
// carried alongside in Criteria.Params.
type Expr interface {
	// SQL renders the expression using Spanner's named parameter format (@name).
	SQL() string
	isExpr()
}

// Placeholder returns the SQL placeholder for a parameter name.
func Placeholder(param string) string {
	return "@" + param
}

// Raw is a literal SQL fragment, e.g. "1=1".
type Raw string

func (r Raw) SQL() string { return string(r) }

// Comparison compares a column with a bound parameter.
// Example: Comparison{"p.status", "=", "p0"} generates "p.status = @p0"
type Comparison struct {
	Column   string
	Operator string
	Param    string
}

func (c Comparison) SQL() string {
	return c.Column + " " + c.Operator + " " + Placeholder(c.Param)
}

// NullCheck tests a column for NULL.
type NullCheck struct {
	Column string
	Not    bool
}

func (n NullCheck) SQL() string {
	if n.Not {
		return n.Column + " IS NOT NULL"
	}
	return n.Column + " IS NULL"
}

// InList matches a column against a list of bound parameters.
// Example: InList{"p.id", []string{"p0", "p1"}} generates "p.id IN (@p0, @p1)"
type InList struct {
	Column string
	Params []string
}

func (in InList) SQL() string {
	return in.Column + " IN (" + placeholders(in.Params) + ")"
}

// RowInList matches a tuple of columns against rows of bound parameters.
// Example: "(p.a, p.b) IN ((@p0, @p1), (@p2, @p3))"
type RowInList struct {
	Columns []string
	Rows    [][]string
}

func (r RowInList) SQL() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(strings.Join(r.Columns, ", "))
	sb.WriteString(") IN (")
	for i, row := range r.Rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		sb.WriteString(placeholders(row))
		sb.WriteString(")")
	}
	sb.WriteString(")")
	return sb.String()
}

// Group is a parenthesized list of expressions joined by Op.
type Group struct {
	Op    Operator
	Exprs []Expr
}

func (g Group) SQL() string {
	return "(" + joinExprs(g.Op.normalize(), g.Exprs) + ")"
}

// Junction joins expressions with Op without enclosing parentheses.
// Nested junctions using a different operator are parenthesized.
type Junction struct {
	Op    Operator
	Exprs []Expr
}

func (j Junction) SQL() string {
	return joinExprs(j.Op.normalize(), j.Exprs)
}

func (Raw) isExpr()        {}
func (Comparison) isExpr() {}
func (NullCheck) isExpr()  {}
func (InList) isExpr()     {}
func (RowInList) isExpr()  {}
func (Group) isExpr()      {}
func (Junction) isExpr()   {}

// Combine joins two expressions with op. A nil side yields the other side.
// Combining onto a junction of the same operator extends it.
func Combine(left, right Expr, op Operator) Expr {
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	}

	op = op.normalize()
	if j, ok := left.(Junction); ok && j.Op.normalize() == op {
		exprs := make([]Expr, 0, len(j.Exprs)+1)
		exprs = append(exprs, j.Exprs...)
		exprs = append(exprs, right)
		return Junction{Op: op, Exprs: exprs}
	}
	return Junction{Op: op, Exprs: []Expr{left, right}}
}

func joinExprs(op Operator, exprs []Expr) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		if e == nil {
			continue
		}
		if j, ok := e.(Junction); ok && j.Op.normalize() != op && len(j.Exprs) > 1 {
			parts = append(parts, "("+j.SQL()+")")
			continue
		}
		parts = append(parts, e.SQL())
	}
	return strings.Join(parts, " "+string(op)+" ")
}

func placeholders(params []string) string {
	ph := make([]string, len(params))
	for i, p := range params {
		ph[i] = Placeholder(p)
	}
	return strings.Join(ph, ", ")
}
