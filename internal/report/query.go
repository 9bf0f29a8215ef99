package report

// Query is a read the endpoint can execute.
type Query interface {
	queryNode()
}

// Predicate filters rows.
type Predicate interface {
	predicateNode()
}

// Order is one ORDER BY term.
type Order struct {
	Column string
	Desc   bool
}

// Select reads columns of one table. Empty Columns selects every visible
// column. Limit <= 0 means the runner's maximum.
type Select struct {
	From    string
	Columns []string
	Filter  Predicate
	OrderBy []Order
	Limit   int
}

func (Select) queryNode() {}

// Join is an inner join of two tables on one column equality.
// Every column reference in a Join is qualified as "table.column".
type Join struct {
	Left    string
	Right   string
	On      On
	Columns []string
	Filter  Predicate
	OrderBy []Order
	Limit   int
}

func (Join) queryNode() {}

// On is the join condition Left.LeftColumn = Right.RightColumn.
type On struct {
	LeftColumn  string
	RightColumn string
}

// Equals is column = value.
type Equals struct {
	Column string
	Value  any
}

func (Equals) predicateNode() {}

// Op is a comparison operator.
type Op string

// Comparison operators.
const (
	OpLess         Op = "<"
	OpLessEqual    Op = "<="
	OpGreater      Op = ">"
	OpGreaterEqual Op = ">="
	OpNotEqual     Op = "<>"
)

// Compare is column <op> value.
type Compare struct {
	Column string
	Op     Op
	Value  any
}

func (Compare) predicateNode() {}

// And holds when every predicate holds. An empty And is always true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}
