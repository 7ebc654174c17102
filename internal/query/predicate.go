package query

// Op is the comparison a Predicate performs.
type Op int

const (
	OpEqual Op = iota
	// OpHasFlag matches when the stored bitmask shares a bit with Value.
	OpHasFlag
	// OpContains is a case-insensitive substring match over any of Fields.
	OpContains
	// OpAfter and OpBefore are strict range bounds.
	OpAfter
	OpBefore
)

func (o Op) String() string {
	switch o {
	case OpEqual:
		return "eq"
	case OpHasFlag:
		return "hasFlag"
	case OpContains:
		return "contains"
	case OpAfter:
		return "after"
	case OpBefore:
		return "before"
	default:
		return "unknown"
	}
}

// Predicate is a single filter over storage fields. Predicates in a Request
// are combined with AND; the Fields of one OpContains predicate with OR.
type Predicate struct {
	Fields []string
	Op     Op
	Value  any
}

func Equal(field string, value any) Predicate {
	return Predicate{Fields: []string{field}, Op: OpEqual, Value: value}
}

func HasFlag(field string, bit int64) Predicate {
	return Predicate{Fields: []string{field}, Op: OpHasFlag, Value: bit}
}

func Contains(value string, fields ...string) Predicate {
	return Predicate{Fields: fields, Op: OpContains, Value: value}
}

func After(field string, value any) Predicate {
	return Predicate{Fields: []string{field}, Op: OpAfter, Value: value}
}

func Before(field string, value any) Predicate {
	return Predicate{Fields: []string{field}, Op: OpBefore, Value: value}
}

// SortKey orders by one storage field.
type SortKey struct {
	Field      string
	Descending bool
}
