package product

import (
	"github.com/angelmondragon/laptopshop/pkg/db/models"
	"gorm.io/gorm/clause"
)

// Field is a filterable product column.
type Field string

const (
	FieldID      Field = "id"
	FieldPrice   Field = "price"
	FieldFactory Field = "factory"
	FieldTarget  Field = "target"
)

func (f Field) column() clause.Column {
	return clause.Column{Name: string(f)}
}

func (f Field) text(p *models.Product) string {
	switch f {
	case FieldFactory:
		return p.Factory
	case FieldTarget:
		return p.Target
	}
	return ""
}

func (f Field) number(p *models.Product) int64 {
	switch f {
	case FieldID:
		return p.ID
	case FieldPrice:
		return p.Price
	}
	return 0
}

// Condition is a storage-neutral predicate over products. It can be
// evaluated in memory or lowered to a GORM clause.
type Condition interface {
	Matches(p *models.Product) bool
	// Expression returns nil when the condition is always true.
	Expression() clause.Expression
}

// InList matches when the text field equals one of Values.
type InList struct {
	Field  Field
	Values []string
}

func (c InList) Matches(p *models.Product) bool {
	return contains(c.Values, c.Field.text(p))
}

func (c InList) Expression() clause.Expression {
	values := make([]any, 0, len(c.Values))
	for _, v := range c.Values {
		values = append(values, v)
	}
	return clause.IN{Column: c.Field.column(), Values: values}
}

// Range matches when the numeric field falls inside Bounds.
type Range struct {
	Field  Field
	Bounds PriceRange
}

func (c Range) Matches(p *models.Product) bool {
	return c.Bounds.Contains(c.Field.number(p))
}

func (c Range) Expression() clause.Expression {
	var exprs []clause.Expression
	col := c.Field.column()
	if lo := c.Bounds.Lower; lo != nil {
		if lo.Inclusive {
			exprs = append(exprs, clause.Gte{Column: col, Value: lo.Value})
		} else {
			exprs = append(exprs, clause.Gt{Column: col, Value: lo.Value})
		}
	}
	if hi := c.Bounds.Upper; hi != nil {
		if hi.Inclusive {
			exprs = append(exprs, clause.Lte{Column: col, Value: hi.Value})
		} else {
			exprs = append(exprs, clause.Lt{Column: col, Value: hi.Value})
		}
	}
	if len(exprs) == 0 {
		return nil
	}
	return clause.And(exprs...)
}

// AnyOf matches when at least one child matches. An empty AnyOf matches
// nothing.
type AnyOf []Condition

func (c AnyOf) Matches(p *models.Product) bool {
	for _, child := range c {
		if child.Matches(p) {
			return true
		}
	}
	return false
}

func (c AnyOf) Expression() clause.Expression {
	if len(c) == 0 {
		return clause.Expr{SQL: "1 = 0"}
	}
	exprs := make([]clause.Expression, 0, len(c))
	for _, child := range c {
		expr := child.Expression()
		if expr == nil {
			// one always-true branch makes the whole disjunction true
			return nil
		}
		exprs = append(exprs, expr)
	}
	if len(exprs) == 1 {
		// gorm joins a single-element OrConditions to its left sibling with OR
		return exprs[0]
	}
	return clause.Or(exprs...)
}

// AllOf matches when every child matches. An empty AllOf matches everything.
type AllOf []Condition

func (c AllOf) Matches(p *models.Product) bool {
	for _, child := range c {
		if !child.Matches(p) {
			return false
		}
	}
	return true
}

func (c AllOf) Expression() clause.Expression {
	exprs := make([]clause.Expression, 0, len(c))
	for _, child := range c {
		if expr := child.Expression(); expr != nil {
			exprs = append(exprs, expr)
		}
	}
	if len(exprs) == 0 {
		return nil
	}
	return clause.And(exprs...)
}

// BuildCondition turns criteria into a conjunction of the present
// dimensions: factory IN, target IN, any-of price ranges, explicit bounds.
func BuildCondition(c FilterCriteria) Condition {
	all := AllOf{}
	if len(c.factories) > 0 {
		all = append(all, InList{Field: FieldFactory, Values: c.Factories()})
	}
	if len(c.targets) > 0 {
		all = append(all, InList{Field: FieldTarget, Values: c.Targets()})
	}
	if len(c.prices) > 0 {
		ranges := make(AnyOf, 0, len(c.prices))
		for _, p := range c.prices {
			ranges = append(ranges, Range{Field: FieldPrice, Bounds: p.Range})
		}
		all = append(all, ranges)
	}
	if !c.bounds.IsUnbounded() {
		all = append(all, Range{Field: FieldPrice, Bounds: c.bounds})
	}
	return all
}

// OrderKey is one ORDER BY term.
type OrderKey struct {
	Field Field
	Desc  bool
}

func (k OrderKey) clause() clause.OrderByColumn {
	return clause.OrderByColumn{Column: k.Field.column(), Desc: k.Desc}
}

// BuildOrder returns the ordering for a directive. Every ordering ends with
// id ascending so equal prices page deterministically.
func BuildOrder(s SortDirective) []OrderKey {
	switch s {
	case SortPriceAsc:
		return []OrderKey{{Field: FieldPrice}, {Field: FieldID}}
	case SortPriceDesc:
		return []OrderKey{{Field: FieldPrice, Desc: true}, {Field: FieldID}}
	}
	return []OrderKey{{Field: FieldID}}
}

// Less compares two products under keys.
func Less(keys []OrderKey, a, b *models.Product) bool {
	for _, k := range keys {
		x, y := k.Field.number(a), k.Field.number(b)
		if x == y {
			continue
		}
		if k.Desc {
			return x > y
		}
		return x < y
	}
	return false
}
