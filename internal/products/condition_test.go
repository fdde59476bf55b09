package product

import (
	"strings"
	"testing"

	"github.com/angelmondragon/laptopshop/pkg/db/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func criteria(t *testing.T, factories, targets, prices []string) FilterCriteria {
	t.Helper()
	b := NewFilterBuilder().Factories(factories...).Targets(targets...)
	for _, p := range prices {
		if err := b.Price(p); err != nil {
			t.Fatalf("price %q: %v", p, err)
		}
	}
	return b.Build()
}

func TestBuildConditionMatches(t *testing.T) {
	products := []models.Product{
		{ID: 1, Factory: "APPLE", Target: "MONG-NHE", Price: 9_000_000},
		{ID: 2, Factory: "DELL", Target: "GAMING", Price: 12_000_000},
		{ID: 3, Factory: "APPLE", Target: "GAMING", Price: 25_000_000},
		{ID: 4, Factory: "ASUS", Target: "GAMING", Price: 15_000_000},
	}

	tests := []struct {
		name string
		c    FilterCriteria
		want []int64
	}{
		{name: "empty", c: FilterCriteria{}, want: []int64{1, 2, 3, 4}},
		{name: "factory", c: criteria(t, []string{"APPLE"}, nil, nil), want: []int64{1, 3}},
		{name: "factoryAndTarget", c: criteria(t, []string{"APPLE", "DELL"}, []string{"GAMING"}, nil), want: []int64{2, 3}},
		{name: "pricesOr", c: criteria(t, nil, nil, []string{"10-15-trieu", "tren-20-trieu"}), want: []int64{2, 3, 4}},
		{name: "allDimensions", c: criteria(t, []string{"ASUS", "APPLE"}, []string{"GAMING"}, []string{"15-20-trieu"}), want: []int64{4}},
		{name: "bounds", c: NewFilterBuilder().MinPrice(10_000_000).MaxPrice(20_000_000).Build(), want: []int64{2, 4}},
		{name: "noMatch", c: criteria(t, []string{"LG"}, nil, nil), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond := BuildCondition(tt.c)
			var got []int64
			for i := range products {
				if cond.Matches(&products[i]) {
					got = append(got, products[i].ID)
				}
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v got %v", tt.want, got)
				}
			}
		})
	}
}

func TestEmptyConditionHasNoExpression(t *testing.T) {
	if expr := BuildCondition(FilterCriteria{}).Expression(); expr != nil {
		t.Fatalf("expected nil expression, got %#v", expr)
	}
	if (AnyOf{}).Matches(&models.Product{}) {
		t.Fatal("empty disjunction matches nothing")
	}
}

func dryRunSQL(t *testing.T, cond Condition, order []OrderKey) string {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	qb := filtered(conn, cond)
	for _, key := range order {
		qb = qb.Order(key.clause())
	}
	stmt := qb.Find(&[]models.Product{}).Statement
	return stmt.SQL.String()
}

func TestExpressionGroupsPriceDisjunction(t *testing.T) {
	c := criteria(t, []string{"APPLE"}, nil, []string{"duoi-10-trieu", "tren-20-trieu"})
	sql := dryRunSQL(t, BuildCondition(c), nil)

	if !strings.Contains(sql, "`factory` IN (?)") && !strings.Contains(sql, "`factory` = ?") {
		t.Fatalf("missing factory predicate: %s", sql)
	}
	if !strings.Contains(sql, "AND (`price` < ? OR `price` > ?)") {
		t.Fatalf("price disjunction not grouped: %s", sql)
	}
}

func TestExpressionSingleBucketIsAnded(t *testing.T) {
	c := criteria(t, []string{"APPLE"}, nil, []string{"duoi-10-trieu"})
	sql := dryRunSQL(t, BuildCondition(c), nil)
	if strings.Contains(sql, " OR ") {
		t.Fatalf("single bucket must not be OR-ed with the factory predicate: %s", sql)
	}
}

func TestBuildOrder(t *testing.T) {
	sql := dryRunSQL(t, nil, BuildOrder(SortPriceDesc))
	if !strings.Contains(sql, "ORDER BY `price` DESC,`id`") {
		t.Fatalf("unexpected order clause: %s", sql)
	}

	def := BuildOrder(SortDefault)
	if len(def) != 1 || def[0].Field != FieldID || def[0].Desc {
		t.Fatalf("default order should be id ascending, got %+v", def)
	}

	a := &models.Product{ID: 1, Price: 100}
	b := &models.Product{ID: 2, Price: 100}
	if !Less(BuildOrder(SortPriceDesc), a, b) {
		t.Fatal("equal prices should fall back to id ascending")
	}
}

func TestRangeExpressionShapes(t *testing.T) {
	if expr := (Range{Field: FieldPrice}).Expression(); expr != nil {
		t.Fatalf("unbounded range should be nil, got %#v", expr)
	}
	expr := (Range{Field: FieldPrice, Bounds: PriceRange{Lower: atLeast(1), Upper: below(5)}}).Expression()
	and, ok := expr.(clause.AndConditions)
	if !ok || len(and.Exprs) != 2 {
		t.Fatalf("expected two-sided AND, got %#v", expr)
	}
}
