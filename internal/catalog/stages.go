// Package catalog turns product listing filters into an ordered plan of
// stages that every product store can execute.
//
// The plan always derives the discounted price before matching on price
// range, so price bounds apply to what the customer pays rather than to the
// list price.
package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"storefront/internal/models"
	"storefront/internal/pricing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// DiscountedPriceSQL computes the discounted price of a products row, rounded
// like pricing.DiscountedPrice so bounds equal to a listed price match.
// SQL cannot reference a select alias in WHERE or ORDER BY, so stages inline it.
var DiscountedPriceSQL = fmt.Sprintf("ROUND(CAST((price - price * discount / 100.0) AS DECIMAL(20,%d)), %d)",
	pricing.PricePrecision, pricing.PricePrecision)

// Stage is one step of a listing plan. Each stage can run in memory, as a
// MongoDB aggregation stage, or as a GORM scope.
type Stage interface {
	Name() string
	Apply(products []models.Product) []models.Product
	Pipeline() bson.D
	Scope(db *gorm.DB) *gorm.DB
}

// Plan is an ordered list of stages.
type Plan []Stage

// Build returns the stages for f. Filter stages whose inputs are absent are
// left out; the derive and sort stages are always present.
func Build(f Filter) Plan {
	var plan Plan
	if m := newFieldMatch(f); m != nil {
		plan = append(plan, m)
	}
	plan = append(plan, deriveStage{})
	if f.MinPrice != nil || f.MaxPrice != nil {
		plan = append(plan, priceMatch{min: f.MinPrice, max: f.MaxPrice})
	}
	plan = append(plan, sortStage{key: f.Sort})
	return plan
}

// Names lists the stage names in order.
func (p Plan) Names() []string {
	names := make([]string, len(p))
	for i, s := range p {
		names[i] = s.Name()
	}
	return names
}

// Apply runs the plan over an in-memory product list. The input slice is
// not modified.
func (p Plan) Apply(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	for _, s := range p {
		out = s.Apply(out)
	}
	return out
}

// Pipeline renders the plan as a MongoDB aggregation pipeline.
func (p Plan) Pipeline() mongo.Pipeline {
	pipeline := make(mongo.Pipeline, 0, len(p))
	for _, s := range p {
		pipeline = append(pipeline, s.Pipeline())
	}
	return pipeline
}

// Scope applies every stage to a GORM query.
func (p Plan) Scope(db *gorm.DB) *gorm.DB {
	for _, s := range p {
		db = s.Scope(db)
	}
	return db
}

// fieldMatch filters on fields stored on the product record.
type fieldMatch struct {
	categories  []string
	minDiscount *float64
	search      string
}

func newFieldMatch(f Filter) *fieldMatch {
	if len(f.Categories) == 0 && f.MinDiscount == nil && f.Search == "" {
		return nil
	}
	return &fieldMatch{categories: f.Categories, minDiscount: f.MinDiscount, search: f.Search}
}

func (m *fieldMatch) Name() string { return "match" }

func (m *fieldMatch) Apply(products []models.Product) []models.Product {
	needle := strings.ToLower(m.search)
	out := products[:0]
	for _, p := range products {
		if len(m.categories) > 0 && !contains(m.categories, p.Category) {
			continue
		}
		if m.minDiscount != nil && p.Discount < *m.minDiscount {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (m *fieldMatch) Pipeline() bson.D {
	match := bson.D{}
	switch len(m.categories) {
	case 0:
	case 1:
		match = append(match, bson.E{Key: "category", Value: m.categories[0]})
	default:
		match = append(match, bson.E{Key: "category", Value: bson.D{{Key: "$in", Value: m.categories}}})
	}
	if m.minDiscount != nil {
		match = append(match, bson.E{Key: "discount", Value: bson.D{{Key: "$gte", Value: *m.minDiscount}}})
	}
	if m.search != "" {
		pattern := regexp.QuoteMeta(m.search)
		match = append(match, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: bson.D{{Key: "$regex", Value: pattern}, {Key: "$options", Value: "i"}}}},
			bson.D{{Key: "description", Value: bson.D{{Key: "$regex", Value: pattern}, {Key: "$options", Value: "i"}}}},
		}})
	}
	return bson.D{{Key: "$match", Value: match}}
}

func (m *fieldMatch) Scope(db *gorm.DB) *gorm.DB {
	switch len(m.categories) {
	case 0:
	case 1:
		db = db.Where("category = ?", m.categories[0])
	default:
		db = db.Where("category IN ?", m.categories)
	}
	if m.minDiscount != nil {
		db = db.Where("discount >= ?", *m.minDiscount)
	}
	if m.search != "" {
		like := "%" + escapeLike(strings.ToLower(m.search)) + "%"
		db = db.Where("(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!')", like, like)
	}
	return db
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// deriveStage computes the discounted price of every surviving product.
type deriveStage struct{}

func (deriveStage) Name() string { return "derive" }

func (deriveStage) Apply(products []models.Product) []models.Product {
	for i := range products {
		products[i].Derive()
	}
	return products
}

func (deriveStage) Pipeline() bson.D {
	discounted := bson.D{{Key: "$subtract", Value: bson.A{
		"$price",
		bson.D{{Key: "$multiply", Value: bson.A{
			"$price",
			bson.D{{Key: "$divide", Value: bson.A{"$discount", 100}}},
		}}},
	}}}
	return bson.D{{Key: "$addFields", Value: bson.D{
		{Key: "discountedPrice", Value: bson.D{{Key: "$round", Value: bson.A{discounted, pricing.PricePrecision}}}},
	}}}
}

// Rows are derived again after scanning; later stages inline DiscountedPriceSQL.
func (deriveStage) Scope(db *gorm.DB) *gorm.DB { return db }

// priceMatch bounds the derived discounted price.
type priceMatch struct {
	min, max *float64
}

func (priceMatch) Name() string { return "price" }

func (m priceMatch) Apply(products []models.Product) []models.Product {
	out := products[:0]
	for _, p := range products {
		if m.min != nil && p.DiscountedPrice < *m.min {
			continue
		}
		if m.max != nil && p.DiscountedPrice > *m.max {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (m priceMatch) Pipeline() bson.D {
	bounds := bson.D{}
	if m.min != nil {
		bounds = append(bounds, bson.E{Key: "$gte", Value: *m.min})
	}
	if m.max != nil {
		bounds = append(bounds, bson.E{Key: "$lte", Value: *m.max})
	}
	return bson.D{{Key: "$match", Value: bson.D{{Key: "discountedPrice", Value: bounds}}}}
}

func (m priceMatch) Scope(db *gorm.DB) *gorm.DB {
	if m.min != nil {
		db = db.Where(fmt.Sprintf("%s >= ?", DiscountedPriceSQL), *m.min)
	}
	if m.max != nil {
		db = db.Where(fmt.Sprintf("%s <= ?", DiscountedPriceSQL), *m.max)
	}
	return db
}

// sortStage orders by discounted price or by creation time, newest first.
type sortStage struct {
	key SortKey
}

func (sortStage) Name() string { return "sort" }

func (s sortStage) Apply(products []models.Product) []models.Product {
	// compare returns <0 when a sorts first; ties fall back to ID like the
	// SQL and MongoDB renderings.
	var compare func(a, b models.Product) int
	switch s.key {
	case SortPriceLow:
		compare = func(a, b models.Product) int { return cmpFloat(a.DiscountedPrice, b.DiscountedPrice) }
	case SortPriceHigh:
		compare = func(a, b models.Product) int { return cmpFloat(b.DiscountedPrice, a.DiscountedPrice) }
	default:
		compare = func(a, b models.Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
	sort.SliceStable(products, func(i, j int) bool {
		if c := compare(products[i], products[j]); c != 0 {
			return c < 0
		}
		return products[i].ID < products[j].ID
	})
	return products
}

func (s sortStage) Pipeline() bson.D {
	var order bson.D
	switch s.key {
	case SortPriceLow:
		order = bson.D{{Key: "discountedPrice", Value: 1}}
	case SortPriceHigh:
		order = bson.D{{Key: "discountedPrice", Value: -1}}
	default:
		order = bson.D{{Key: "createdAt", Value: -1}}
	}
	return bson.D{{Key: "$sort", Value: append(order, bson.E{Key: "_id", Value: 1})}}
}

func (s sortStage) Scope(db *gorm.DB) *gorm.DB {
	switch s.key {
	case SortPriceLow:
		return db.Order(DiscountedPriceSQL + " ASC").Order("id")
	case SortPriceHigh:
		return db.Order(DiscountedPriceSQL + " DESC").Order("id")
	default:
		return db.Order("created_at DESC").Order("id")
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
