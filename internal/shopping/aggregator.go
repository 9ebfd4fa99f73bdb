package shopping

import (
	"fmt"
	"math"
	"strings"

	"family-meal-planner/internal/planner"
)

// OtherCategory collects items no keyword matched.
const OtherCategory = "Other"

// categoryKeywords is tried in order; the first category with a keyword
// contained in the ingredient name wins.
var categoryKeywords = []struct {
	name     string
	keywords []string
}{
	{"Produce", []string{"apple", "berries", "onion", "garlic", "tomato", "sweet potato"}},
	{"Dairy", []string{"milk", "cheese", "butter", "egg"}},
	{"Meat & Seafood", []string{"chicken", "beef", "fish", "tenders"}},
	{"Pantry", []string{"flour", "rice", "pasta", "oil", "sauce", "syrup", "breadcrumbs", "spaghetti"}},
	{"Frozen", []string{"nugget"}},
	{"Bakery", []string{"bread", "crackers"}},
	{"Condiments", []string{"peanut butter", "ketchup"}},
}

// LineItem is one merged ingredient. Items merge on identical name and unit.
type LineItem struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Amount   float64 `json:"amount"`
	Cost     float64 `json:"cost"`
	UnitCost float64 `json:"unit_cost"`
}

// Category is a named bucket of line items in first-seen order.
type Category struct {
	Name  string     `json:"name"`
	Items []LineItem `json:"items"`
}

// Cost sums the category's line items.
func (c Category) Cost() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Cost
	}
	return total
}

// List is a categorized shopping list. Empty categories are never present.
type List struct {
	Categories []Category `json:"categories"`
}

// Aggregate merges the ingredients of every meal in the plans. Each meal
// instance accounts for one serving of its recipes, so the list's total cost
// matches the plans' per-serving costs.
//
// Quantities are therefore per person, not whole recipes and not scaled by
// family size: a 4-serving pasta dinner planned once contributes a quarter
// of its pound of spaghetti, shown as "Spaghetti (lb): 0.2" after rounding.
func Aggregate(plans []planner.DayPlan) List {
	var (
		order  []string
		merged = map[string]*LineItem{}
	)
	for _, day := range plans {
		for _, meal := range day.Meals() {
			for _, r := range meal.Recipes {
				if r.Servings <= 0 {
					continue
				}
				share := 1 / float64(r.Servings)
				for _, ing := range r.Ingredients {
					key := itemKey(ing.Name, ing.Unit)
					it, ok := merged[key]
					if !ok {
						it = &LineItem{Key: key, Name: ing.Name, Unit: ing.Unit, UnitCost: ing.UnitCost()}
						merged[key] = it
						order = append(order, key)
					}
					it.Amount += ing.Amount * share
					it.Cost += ing.TotalCost() * share
				}
			}
		}
	}

	buckets := make(map[string][]LineItem, len(categoryKeywords)+1)
	for _, key := range order {
		it := *merged[key]
		name := categorize(it.Name)
		buckets[name] = append(buckets[name], it)
	}

	var list List
	for _, c := range categoryKeywords {
		if items := buckets[c.name]; len(items) > 0 {
			list.Categories = append(list.Categories, Category{Name: c.name, Items: items})
		}
	}
	if items := buckets[OtherCategory]; len(items) > 0 {
		list.Categories = append(list.Categories, Category{Name: OtherCategory, Items: items})
	}
	return list
}

func itemKey(name, unit string) string {
	return fmt.Sprintf("%s (%s)", name, unit)
}

func categorize(name string) string {
	lower := strings.ToLower(name)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.name
			}
		}
	}
	return OtherCategory
}

// TotalCost sums every line item.
func (l List) TotalCost() float64 {
	var total float64
	for _, c := range l.Categories {
		total += c.Cost()
	}
	return total
}

// ItemCount returns the number of line items across categories.
func (l List) ItemCount() int {
	var n int
	for _, c := range l.Categories {
		n += len(c.Items)
	}
	return n
}

// ByCategory returns the list as category name -> item key -> line item.
func (l List) ByCategory() map[string]map[string]LineItem {
	out := make(map[string]map[string]LineItem, len(l.Categories))
	for _, c := range l.Categories {
		items := make(map[string]LineItem, len(c.Items))
		for _, it := range c.Items {
			items[it.Key] = it
		}
		out[c.Name] = items
	}
	return out
}

const rule = "============================================================"

// Format renders the list as plain text with category subtotals and a grand
// total. Whole amounts print without decimals.
func Format(l List) string {
	var b strings.Builder
	b.WriteString("SHOPPING LIST WITH BUDGET BREAKDOWN\n")
	b.WriteString(rule + "\n\n")

	var total float64
	for _, c := range l.Categories {
		cost := c.Cost()
		fmt.Fprintf(&b, "%s ($%.2f)\n", strings.ToUpper(c.Name), cost)
		b.WriteString(strings.Repeat("-", len(c.Name)+10) + "\n")
		for _, it := range c.Items {
			fmt.Fprintf(&b, "• %s: %s - $%.2f\n", it.Key, formatAmount(it.Amount), it.Cost)
		}
		b.WriteString("\n")
		total += cost
	}

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "TOTAL ESTIMATED COST: $%.2f\n", total)
	return b.String()
}

func formatAmount(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
