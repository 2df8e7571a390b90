package menu

import "strings"

// LineKind is the role a line plays on the menu page
type LineKind int

const (
	KindItem LineKind = iota
	KindWeekday
	KindMeal
	KindCategory
	KindFootnote
	KindDessertShorthand
)

func (k LineKind) String() string {
	switch k {
	case KindWeekday:
		return "weekday"
	case KindMeal:
		return "meal"
	case KindCategory:
		return "category"
	case KindFootnote:
		return "footnote"
	case KindDessertShorthand:
		return "dessert-shorthand"
	default:
		return "item"
	}
}

// Classification is the result of classifying one line. Meal is only
// meaningful for KindMeal and Category only for KindCategory.
type Classification struct {
	Kind     LineKind
	Meal     Meal
	Category Category
}

var weekdays = []string{"segunda", "terça", "quarta", "quinta", "sexta", "sábado", "domingo"}

const dessertShorthand = "doce"

// Classify decides the role of a single trimmed line. Rules are checked in
// order and the first match wins.
func Classify(line string) Classification {
	lower := strings.ToLower(line)

	for _, day := range weekdays {
		if strings.HasPrefix(lower, day) {
			return Classification{Kind: KindWeekday}
		}
	}

	for _, m := range Meals {
		if lower == strings.ToLower(m.Label()) {
			return Classification{Kind: KindMeal, Meal: m}
		}
	}

	if c, ok := categories[lower]; ok {
		return Classification{Kind: KindCategory, Category: c}
	}

	if isFootnote(lower) {
		return Classification{Kind: KindFootnote}
	}

	if lower == dessertShorthand {
		return Classification{Kind: KindDessertShorthand}
	}

	return Classification{Kind: KindItem}
}

// isFootnote matches allergen notes such as "(Contém glúten)": the line opens
// with a parenthesis and "contém" appears before the first closing one.
func isFootnote(lower string) bool {
	if !strings.HasPrefix(lower, "(") {
		return false
	}
	end := strings.Index(lower, ")")
	if end < 0 {
		return false
	}
	return strings.Contains(lower[:end], "contém")
}
