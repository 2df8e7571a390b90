package menu

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownMeal is returned when the requested meal is not Desjejum, Almoço or Jantar
	ErrUnknownMeal = errors.New("unknown meal")
	// ErrEmptySection is returned when a known meal has no entries
	ErrEmptySection = errors.New("empty section")
)

// NoItemsMessage is the text shown when a meal cannot be rendered
func NoItemsMessage(name string) string {
	return fmt.Sprintf("Nenhum item encontrado para %s.", name)
}

// FormatMeal renders the section for the meal named name. On ErrUnknownMeal
// or ErrEmptySection the returned text is still a displayable message.
func FormatMeal(name string, pm *ParsedMenu) (string, error) {
	m, ok := ParseMeal(name)
	if !ok {
		return NoItemsMessage(name), fmt.Errorf("%w: %q", ErrUnknownMeal, name)
	}
	return pm.Render(m)
}

// Render joins m's display lines with newlines
func (pm *ParsedMenu) Render(m Meal) (string, error) {
	if pm.Empty(m) {
		return NoItemsMessage(m.Label()), fmt.Errorf("%w: %s", ErrEmptySection, m.Label())
	}
	return strings.Join(pm.Lines(m), "\n"), nil
}

// FormatToday renders all three meals in service order, each under its bold
// label, whether or not the meal had any content
func FormatToday(pm *ParsedMenu) string {
	parts := make([]string, 0, len(Meals))
	for _, m := range Meals {
		text, _ := pm.Render(m)
		parts = append(parts, fmt.Sprintf("*%s*\n%s\n", strings.ToUpper(m.Label()), text))
	}
	return strings.Join(parts, "\n")
}
