package menu

import "strings"

// Entry is one display line of a section: either a category header or an item
type Entry struct {
	Header   bool     `json:"header"`
	Category Category `json:"category,omitempty"`
	Text     string   `json:"text"`
}

// String renders the entry as Telegram Markdown
func (e Entry) String() string {
	if e.Header {
		return "\n" + glyphFor(e.Category) + " *" + e.Text + "*"
	}
	return "- " + e.Text
}

// categoryPolicy holds the per-category emission rules applied when a
// category header is seen
type categoryPolicy struct {
	glyph    string
	implicit []string // items appended right after every occurrence of the header
	once     bool     // header emitted at most once per meal
}

const defaultGlyph = "🍽️"

var policies = map[Category]categoryPolicy{
	CategoryDessert: {glyph: "🍉🍬", once: true},
	CategorySalad:   {glyph: "🥬", implicit: []string{"Alface"}},
	CategoryJuice:   {glyph: "🧃"},
}

// dessertItem is appended for every "doce" shorthand line
const dessertItem = "Doce"

func glyphFor(c Category) string {
	if p, ok := policies[c]; ok && p.glyph != "" {
		return p.glyph
	}
	return defaultGlyph
}

// ParsedMenu maps every meal to its ordered section. It is built fresh by
// Parse and never modified afterwards.
type ParsedMenu struct {
	sections map[Meal][]Entry
}

// Section returns a copy of the entries collected for m
func (pm *ParsedMenu) Section(m Meal) []Entry {
	if pm == nil {
		return nil
	}
	entries := pm.sections[m]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Lines returns the rendered display lines for m in source order
func (pm *ParsedMenu) Lines(m Meal) []string {
	entries := pm.Section(m)
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.String())
	}
	return lines
}

// Empty reports whether nothing landed in m's section
func (pm *ParsedMenu) Empty(m Meal) bool {
	return pm == nil || len(pm.sections[m]) == 0
}

// builder carries the fold state across lines
type builder struct {
	sections map[Meal][]Entry
	meal     *Meal
	category *Category
	emitted  map[Category]bool // once-only headers already emitted for the current meal
}

// Parse splits raw into trimmed non-empty lines and folds them into a
// ParsedMenu. It is pure and safe for concurrent use.
func Parse(raw string) *ParsedMenu {
	b := &builder{
		sections: make(map[Meal][]Entry, len(Meals)),
		emitted:  make(map[Category]bool),
	}
	for _, m := range Meals {
		b.sections[m] = []Entry{}
	}

	for _, line := range SplitLines(raw) {
		b.apply(line, Classify(line))
	}

	return &ParsedMenu{sections: b.sections}
}

// SplitLines returns the trimmed, non-empty lines of raw
func SplitLines(raw string) []string {
	parts := strings.Split(raw, "\n")
	lines := make([]string, 0, len(parts))
	for _, part := range parts {
		if line := strings.TrimSpace(part); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func (b *builder) apply(line string, c Classification) {
	switch c.Kind {
	case KindWeekday, KindFootnote:
		return

	case KindMeal:
		m := c.Meal
		b.meal = &m
		b.category = nil
		b.emitted = make(map[Category]bool)

	case KindCategory:
		b.enterCategory(c.Category)

	case KindDessertShorthand:
		if b.meal == nil {
			return
		}
		b.header(CategoryDessert)
		b.append(Entry{Text: dessertItem})

	default:
		if b.meal != nil && b.category != nil {
			b.append(Entry{Text: line})
		}
	}
}

func (b *builder) enterCategory(cat Category) {
	b.category = &cat
	if b.meal == nil {
		return
	}
	if !b.header(cat) {
		return
	}
	for _, item := range policies[cat].implicit {
		b.append(Entry{Text: item})
	}
}

// header appends the section header for cat unless the category's policy
// limits it to one per meal and it was already emitted. It reports whether
// a header was appended.
func (b *builder) header(cat Category) bool {
	if policies[cat].once {
		if b.emitted[cat] {
			return false
		}
		b.emitted[cat] = true
	}
	b.append(Entry{Header: true, Category: cat, Text: cat.Label()})
	return true
}

func (b *builder) append(e Entry) {
	m := *b.meal
	b.sections[m] = append(b.sections[m], e)
}
