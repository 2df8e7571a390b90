// Package menu turns the flat text of the RU menu page into per-meal sections.
//
// The page lists weekday headers, meal headers (Desjejum, Almoço, Jantar),
// category headers (Principal, Salada, Sobremesa, ...), items and allergen
// footnotes as one undifferentiated sequence of lines. Classify decides the
// role of a single line, Parse folds the classified lines into a ParsedMenu,
// and FormatMeal / FormatToday render the result as Telegram Markdown.
package menu
