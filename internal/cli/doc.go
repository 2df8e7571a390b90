// Package cli implements the command-line interface for ru-menu.
//
// The root command loads configuration (flags, RU_MENU_* environment, an
// optional ru-menu.yaml and .env) and sets up logging. Subcommands:
//
//	show   print a meal or the whole day (text or JSON)
//	send   deliver the lunch menu once, skipping weekends and holidays
//	bot    answer Telegram commands and deliver lunch daily
//	serve  expose the menu over HTTP
package cli
