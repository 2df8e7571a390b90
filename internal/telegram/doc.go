// Package telegram is a minimal Telegram Bot API client for the RU menu bot.
//
// It sends Markdown messages and long-polls getUpdates. Requests are plain
// JSON over net/http; responses are inspected with gjson so that the "ok"
// and "description" envelope fields can be checked without declaring a
// struct per method.
//
// Authentication requires a bot token (from @BotFather).
package telegram
