// Package notifier delivers the rendered menu to subscribers.
//
// Telegram is the primary channel. The daily lunch menu can also be posted
// to Twitter, and a dry-run notifier prints messages instead of sending them.
package notifier
