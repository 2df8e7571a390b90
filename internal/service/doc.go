// Package service exposes the menu operations used by the bot, the scheduler
// and the HTTP API: render one meal, render the whole day, and deliver the
// lunch menu on service days.
package service
