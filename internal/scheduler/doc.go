// Package scheduler runs a job once a day at a fixed wall-clock time,
// driven by robfig/cron in the configured location.
package scheduler
