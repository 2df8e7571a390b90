// Package storage persists the daily menu cache to disk.
//
// The raw menu text fetched for each date is kept in a JSON snapshot file so
// that a restarted bot does not scrape the page again on the same day.
// Entries older than the retention window are pruned whenever the snapshot
// is saved.
package storage
