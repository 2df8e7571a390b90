// Package cache holds the raw menu text per calendar date.
//
// The menu changes at most once a day, so the page is scraped at most once
// per date. Concurrent misses for the same date share a single fetch and a
// stored entry is never replaced.
package cache
