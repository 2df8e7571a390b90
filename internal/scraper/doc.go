// Package scraper fetches the RU menu page and extracts its menu text.
//
// The page at ufc.br renders the day's menu inside a div.c-cardapios
// container. Fetch returns the container's text with one text node per line,
// ready for menu.Parse. Transport errors and 5xx responses are retried with
// exponential backoff; other failures are reported as ErrFetchFailed or
// ErrContainerNotFound.
package scraper
