// Package api serves the parsed menu over HTTP.
//
// Routes:
//
//	GET /health         liveness check
//	GET /metrics        counters and timings
//	GET /menu/today     all three meals
//	GET /menu/:meal     one meal (desjejum, almoco, jantar)
//
// Menu routes return the same Markdown text the bot sends. Add
// ?format=json for a structured response.
package api
