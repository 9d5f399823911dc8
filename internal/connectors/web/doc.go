// Package web provides document sources fetched over HTTP.
//
// URLSource fetches a single page and extracts its article text. Crawler walks
// a site breadth-first from a base URL, staying on the same host, and returns
// the pages it fetched as sources. All requests share one rate-limited Client.
package web
