// Package scraper runs the per-theatre pipeline: fetch the listing page, parse it,
// and extract its shows.
//
// Each theatre is scraped independently. A theatre whose page cannot be fetched or
// does not follow the expected markup produces a failed Result; the remaining
// theatres are still scraped and every theatre gets exactly one Result, in config order.
package scraper
