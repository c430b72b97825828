// Package show defines the Show record produced for every production found on a
// theatre's listing page.
//
// Each show is assigned a deterministic SHA1-based ID generated from its theatre,
// title and dates, so the same production scraped twice gets the same ID.
package show
