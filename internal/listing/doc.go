// Package listing extracts shows from a theatre's listing page.
//
// A listing page groups productions under season headings ("Season 2024"). The page
// carries no year in the individual date text, so the extractor walks the production
// list in document order, remembering the most recent heading and handing its year to
// the date parser for every production that follows.
//
// The walk is written against the small Node interface rather than a concrete HTML
// library; Parse returns a Node backed by goquery.
package listing
