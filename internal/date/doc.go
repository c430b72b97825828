// Package date parses the free-text performance dates found on theatre listing pages.
//
// Listing pages print dates without a year ("14 October", "3rd September - 10th September");
// the year comes from the season heading the date appears under and is supplied by the
// caller. Parse turns the text plus that year into a Date, which is either a Single day or
// an inclusive Range.
package date
