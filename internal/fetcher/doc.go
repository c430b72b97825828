// Package fetcher retrieves theatre listing pages over HTTP.
package fetcher
