// Package metadata resolves game identifiers against the storefront and the
// reference catalog, fetches partial records from each, and merges them with
// store-wins precedence keyed off source tags.
package metadata
