// Command ludex manages a local game library: entries live in SQLite, and
// metadata is resolved by combining Steam storefront and IGDB catalog
// lookups.
package main
