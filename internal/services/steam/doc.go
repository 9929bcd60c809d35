// Package steam talks to the Steam storefront: the storesearch JSON API, an
// HTML search fallback, and the appdetails endpoint used to populate catalog
// entries.
package steam
