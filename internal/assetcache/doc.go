// Package assetcache persists downloaded covers, screenshots, and
// microtrailers on disk, keyed by library entry and source URL.
package assetcache
