// Package catalog persists the game library in SQLite and moves it in and out
// of interchange formats.
//
// The Store owns schema management, busy-retry handling, and an advisory file
// lock that keeps concurrent batch runs from interleaving writes. JSON and CSV
// import/export operate on the same GameRecord model the rest of the system
// uses; SQLite remains the canonical copy.
package catalog
