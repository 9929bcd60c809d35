// Package batch resolves library entries in bulk: fixed-size chunks run one
// at a time, rows run sequentially with a throttle, and ambiguous rows queue
// for manual selection after the chunks finish.
package batch
