// Package matchprompt implements interactive candidate selection for rows the
// pipeline could not resolve automatically.
package matchprompt
