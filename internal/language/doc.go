// Package language normalizes the spell check language written into new
// documents and names it for display.
package language
