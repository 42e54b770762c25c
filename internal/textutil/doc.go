// Package textutil provides small text helpers for turning article
// titles into filesystem-safe output names and shortening content IDs
// for display.
package textutil
