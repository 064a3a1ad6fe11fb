// Package conv provides checked integer conversions for record indices,
// which row sets store as uint32.
package conv
