// Package ir defines the Brainfuck command alphabet and the run-length
// representation shared by the translator, the target backends and the cache.
//
// It also derives the content-addressed cache keys. All other internal
// packages import ir; ir imports nothing internal.
package ir
