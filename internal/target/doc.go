// Package target holds the per-language templates the translator emits.
//
// Each backend is a closed table over the eight commands: one statement
// template, one helper definition, the program prologue and the
// capacity-bearing initializer. Backends also know how to invoke their
// toolchain; running it is left to package toolchain.
//
// Supported targets:
//   - rust: the default; helpers compile with rustc on stable.
//   - go: a self-contained package main built with "go build".
package target
