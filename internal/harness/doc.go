// Package harness runs conformance scenarios against the translator and the
// target toolchains.
//
// A scenario names a Brainfuck program, the stdin to feed it and the
// behavior expected from the compiled executable. Each scenario is run once
// per target: the program is translated, built with the target's toolchain
// and executed, and the observed stdout and exit status are compared with
// the expectation. Scenarios that expect a translation error stop after the
// translation step and never reach a toolchain.
//
// # Scenario Format
//
//	name: hello_world
//	description: "Prints the canonical greeting"
//	program: "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---."
//	targets: [rust, go]
//	stdin: ""
//	expect:
//	  stdout: "Hello World!\n"
//	  exit: zero
//
// Instead of an inline program, source may name a .bf file relative to the
// scenario file. Exactly one of program and source must be given.
//
// # Expectations
//
//   - stdout: exact stdout as a string
//   - stdout_hex: exact stdout as hex, for non-printable bytes
//   - stderr_contains: substring of stderr
//   - exit: "zero" (default) or "nonzero"
//   - error: UnmatchedCloseBracket or UnmatchedOpenBracket; the scenario
//     passes when translation fails with that kind
//   - helpers: exact set of helper routines the translation must emit
//   - capacity: tape capacity the translation must choose
//
// Targets whose toolchain is not on PATH are reported as skipped, not
// failed.
package harness
