// Package testutil provides deterministic helpers and sample programs for tests.
package testutil

// HelloWorld prints "Hello World!\n".
const HelloWorld = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

// Cat copies stdin to stdout until input runs dry.
const Cat = ",[.,]"
