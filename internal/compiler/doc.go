// Package compiler translates Brainfuck source into a target-language program.
//
// The translation is a single forward streaming pass:
//
//  1. Scanner decodes the source and yields commands, skipping comments.
//  2. Encoder coalesces runs of + - > < into (kind, count) pairs.
//  3. BalanceValidator tracks '[' / ']' depth alongside the encoder.
//  4. Each run becomes one statement written immediately, in source order.
//  5. After the body, the tape initializer is written with the capacity
//     hint from CellEstimator, followed by the helpers HelperSet marked.
//
// There is no syntax tree and no optimization beyond run-length coalescing.
//
// An unmatched ']' aborts the pass at once. An unmatched '[' is only known
// at end of input, so it is reported after the full program was written;
// callers discard the output in both cases.
package compiler
