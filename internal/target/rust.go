package target

import (
	"fmt"

	"github.com/roach88/bfc/internal/ir"
)

type rustBackend struct{}

func (rustBackend) Name() string            { return Rust }
func (rustBackend) Ext() string             { return ".rs" }
func (rustBackend) DefaultCompiler() string { return "rustc" }

const rustPrologue = `#[allow(unused_variables)]
#[allow(unused_mut)]
fn main() {
    let mut stdin_buf = String::new();
    let mut buf_p = 0usize;
    let mut v = init_cells();
    let mut i = 0usize;
    v.push(0);
`

func (rustBackend) Prologue() string { return rustPrologue }

func (rustBackend) Statement(run ir.Run, depth int) string {
	var stmt string
	switch run.Kind {
	case ir.Inc:
		stmt = fmt.Sprintf("cinc(&mut v, i, %d);", run.CellBits())
	case ir.Dec:
		stmt = fmt.Sprintf("cdec(&mut v, i, %d);", run.CellBits())
	case ir.MoveRight:
		stmt = fmt.Sprintf("pinc(&mut v, &mut i, %d);", run.Count)
	case ir.MoveLeft:
		stmt = fmt.Sprintf("pdec(&mut i, %d);", run.Count)
	case ir.Read:
		stmt = "if !rc(&mut v, i, &mut stdin_buf, &mut buf_p) { return; }"
	case ir.Write:
		stmt = "wc(v[i]);"
	case ir.LoopStart:
		stmt = "while v[i] != 0 {"
	case ir.LoopEnd:
		stmt = "}"
	}
	return indent("    ", depth) + stmt + "\n"
}

func (rustBackend) Initializer(capacity int) string {
	return fmt.Sprintf(`}

fn init_cells() -> Vec<u8> {
    Vec::<u8>::with_capacity(%d)
}
`, capacity)
}

func (rustBackend) Helper(c ir.Command) (string, bool) {
	switch c {
	case ir.Inc:
		return `
fn cinc(v: &mut Vec<u8>, i: usize, x: u8) {
    v[i] = v[i].wrapping_add(x);
}
`, true
	case ir.Dec:
		return `
fn cdec(v: &mut Vec<u8>, i: usize, x: u8) {
    v[i] = v[i].wrapping_sub(x);
}
`, true
	case ir.MoveRight:
		return `
fn pinc(v: &mut Vec<u8>, i: &mut usize, x: usize) {
    if *i > usize::MAX - x {
        panic!("Right bound reached.");
    }
    *i += x;
    if *i >= v.len() {
        v.resize(1 + *i, 0);
    }
}
`, true
	case ir.MoveLeft:
		return `
fn pdec(i: &mut usize, x: usize) {
    if *i < x {
        panic!("Left bound reached.");
    }
    *i -= x;
}
`, true
	case ir.Read:
		return `
fn rc(v: &mut Vec<u8>, i: usize, buf: &mut String, buf_p: &mut usize) -> bool {
    if *buf_p >= buf.len() {
        buf.clear();
        std::io::stdin().read_line(buf).expect("Couldn't read from stdin.");
        if buf.is_empty() {
            return false;
        }
        *buf_p = 0;
    }
    v[i] = buf.as_bytes()[*buf_p];
    *buf_p += 1;
    true
}
`, true
	case ir.Write:
		return `
fn wc(c: u8) {
    use std::io::Write;
    std::io::stdout().write_all(&[c]).expect("Couldn't write to stdout.");
}
`, true
	}
	return "", false
}

// BuildArgs mirrors the classic invocation: pass-through flags first, then
// "-C opt-level=N", then the source file.
func (rustBackend) BuildArgs(b Build) []string {
	args := append([]string{}, b.Flags...)
	if b.Opt != "" {
		args = append(args, "-C", "opt-level="+b.Opt)
	}
	if b.Output != "" {
		args = append(args, "-o", b.Output)
	}
	return append(args, b.Source)
}
