package cmd

import (
	"context"
	"io"
	"os"
)

type ioKey struct{}

// ioState holds the streams a command reads codes from and writes to.
type ioState struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func withIO(ctx context.Context, in io.Reader, out, err io.Writer) context.Context {
	return context.WithValue(ctx, ioKey{}, ioState{in: in, out: out, err: err})
}

// ioFromContext fills every stream missing from ctx with the process one.
func ioFromContext(ctx context.Context) ioState {
	var st ioState
	if ctx != nil {
		st, _ = ctx.Value(ioKey{}).(ioState)
	}
	if st.in == nil {
		st.in = os.Stdin
	}
	if st.out == nil {
		st.out = os.Stdout
	}
	if st.err == nil {
		st.err = os.Stderr
	}
	return st
}

func stdinFromContext(ctx context.Context) io.Reader  { return ioFromContext(ctx).in }
func stdoutFromContext(ctx context.Context) io.Writer { return ioFromContext(ctx).out }
func stderrFromContext(ctx context.Context) io.Writer { return ioFromContext(ctx).err }
