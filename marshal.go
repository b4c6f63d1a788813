package ferry

import (
	"bytes"
	"context"
	"io"
	"time"
)

// Marshal encodes v with the given codec and returns the produced bytes.
func Marshal(ctx context.Context, c Codec, v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := MarshalTo(ctx, &buf, c, v, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalTo encodes v with the given codec, writing the output to w. Sinks
// that buffer are flushed before returning. When encoding fails, a sink that
// implements io.Closer is closed instead of flushed.
func MarshalTo(ctx context.Context, w io.Writer, c Codec, v any, opts ...Option) error {
	start := time.Now()
	root := Classify(v)
	emitEncodeStart(ctx, c.ContentType(), root)

	cw := &countingWriter{w: w}
	var retErr error
	defer func() {
		emitEncodeComplete(ctx, c.ContentType(), root, int(cw.n), time.Since(start), retErr)
	}()

	if err := ctx.Err(); err != nil {
		retErr = err
		return retErr
	}

	sink := c.NewSink(cw)
	if retErr = Encode(sink, v, opts...); retErr != nil {
		if cl, ok := sink.(io.Closer); ok {
			_ = cl.Close()
		}
		return retErr
	}
	if f, ok := sink.(Flusher); ok {
		retErr = sinkError(root, f.Flush())
	}
	return retErr
}

// countingWriter tracks output size for encode signals.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
