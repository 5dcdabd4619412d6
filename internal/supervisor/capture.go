package supervisor

import "bytes"

// MaxCaptureBytes bounds how much of each output stream is retained for
// the per-run log. A runaway pipeline can otherwise exhaust memory during
// a long endurance session.
const MaxCaptureBytes = 1 << 20 // 1 MiB per stream

// limitWriter writes up to limit bytes to buf, then silently discards the
// rest. All bytes are reported as consumed to avoid short-write errors.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
