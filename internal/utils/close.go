package utils

import (
	"io"
)

// drainLimit caps how much of an unread body is discarded before closing,
// so keep-alive connections can be reused without reading huge payloads.
const drainLimit = 64 << 10

// Close closes c and ignores any error.
// Use for best-effort cleanup in defer where error handling is not critical.
func Close(c io.Closer) {
	_ = c.Close()
}

// DrainAndClose discards what is left of an HTTP response body and closes it.
func DrainAndClose(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, drainLimit))
	_ = rc.Close()
}
