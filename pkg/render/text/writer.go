package text

import (
	"bufio"
	"errors"
	"io"
	"iter"
	"os"
	"syscall"
)

// WriteTo writes lines to w, one per line, and returns the number of bytes
// written. A reader that goes away mid-stream ends the output without an
// error and stops the sequence.
func WriteTo(w io.Writer, lines iter.Seq[Line]) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for l := range lines {
		m, err := bw.WriteString(l.String())
		n += int64(m)
		if err == nil {
			err = bw.WriteByte('\n')
			if err == nil {
				n++
			}
		}
		if err != nil {
			return n, quiet(err)
		}
	}
	return n, quiet(bw.Flush())
}

// IsBrokenPipe reports whether err means the reader closed its end.
func IsBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, os.ErrClosed)
}

func quiet(err error) error {
	if err == nil || IsBrokenPipe(err) {
		return nil
	}
	return err
}
