package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/historian/pkg/errors"
	"github.com/matzehuels/historian/pkg/history"
	histio "github.com/matzehuels/historian/pkg/io"
)

// ParseLines reads one commit per line in the form
//
//	HASH [PARENT...] [(REF, REF...)]#SUMMARY
//
// which is what `git log --pretty='%H %P%d#%s'` prints. The decoration and
// the summary are optional, and a line may be wrapped in double quotes.
// Blank lines are skipped.
func ParseLines(r io.Reader) ([]history.Record, error) {
	var records []history.Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		rec, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", n)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return records, nil
}

func parseLine(line string) (history.Record, error) {
	if len(line) >= 2 && line[0] == '"' && line[len(line)-1] == '"' {
		line = line[1 : len(line)-1]
	}

	head, summary, _ := strings.Cut(line, "#")

	var refs []string
	if open := strings.IndexByte(head, '('); open >= 0 {
		end := strings.LastIndexByte(head, ')')
		if end < open {
			return history.Record{}, fmt.Errorf("unterminated ref list in %q", head)
		}
		for _, ref := range strings.Split(head[open+1:end], ",") {
			if ref = strings.TrimSpace(ref); ref != "" {
				refs = append(refs, ref)
			}
		}
		head = head[:open]
	}

	fields := strings.Fields(head)
	if len(fields) == 0 {
		return history.Record{}, fmt.Errorf("missing commit hash")
	}
	return history.Record{
		ID:       fields[0],
		Parents:  fields[1:],
		Refs:     refs,
		Messages: []string{summary},
	}, nil
}

// Reader is a source backed by a byte stream holding either the line
// format or JSON records. The format is detected from the first non-blank
// byte.
type Reader struct {
	name string
	open func() (io.ReadCloser, error)
}

// File reads the history stored at path; "-" means standard input.
func File(path string) *Reader {
	if path == "-" {
		return Stream("stdin", os.Stdin)
	}
	return &Reader{name: path, open: func() (io.ReadCloser, error) {
		return os.Open(path)
	}}
}

// Stream reads the history from r. A stream can be loaded once.
func Stream(name string, r io.Reader) *Reader {
	return &Reader{name: name, open: func() (io.ReadCloser, error) {
		return io.NopCloser(r), nil
	}}
}

// Bytes reads the history from data.
func Bytes(name string, data []byte) *Reader {
	return &Reader{name: name, open: func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}}
}

// Name implements Source.
func (r *Reader) Name() string { return r.name }

// Load implements Source. The All option has no effect: a stream holds what
// it holds. Limit keeps the first records, see [Truncate].
func (r *Reader) Load(ctx context.Context, opts Options) ([]history.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rc, err := r.open()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", r.name)
	}
	defer rc.Close()

	br := bufio.NewReader(rc)
	var records []history.Record
	if isJSON(br) {
		records, err = histio.ReadJSON(br)
	} else {
		records, err = ParseLines(br)
	}
	if err != nil {
		return nil, err
	}
	records = Truncate(records, opts.Limit)
	if opts.Logger != nil {
		opts.Logger.Debug("loaded history", "source", r.name, "records", len(records))
	}
	return records, nil
}

// isJSON peeks at the first non-blank byte.
func isJSON(br *bufio.Reader) bool {
	for i := 1; ; i++ {
		b, err := br.Peek(i)
		if err != nil {
			return false
		}
		switch c := b[i-1]; c {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return c == '{'
		}
	}
}
