// Package historytest builds small commit graphs for tests.
package historytest

import (
	"strings"
	"testing"

	"github.com/matzehuels/historian/pkg/history"
)

// Records turns compact lines of the form "ID PARENT..." into records.
// The message of each record is its id. A trailing "[ref,ref]" field
// attaches ref labels:
//
//	historytest.Records(
//	    "M A B",
//	    "A ROOT [tag: r1]",
//	    "B ROOT",
//	    "ROOT",
//	)
func Records(lines ...string) []history.Record {
	records := make([]history.Record, 0, len(lines))
	for _, line := range lines {
		var refs []string
		if i := strings.Index(line, "["); i >= 0 {
			inner := strings.TrimSuffix(strings.TrimSpace(line[i+1:]), "]")
			for _, r := range strings.Split(inner, ",") {
				refs = append(refs, strings.TrimSpace(r))
			}
			line = line[:i]
		}
		fields := strings.Fields(line)
		records = append(records, history.Record{
			ID:       fields[0],
			Parents:  fields[1:],
			Refs:     refs,
			Messages: []string{fields[0]},
		})
	}
	return records
}

// Store loads lines into a store and binds children from the heads named
// in heads (or the first line when heads is empty). It fails the test on
// any error.
func Store(t testing.TB, heads []string, lines ...string) (*history.Store, []history.Handle) {
	t.Helper()
	s, err := history.Load(Records(lines...))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	hs, err := s.Heads(history.HeadOptions{Named: heads})
	if err != nil {
		t.Fatalf("Heads() error: %v", err)
	}
	history.Bind(s, hs, nil)
	return s, hs
}

// Handle resolves an id or fails the test.
func Handle(t testing.TB, s *history.Store, id string) history.Handle {
	t.Helper()
	h, ok := s.Lookup(id)
	if !ok {
		t.Fatalf("commit %s not in store", id)
	}
	return h
}

// Commit resolves an id to its commit or fails the test.
func Commit(t testing.TB, s *history.Store, id string) *history.Commit {
	t.Helper()
	return s.At(Handle(t, s, id))
}
