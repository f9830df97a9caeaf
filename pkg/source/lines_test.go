package source

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/historian/pkg/errors"
)

func TestParseLines(t *testing.T) {
	in := strings.Join([]string{
		`"c3 c2 (HEAD -> main, tag: v1)#third commit"`,
		`c2 c1 b1#merge # with hash`,
		``,
		`b1 c1 (origin/topic)#`,
		`c1#first`,
		`z9`,
	}, "\n")

	records, err := ParseLines(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseLines() error: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("got %d records, want 5", len(records))
	}

	tests := []struct {
		id      string
		parents []string
		refs    []string
		msg     string
	}{
		{"c3", []string{"c2"}, []string{"HEAD -> main", "tag: v1"}, "third commit"},
		{"c2", []string{"c1", "b1"}, nil, "merge # with hash"},
		{"b1", []string{"c1"}, []string{"origin/topic"}, ""},
		{"c1", nil, nil, "first"},
		{"z9", nil, nil, ""},
	}
	for i, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := records[i]
			if got.ID != tt.id {
				t.Errorf("ID = %q, want %q", got.ID, tt.id)
			}
			if !slices.Equal(got.Parents, tt.parents) && !(len(got.Parents) == 0 && len(tt.parents) == 0) {
				t.Errorf("Parents = %v, want %v", got.Parents, tt.parents)
			}
			if !slices.Equal(got.Refs, tt.refs) {
				t.Errorf("Refs = %v, want %v", got.Refs, tt.refs)
			}
			if len(got.Messages) != 1 || got.Messages[0] != tt.msg {
				t.Errorf("Messages = %q, want [%q]", got.Messages, tt.msg)
			}
		})
	}
}

func TestParseLinesErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing hash", "#just a message"},
		{"unterminated refs", "a1 (main#msg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLines(strings.NewReader("ok1\n" + tt.in))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Fatalf("error = %v, want INVALID_FORMAT", err)
			}
			if !strings.Contains(err.Error(), "line 2") {
				t.Errorf("error %q should name line 2", err)
			}
		})
	}
}

func TestReaderDetectsFormat(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		data string
	}{
		{"lines", "b2 a1#second\na1#first\n"},
		{"json", "\n  {\"commits\": [{\"id\": \"b2\", \"parents\": [\"a1\"]}, {\"id\": \"a1\"}]}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Bytes(tt.name, []byte(tt.data)).Load(ctx, Options{})
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if len(records) != 2 || records[0].ID != "b2" || records[1].ID != "a1" {
				t.Errorf("records = %+v", records)
			}
		})
	}
}

func TestReaderLimit(t *testing.T) {
	records, err := Bytes("t", []byte("c a\nb a\na\n")).Load(context.Background(), Options{Limit: 2})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	if err := os.WriteFile(path, []byte("b a#b\na#a\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := File(path)
	if src.Name() != path {
		t.Errorf("Name() = %q", src.Name())
	}
	records, err := src.Load(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records", len(records))
	}

	_, err = File(filepath.Join(t.TempDir(), "nope")).Load(context.Background(), Options{})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file error = %v, want NOT_FOUND", err)
	}
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Bytes("t", []byte("a\n")).Load(ctx, Options{}); err == nil {
		t.Error("Load() with a canceled context should fail")
	}
}

func TestTruncate(t *testing.T) {
	records, err := ParseLines(strings.NewReader("m a b\na r\nb r\nr\n"))
	if err != nil {
		t.Fatal(err)
	}
	kept := Truncate(records, 2)
	if len(kept) != 2 {
		t.Fatalf("got %d records, want 2", len(kept))
	}
	if !slices.Equal(kept[0].Parents, []string{"a"}) {
		t.Errorf("m parents = %v, want [a]", kept[0].Parents)
	}
	if len(kept[1].Parents) != 0 {
		t.Errorf("a parents = %v, want none", kept[1].Parents)
	}
	if got := Truncate(records, 0); len(got) != 4 {
		t.Errorf("Truncate(0) kept %d, want 4", len(got))
	}
}
