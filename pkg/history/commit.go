package history

// Handle addresses a commit inside a [Store]. Handles are dense indices
// starting at zero and stay valid for the lifetime of the store.
type Handle int32

// None is the sentinel handle for "no commit" (chain ends, unset links).
const None Handle = -1

// Unassigned marks a row or column that no pass has set yet.
const Unassigned = -1

// Record is one commit as supplied by a history source.
type Record struct {
	ID       string   `json:"id"`
	Parents  []string `json:"parents,omitempty"`
	Refs     []string `json:"refs,omitempty"`
	Messages []string `json:"messages"`
}

// Commit is a vertex of the history graph together with its layout fields.
//
// A Commit may also stand for a chain of commits folded by the reducer. In
// that case TopID and BottomID name the endpoints of the run, Size counts the
// folded commits and Messages holds their lines from top to bottom. For a
// plain commit TopID == BottomID == ID and Size == 1.
type Commit struct {
	ID       string
	TopID    string
	BottomID string
	Size     int

	Parents  []Handle // ordered as supplied; the first parent is the mainline
	Children []Handle // ordered by discovery from the heads, set by Bind
	Refs     []string
	Messages []string

	// Pin is the fixed column requested by a static rule, or Unassigned.
	Pin int

	Row    int
	Column int
	Border int

	// Top and Bottom link the commit to its neighbours in print order.
	Top    Handle
	Bottom Handle
}

// Static reports whether the commit is pinned to a fixed column.
func (c *Commit) Static() bool { return c.Pin != Unassigned }

// Summary returns the first message line, or "" when there is none.
func (c *Commit) Summary() string {
	if len(c.Messages) == 0 {
		return ""
	}
	return c.Messages[0]
}

// Short returns the id abbreviated to seven characters, as git does.
func (c *Commit) Short() string { return Abbrev(c.ID) }

// Abbrev shortens a commit id to seven characters.
func Abbrev(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}

func (c *Commit) resetRow() {
	c.Row = Unassigned
	c.Top = None
	c.Bottom = None
}

func (c *Commit) resetColumn() {
	c.Column = Unassigned
	c.Border = Unassigned
}
