// Package history provides the commit store every layout pass operates on.
//
// # Overview
//
// A [Store] is an arena of [Commit] values addressed by stable integer
// [Handle]s. Parent and child links, as well as the doubly linked row chain
// built by the linearizer (Top/Bottom), are stored as handles, so passes can
// splice the chain or rewrite links without aliasing a shared id-to-record map.
//
// The store is filled from [Record]s supplied by a history source:
//
//	s, err := history.Load(records)
//	if err != nil {
//	    // MISSING_PARENT, DUPLICATE_COMMIT or INVALID_ID
//	}
//	heads, err := s.Heads(history.HeadOptions{All: true})
//	history.Bind(s, heads, logger)
//
// # Passes and markers
//
// Each pass (binding, reduction, row and column assignment) keeps its own
// "done" marker local to the call, so running a pass twice never observes
// state left behind by a previous run. Passes that write layout fields reset
// exactly the fields they own before starting ([Store.ResetRows],
// [Store.ResetColumns]).
//
// # Static columns
//
// Commits whose refs follow a release or hotfix naming convention are pinned
// to a fixed column. [StaticRule] describes one convention; [DefaultStaticRules]
// holds the built-in ones and [Store.PinStatic] applies a rule set.
package history
