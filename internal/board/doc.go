// Package board holds the three-column task board and its persisted snapshot.
//
// The board state is three ordered lists keyed by status:
//
//	{
//	  "todo": [
//	    {"id": "5d0c8f5e-...", "content": "Buy milk"}
//	  ],
//	  "inProgress": [],
//	  "done": []
//	}
//
// The same JSON document is the snapshot written to the storage slot after
// every mutation.
//
// # Store
//
// A Store owns the state and a Slot. Add, Remove and Move compute the next
// state, persist it, and only then make it current, so the in-memory board
// and the slot never disagree. Operations that would not change the board
// (blank content, unknown task id, moving onto the source column) return
// false without touching the slot.
//
// ClearAll empties the board and deletes the slot rather than writing an
// empty snapshot.
//
// # Hydration
//
// Hydrate reads the slot once at startup. A missing, unparseable or invalid
// snapshot leaves the board empty and the cause is logged. A failed read is
// returned instead, and the store refuses to persist until the slot has been
// read, so a transient backend error cannot overwrite a saved board.
// Unknown fields are dropped. Validation uses the embedded JSON Schema
// (draft 2020-12) and then checks that no task id appears twice.
//
// # Statistics
//
// Stats derives the totals shown above the board. CompletionRate is the
// share of tasks in "done", rounded to the nearest whole percent, and 0 for
// an empty board.
package board
