// Package todo defines the todo record, its status predicates, and the JSON
// export file used by `todo export` and `todo import`.
//
// A todo tracks two independent flags rather than a single status:
//
//	is_completed  reminder_off  meaning
//	false         false         active, reminder live
//	false         true          overdue, reminder silenced
//	true          true          done
//
// The combination is_completed=true, reminder_off=false never occurs.
//
// # Due dates
//
// A missing due date is a nil *time.Time. Overdue checks compare calendar
// dates only: a todo due today is not overdue until tomorrow.
//
// # Export Format
//
//	{
//	  "schema_version": 1,
//	  "exported_at": "2024-01-01T00:00:00Z",
//	  "todos": [
//	    {
//	      "id": 1,
//	      "title": "Pay rent",
//	      "description": "Optional",
//	      "is_completed": false,
//	      "reminder_off": false,
//	      "created_at": "2024-01-01T00:00:00Z",
//	      "due_date": "2024-01-05T00:00:00Z"
//	    }
//	  ]
//	}
//
// Files are written with 2-space indentation and a trailing newline. They are
// validated against the bundled JSON Schema (draft 2020-12) before import, or
// with minimal structural checks when no schema can be compiled.
package todo
