// Package ui implements the Nomadex terminal interface with Bubble Tea.
//
// The interface has three views. The catalog list shows the voyage records
// with instant substring search, a visibility filter and four sort orders.
// The detail view shows one record with its journal entries. The authoring
// form creates or edits a record, with a debounced location search, a
// keyboard-driven map panel and a staged image gallery.
//
// All remote work runs as Bubble Tea commands; completions re-enter the
// update loop as messages. The search pipeline and the map's reverse
// geocoding resolve on their own goroutines and bridge back through
// Program.Send, so the model itself is only ever touched from the update
// loop.
package ui
