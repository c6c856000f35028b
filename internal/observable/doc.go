// Package observable provides the change-notifying primitives the document
// model is built on.
//
// Signal is an ordered observer list; List is an ordered collection that
// announces every structural mutation twice, once before the backing store
// changes and once after, so dependent state (selection, views, undo
// capture) can react against both the old and the new layout. Content
// changes on a single element are announced through the same pairing.
//
// Nothing here locks. Callers serialise mutation through the command session
// the same way the rest of the editor does.
package observable
