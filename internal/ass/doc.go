// Package ass models an Advanced SubStation Alpha subtitle document.
//
// A File aggregates ordered script metadata (Meta), a StyleList and an
// EventList. Both lists are observable.List instances specialised to keep
// each entity's back-reference to its owning list consistent: an entity is
// owned by at most one list, detached copies carry no owner, and every field
// write on an attached entity is announced through the owner as an
// about-to-change/changed pair scoped to the entity's current index.
//
// Read and (*File).Save implement the on-disk text format. Event text is
// stored with two editor-private tags, {TIME:start,end} carrying exact
// millisecond timestamps and {NOTE:...} carrying the author note, so that
// metadata the ASS columns cannot express survives a save/load cycle. See
// PackText and UnpackText.
package ass
