package resume

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jmartin/resume-dash/internal/section"
	"github.com/jmartin/resume-dash/internal/selection"
	"github.com/jmartin/resume-dash/internal/tempedit"
)

// LibraryWriter submits a section update that creates a new library
// version and returns the stored snapshot.
type LibraryWriter interface {
	UpdateSection(ctx context.Context, id section.ID, content section.Content) (*section.Section, error)
}

// Reconciler merges temporary edits over the selection without mutating
// the library. Edited content is used for display and travels to the
// generator in a side channel; the refs sent on the wire keep pointing at
// the original versions.
type Reconciler struct {
	Edits   *tempedit.Store
	Library LibraryWriter
}

// EffectiveContent returns the content to show for a flavor line: the
// temporary edit when one exists, the library content otherwise. edited
// reports which one won.
func (r *Reconciler) EffectiveContent(lib *section.Library, id section.ID) (content section.Content, edited, ok bool) {
	if e, found := r.Edits.Get(id); found {
		return e.Content, true, true
	}
	f, found := lib.Flavor(id.Type, id.Key, id.Flavor)
	if !found {
		return section.Content{}, false, false
	}
	return f.Content, false, true
}

// SaveToLibrary submits the edit for id as a section update, repoints the
// selection at the new version, and removes the edit. The edit survives
// when the update fails.
func (r *Reconciler) SaveToLibrary(ctx context.Context, sel *selection.Selection, id section.ID) error {
	edit, ok := r.Edits.Get(id)
	if !ok {
		return fmt.Errorf("no temporary edit for %s", id)
	}
	saved, err := r.Library.UpdateSection(ctx, id, edit.Content)
	if err != nil {
		return fmt.Errorf("failed to save %s to library: %w", id, err)
	}
	if sel != nil {
		if cur, selected := sel.Get(id.Type, id.Key); selected && cur.Flavor == id.Flavor {
			sel.SetFlavor(id.Type, id.Key, id.Flavor, saved.Version)
		}
	}
	return r.Edits.Remove(id)
}

// SaveAll applies SaveToLibrary to every edit in deterministic order.
// Semantics are at-least-once per edit, not batch-atomic: each success is
// removed from the store as it lands, each failure stays, and the returned
// error names every edit that failed.
func (r *Reconciler) SaveAll(ctx context.Context, sel *selection.Selection) error {
	var failures []EditFailure
	for _, edit := range r.Edits.Sorted() {
		if err := r.SaveToLibrary(ctx, sel, edit.ID()); err != nil {
			failures = append(failures, EditFailure{ID: edit.ID(), Err: err})
		}
	}
	if len(failures) > 0 {
		return &SaveAllError{Failures: failures}
	}
	return nil
}

// EditFailure records one edit that could not be saved.
type EditFailure struct {
	ID  section.ID
	Err error
}

// SaveAllError reports which individual edits failed during SaveAll.
type SaveAllError struct {
	Failures []EditFailure
}

func (e *SaveAllError) Error() string {
	ids := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.ID.String())
	}
	sort.Strings(ids)
	return fmt.Sprintf("failed to save %d edit(s): %s", len(e.Failures), strings.Join(ids, ", "))
}
