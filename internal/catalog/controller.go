package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nomadex/nomadex/internal/store"
)

// ToastLifetime is how long a toast stays visible before it dismisses
// itself. A newer toast replaces the current one immediately.
const ToastLifetime = 3500 * time.Millisecond

// ToastVariant distinguishes success from error styling.
type ToastVariant int

const (
	ToastSuccess ToastVariant = iota
	ToastError
)

// Toast is the transient status line shown after a settled operation.
type Toast struct {
	Message string
	Variant ToastVariant
}

// SaveOutcome describes how a submission settled.
type SaveOutcome struct {
	Saved    store.Voyage
	Created  bool
	Fallback bool
}

// Controller owns the canonical catalog and every mutation against the
// remote store. All reads return clones; the canonical slice never escapes.
//
// Mutations settle synchronously from the caller's perspective but callers
// are expected to run them off the UI loop and to follow every settled
// mutation with Reload so the catalog reconverges with the store.
type Controller struct {
	mu       sync.Mutex
	remote   store.Recorder
	collator *collate.Collator

	voyages    []store.Voyage
	query      Query
	selectedID int64
	editingID  int64
	deletingID int64

	toast    Toast
	toastSeq uint64
	toastOn  bool
}

// NewController builds a controller syncing against remote. Titles sort
// with the collation rules of locale.
func NewController(remote store.Recorder, locale string) *Controller {
	return &Controller{
		remote:   remote,
		collator: collate.New(language.Make(locale), collate.IgnoreCase),
	}
}

// Reload replaces the canonical catalog with the store's current public
// records, normalized and ordered most recent departure first. On error the
// previous catalog is kept and an error toast is raised.
func (c *Controller) Reload(ctx context.Context) error {
	voyages, err := c.remote.ListPublicVoyages(ctx)
	if err != nil {
		c.mu.Lock()
		c.showToastLocked("Unable to load voyages. Check the store connection.", ToastError)
		c.mu.Unlock()
		return err
	}

	normalized := make([]store.Voyage, len(voyages))
	for i, v := range voyages {
		normalized[i] = v.Normalize()
	}
	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[j].ParsedStartDate().Before(normalized[i].ParsedStartDate())
	})

	c.mu.Lock()
	c.voyages = normalized
	c.mu.Unlock()
	return nil
}

// Save persists a submission. A payload without an id creates; a payload
// with an id updates in place. When the update target no longer exists in
// the store the record is recreated from the same payload minus the stale
// id, the stale entry leaves the catalog, and the recreated record takes the
// top of the list. Any other failure leaves the catalog untouched.
func (c *Controller) Save(ctx context.Context, payload store.Voyage) (SaveOutcome, error) {
	if payload.ID == 0 {
		saved, err := c.remote.CreateVoyage(ctx, payload)
		if err != nil {
			c.mu.Lock()
			c.showToastLocked("Unable to save the voyage. Try again later.", ToastError)
			c.mu.Unlock()
			return SaveOutcome{}, err
		}
		c.mu.Lock()
		c.prependLocked(saved.Normalize())
		c.showToastLocked("Voyage created.", ToastSuccess)
		c.mu.Unlock()
		return SaveOutcome{Saved: saved, Created: true}, nil
	}

	saved, err := c.remote.UpdateVoyage(ctx, payload)
	if errors.Is(err, store.ErrNotFound) {
		recreated := payload
		recreated.ID = 0
		saved, err = c.remote.CreateVoyage(ctx, recreated)
		if err != nil {
			c.mu.Lock()
			c.showToastLocked("Unable to save the voyage. Try again later.", ToastError)
			c.mu.Unlock()
			return SaveOutcome{}, err
		}
		c.mu.Lock()
		c.removeLocked(payload.ID)
		c.prependLocked(saved.Normalize())
		c.showToastLocked("Voyage updated.", ToastSuccess)
		c.mu.Unlock()
		return SaveOutcome{Saved: saved, Created: true, Fallback: true}, nil
	}
	if err != nil {
		c.mu.Lock()
		c.showToastLocked("Unable to save the voyage. Try again later.", ToastError)
		c.mu.Unlock()
		return SaveOutcome{}, err
	}

	c.mu.Lock()
	c.replaceLocked(saved.Normalize())
	c.showToastLocked("Voyage updated.", ToastSuccess)
	c.mu.Unlock()
	return SaveOutcome{Saved: saved}, nil
}

// Delete removes a record. A record already gone from the store counts as
// deleted; only a live failure keeps it in the catalog and raises an error
// toast.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	c.mu.Lock()
	c.deletingID = id
	c.mu.Unlock()

	err := c.remote.DeleteVoyage(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletingID = 0

	if err != nil && !errors.Is(err, store.ErrNotFound) {
		c.showToastLocked("Unable to delete the voyage right now.", ToastError)
		return err
	}
	c.removeLocked(id)
	c.showToastLocked("Voyage deleted.", ToastSuccess)
	return nil
}

// Visible projects the catalog through the current query.
func (c *Controller) Visible() []store.Voyage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ApplyView(c.voyages, c.query, c.collator)
}

// Query returns the current view parameters.
func (c *Controller) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// SetSearchTerm updates the view's substring filter.
func (c *Controller) SetSearchTerm(term string) {
	c.mu.Lock()
	c.query.Term = term
	c.mu.Unlock()
}

// SetVisibility updates the view's visibility filter.
func (c *Controller) SetVisibility(f VisibilityFilter) {
	c.mu.Lock()
	c.query.Visibility = f
	c.mu.Unlock()
}

// SetSort updates the view's sort order.
func (c *Controller) SetSort(s SortOption) {
	c.mu.Lock()
	c.query.Sort = s
	c.mu.Unlock()
}

// Select marks a record as the open detail view.
func (c *Controller) Select(id int64) {
	c.mu.Lock()
	c.selectedID = id
	c.mu.Unlock()
}

// ClearSelection closes the detail view.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	c.selectedID = 0
	c.mu.Unlock()
}

// Selected returns the record open in the detail view, if it still exists.
func (c *Controller) Selected() (store.Voyage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.findLocked(c.selectedID)
}

// StartEditing marks a record as under edit.
func (c *Controller) StartEditing(id int64) {
	c.mu.Lock()
	c.editingID = id
	c.mu.Unlock()
}

// StopEditing clears the edit marker.
func (c *Controller) StopEditing() {
	c.mu.Lock()
	c.editingID = 0
	c.mu.Unlock()
}

// EditingID returns the id under edit, zero when none.
func (c *Controller) EditingID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingID
}

// DeletingID returns the id of a delete in flight, zero when none. The list
// renders that row as pending instead of removing it early.
func (c *Controller) DeletingID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deletingID
}

// Find returns the catalog record with the given id.
func (c *Controller) Find(id int64) (store.Voyage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.findLocked(id)
}

// Toast returns the visible toast, if any.
func (c *Controller) Toast() (Toast, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toast, c.toastOn
}

// ToastSeq returns the generation of the visible toast. Callers schedule a
// dismissal carrying this value; a newer toast invalidates older timers.
func (c *Controller) ToastSeq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toastSeq
}

// ExpireToast dismisses the toast only if seq still identifies it.
func (c *Controller) ExpireToast(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq == c.toastSeq {
		c.toastOn = false
	}
}

// ShowToast raises a toast outside the mutation paths, replacing any
// current one. Returns the new generation for dismissal scheduling.
func (c *Controller) ShowToast(message string, variant ToastVariant) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showToastLocked(message, variant)
	return c.toastSeq
}

func (c *Controller) showToastLocked(message string, variant ToastVariant) {
	c.toastSeq++
	c.toast = Toast{Message: message, Variant: variant}
	c.toastOn = true
}

func (c *Controller) findLocked(id int64) (store.Voyage, bool) {
	if id == 0 {
		return store.Voyage{}, false
	}
	for _, v := range c.voyages {
		if v.ID == id {
			return v, true
		}
	}
	return store.Voyage{}, false
}

func (c *Controller) prependLocked(v store.Voyage) {
	c.voyages = append([]store.Voyage{v}, c.voyages...)
}

func (c *Controller) replaceLocked(v store.Voyage) {
	for i := range c.voyages {
		if c.voyages[i].ID == v.ID {
			c.voyages[i] = v
			return
		}
	}
	c.prependLocked(v)
}

// removeLocked drops a record and clears any reference pointing at it so no
// detail view or edit session outlives the row.
func (c *Controller) removeLocked(id int64) {
	kept := c.voyages[:0]
	for _, v := range c.voyages {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	c.voyages = kept
	if c.selectedID == id {
		c.selectedID = 0
	}
	if c.editingID == id {
		c.editingID = 0
	}
}
