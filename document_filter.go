package fulltext

import (
	"sync"

	"github.com/RoaringBitmap/roaring"
)

// DocumentFilter restricts a search to a set of document IDs.
// A nil filter admits every document.
type DocumentFilter struct {
	bitmap *roaring.Bitmap
}

// documentFilterPool is a sync.Pool for DocumentFilter to reduce allocations
var documentFilterPool = sync.Pool{
	New: func() any {
		return &DocumentFilter{
			bitmap: roaring.New(),
		}
	},
}

// NewDocumentFilter creates a filter from a list of document IDs.
// If the list is empty, it returns nil (no filtering).
// Return the filter with ReturnDocumentFilter when done.
func NewDocumentFilter(documentIDs []uint32) *DocumentFilter {
	if len(documentIDs) == 0 {
		return nil
	}

	filter := documentFilterPool.Get().(*DocumentFilter)
	filter.bitmap.Clear() // Reset bitmap from pool
	filter.bitmap.AddMany(documentIDs)
	return filter
}

// ReturnDocumentFilter returns a filter to the pool.
// Do not use the filter after calling this method.
func ReturnDocumentFilter(filter *DocumentFilter) {
	if filter != nil {
		documentFilterPool.Put(filter)
	}
}

// IsEligible reports whether a document passes the filter.
func (f *DocumentFilter) IsEligible(docID uint32) bool {
	if f == nil {
		return true
	}
	return f.bitmap.Contains(docID)
}

// ShouldSkip returns true if the document should be skipped (not eligible).
func (f *DocumentFilter) ShouldSkip(docID uint32) bool {
	return !f.IsEligible(docID)
}

// Restrict removes the ineligible documents from candidates in place.
func (f *DocumentFilter) Restrict(candidates *roaring.Bitmap) {
	if f == nil {
		return
	}
	candidates.And(f.bitmap)
}

// Count returns the number of eligible documents, or 0 for a nil filter.
func (f *DocumentFilter) Count() uint64 {
	if f == nil {
		return 0
	}
	return f.bitmap.GetCardinality()
}

// IsEmpty reports whether no document is eligible. A nil filter is never empty.
func (f *DocumentFilter) IsEmpty() bool {
	if f == nil {
		return false
	}
	return f.bitmap.IsEmpty()
}
