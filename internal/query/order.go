package query

import (
	"bytes"
	"cmp"
	"container/heap"
	"slices"

	"salesdesk/internal/model"
	"salesdesk/pkg/pagination"
)

// Compare orders two records under spec. Equal keys fall back to source
// position, so the order is total and identical in every execution strategy.
func Compare(spec model.SortSpec, a, b *model.SalesRecord) int {
	var c int
	switch spec.Key {
	case model.SortByDate:
		c = cmp.Compare(a.Date, b.Date)
	case model.SortByQuantity:
		c = cmp.Compare(a.Quantity, b.Quantity)
	case model.SortByCustomerName:
		c = bytes.Compare(a.NameKey, b.NameKey)
	}
	if spec.Key != model.SortNone && spec.Descending() {
		c = -c
	}
	if c != 0 {
		return c
	}
	return cmp.Compare(a.Seq, b.Seq)
}

// Sort orders recs in place under spec.
func Sort(recs []model.SalesRecord, spec model.SortSpec) {
	slices.SortFunc(recs, func(a, b model.SalesRecord) int {
		return Compare(spec, &a, &b)
	})
}

// OrderAndPage orders a fully materialized matching set and cuts out one page.
func OrderAndPage(matching []model.SalesRecord, spec model.SortSpec, req model.PageRequest) ([]model.SalesRecord, pagination.Meta) {
	meta := pagination.Compute(int64(len(matching)), req.Page, req.PageSize)
	if meta.Empty() {
		return []model.SalesRecord{}, meta
	}

	ordered := slices.Clone(matching)
	Sort(ordered, spec)

	start := int(meta.Offset())
	end := min(start+meta.PageSize, len(ordered))
	return ordered[start:end], meta
}

// window retains only the records a page can be cut from while the matching
// set streams past.
type window interface {
	offer(rec model.SalesRecord)
	page(meta pagination.Meta) []model.SalesRecord
}

func newWindow(spec model.SortSpec, req model.PageRequest) window {
	page := max(req.Page, 1)
	if req.PageSize <= 0 {
		return emptyWindow{}
	}
	if spec.Key == model.SortNone {
		return &naturalWindow{size: req.PageSize, target: page - 1}
	}
	return newSortedWindow(spec, page, req.PageSize)
}

type emptyWindow struct{}

func (emptyWindow) offer(model.SalesRecord) {}

func (emptyWindow) page(pagination.Meta) []model.SalesRecord { return []model.SalesRecord{} }

// naturalWindow keeps the requested window of an unordered stream and the
// most recent window, which ends up being the last page. Memory is two pages.
type naturalWindow struct {
	size   int
	target int
	n      int
	wanted []model.SalesRecord
	latest []model.SalesRecord
}

func (w *naturalWindow) offer(rec model.SalesRecord) {
	idx := w.n / w.size
	if w.n%w.size == 0 {
		w.latest = w.latest[:0]
	}
	w.n++
	w.latest = append(w.latest, rec)
	if idx == w.target {
		w.wanted = append(w.wanted, rec)
	}
}

func (w *naturalWindow) page(meta pagination.Meta) []model.SalesRecord {
	switch {
	case meta.Empty():
		return []model.SalesRecord{}
	case meta.CurrentPage-1 == w.target:
		return append([]model.SalesRecord{}, w.wanted...)
	default:
		return append([]model.SalesRecord{}, w.latest...)
	}
}

// sortedWindow keeps the first page*size records in order, plus the last
// size records in case the requested page turns out to be past the end and is
// clamped to the last page.
type sortedWindow struct {
	head *boundedHeap
	tail *boundedHeap
	spec model.SortSpec
	req  int
	size int
}

func newSortedWindow(spec model.SortSpec, page, size int) *sortedWindow {
	asc := func(a, b *model.SalesRecord) int { return Compare(spec, a, b) }
	desc := func(a, b *model.SalesRecord) int { return -Compare(spec, a, b) }
	return &sortedWindow{
		head: &boundedHeap{limit: page * size, cmp: asc},
		tail: &boundedHeap{limit: size, cmp: desc},
		spec: spec,
		req:  page,
		size: size,
	}
}

func (w *sortedWindow) offer(rec model.SalesRecord) {
	w.head.offer(rec)
	w.tail.offer(rec)
}

func (w *sortedWindow) page(meta pagination.Meta) []model.SalesRecord {
	if meta.Empty() {
		return []model.SalesRecord{}
	}
	if meta.CurrentPage == w.req {
		kept := w.head.items
		Sort(kept, w.spec)
		start := int(meta.Offset())
		end := min(start+w.size, len(kept))
		return append([]model.SalesRecord{}, kept[start:end]...)
	}
	kept := w.tail.items
	Sort(kept, w.spec)
	return append([]model.SalesRecord{}, kept[len(kept)-meta.LastPageLen():]...)
}

// boundedHeap retains the limit smallest records under cmp. The root is the
// largest retained record, evicted first.
type boundedHeap struct {
	items []model.SalesRecord
	limit int
	cmp   func(a, b *model.SalesRecord) int
}

func (h *boundedHeap) offer(rec model.SalesRecord) {
	if h.limit <= 0 {
		return
	}
	if len(h.items) < h.limit {
		heap.Push(h, rec)
		return
	}
	if h.cmp(&rec, &h.items[0]) < 0 {
		h.items[0] = rec
		heap.Fix(h, 0)
	}
}

func (h *boundedHeap) Len() int { return len(h.items) }

func (h *boundedHeap) Less(i, j int) bool { return h.cmp(&h.items[i], &h.items[j]) > 0 }

func (h *boundedHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *boundedHeap) Push(x any) { h.items = append(h.items, x.(model.SalesRecord)) }

func (h *boundedHeap) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}
