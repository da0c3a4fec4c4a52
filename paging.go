package bough

import "math"

// PagingScrollView is a ScrollView that always comes to rest on a page
// boundary. Pages are viewport-sized and laid out along one axis, separated
// by the page margin.
type PagingScrollView struct {
	*ScrollView

	// PageChanged fires with the new page index whenever the current page
	// changes.
	PageChanged Signal[int]

	numPages   int
	page       int
	pageMargin float64
	horizontal bool
	pages      []*View
}

// NewPagingScrollView creates a horizontal paging view with numPages pages.
func NewPagingScrollView(name string, numPages int) *PagingScrollView {
	p := &PagingScrollView{
		ScrollView: NewScrollView(name),
		numPages:   max(numPages, 0),
		horizontal: true,
	}
	p.policy = p
	p.SetVerticalScrollEnabled(false)
	p.SetBehavior(p)
	return p
}

// NumPages returns the number of pages.
func (p *PagingScrollView) NumPages() int {
	return p.numPages
}

// SetNumPages changes the page count. The current page is clamped and
// views placed on pages past the new count are removed from the content.
func (p *PagingScrollView) SetNumPages(n int) {
	p.numPages = max(n, 0)
	if len(p.pages) > p.numPages {
		for _, v := range p.pages[p.numPages:] {
			if v != nil && v.Parent() == p.ContentView() {
				v.RemoveFromSuperview()
			}
		}
		clear(p.pages[p.numPages:])
		p.pages = p.pages[:p.numPages]
	}
	if p.page >= p.numPages {
		p.setPage(max(p.numPages-1, 0))
	}
	p.SetNeedsLayout()
}

// PageMargin returns the gap between pages.
func (p *PagingScrollView) PageMargin() float64 {
	return p.pageMargin
}

// SetPageMargin sets the gap between pages.
func (p *PagingScrollView) SetPageMargin(m float64) {
	p.pageMargin = math.Max(m, 0)
	p.SetNeedsLayout()
}

// Horizontal reports whether pages are laid out left to right.
func (p *PagingScrollView) Horizontal() bool {
	return p.horizontal
}

// SetHorizontal chooses the paging axis. Scrolling on the other axis is
// locked.
func (p *PagingScrollView) SetHorizontal(horizontal bool) {
	p.horizontal = horizontal
	p.SetHorizontalScrollEnabled(horizontal)
	p.SetVerticalScrollEnabled(!horizontal)
	p.SetNeedsLayout()
}

// CurrentPage returns the index of the current page.
func (p *PagingScrollView) CurrentPage() int {
	return p.page
}

// SetPageView places v as the content of page i, replacing any previous
// view for that page. v is sized to the page in Layout.
func (p *PagingScrollView) SetPageView(i int, v *View) {
	if i < 0 || i >= p.numPages {
		panic("bough: page index out of range")
	}
	if len(p.pages) < p.numPages {
		p.pages = append(p.pages, make([]*View, p.numPages-len(p.pages))...)
	}
	if old := p.pages[i]; old != nil && old != v {
		old.RemoveFromSuperview()
	}
	p.pages[i] = v
	if v != nil {
		p.ContentView().AddSubview(v)
	}
	p.SetNeedsLayout()
}

// PageView returns the view placed on page i, or nil.
func (p *PagingScrollView) PageView(i int) *View {
	if i < 0 || i >= len(p.pages) {
		return nil
	}
	return p.pages[i]
}

// pageStride is the distance between the origins of consecutive pages.
func (p *PagingScrollView) pageStride() float64 {
	s := p.Size()
	if p.horizontal {
		return s.Width + p.pageMargin
	}
	return s.Height + p.pageMargin
}

// PageBounds returns the rectangle of page i in content coordinates.
func (p *PagingScrollView) PageBounds(i int) Rect {
	s := p.Size()
	o := float64(i) * p.pageStride()
	if p.horizontal {
		return Rect{o, 0, s.Width, s.Height}
	}
	return Rect{0, o, s.Width, s.Height}
}

// pageOffset is the content offset that shows page i.
func (p *PagingScrollView) pageOffset(i int) Vec2 {
	return p.PageBounds(i).Pos()
}

func (p *PagingScrollView) decelerationBoundaries() Rect {
	return RectFromPosSize(p.pageOffset(p.page), Size{})
}

// Layout sizes the content to hold every page and places page views.
func (p *PagingScrollView) Layout() {
	s := p.Size()
	extent := math.Max(float64(p.numPages)*p.pageStride()-p.pageMargin, 0)
	if p.horizontal {
		p.ContentView().SetSize(Size{extent, s.Height})
	} else {
		p.ContentView().SetSize(Size{s.Width, extent})
	}
	for i, v := range p.pages {
		if v != nil && i < p.numPages {
			v.SetBounds(p.PageBounds(i))
		}
	}
	p.ScrollView.Layout()
}

// GoToPage makes page i current and scrolls to it. The index is clamped to
// the valid range.
func (p *PagingScrollView) GoToPage(i int, animated bool) {
	if p.numPages == 0 {
		return
	}
	i = min(max(i, 0), p.numPages-1)
	p.setPage(i)
	p.scrollTo(p.pageOffset(i), animated)
}

// NextPage animates to the following page. It does nothing on the last page.
func (p *PagingScrollView) NextPage() {
	if p.page+1 < p.numPages {
		p.GoToPage(p.page+1, true)
	}
}

// PreviousPage animates to the preceding page. It does nothing on the first
// page.
func (p *PagingScrollView) PreviousPage() {
	if p.page > 0 {
		p.GoToPage(p.page-1, true)
	}
}

func (p *PagingScrollView) setPage(i int) {
	if i == p.page {
		return
	}
	p.page = i
	p.PageChanged.Emit(i)
	o := p.pageOffset(i)
	emitViewEvent(p.View, InteractionEvent{Type: EventPageChanged, Page: i, OffsetX: o.X, OffsetY: o.Y})
}

// TouchesEnded picks the page to settle on, then decelerates into it.
//
// The page advances in the swipe direction when the swipe is both fast
// enough and long enough. Otherwise, unless the view was already coasting
// when the touch began, it advances when the content was dragged more than
// half a page past the current one.
func (p *PagingScrollView) TouchesEnded(e *TouchEvent) {
	if !p.endDrag(e) {
		return
	}
	if p.numPages > 0 {
		p.setPage(p.pageAfterSwipe())
	}
	p.startDecelerating()
}

func (p *PagingScrollView) pageAfterSwipe() int {
	cfg := &p.cfg
	dragged := p.ContentOffset().Sub(p.pageOffset(p.page))
	v := p.velocity
	dist, vel, half := dragged.X, v.X, p.Size().Width/2
	if !p.horizontal {
		dist, vel, half = dragged.Y, v.Y, p.Size().Height/2
	}

	next := p.page
	switch {
	// Finger moving toward negative offsets pulls the next page in.
	case -vel > cfg.PageSwipeVelocity && dist > cfg.PageSwipeDistance:
		next++
	case vel > cfg.PageSwipeVelocity && -dist > cfg.PageSwipeDistance:
		next--
	case !p.wasDecelerating && dist > half:
		next++
	case !p.wasDecelerating && -dist > half:
		next--
	}
	return min(max(next, 0), p.numPages-1)
}
