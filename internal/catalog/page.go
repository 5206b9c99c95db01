package catalog

import (
	"context"
	"sync"
)

// State is the lifecycle of a category page.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Loader provides the product list of a category. *Store implements it.
type Loader interface {
	Load(ctx context.Context, cat Category) ([]Product, error)
	Refresh(ctx context.Context, cat Category) ([]Product, error)
}

// Page is the state of one category listing: the fetched list plus the
// filter, search and sort chosen by the shopper.
type Page struct {
	def    Definition
	loader Loader
	lang   string

	mu      sync.Mutex
	state   State
	err     error
	all     []Product
	visible []Product
	query   Query
	loadSeq uint64
}

// NewPage creates an idle page.
func NewPage(def Definition, loader Loader, lang string) *Page {
	return &Page{
		def:    def,
		loader: loader,
		lang:   lang,
		query:  Query{Filter: FilterAll, Sort: SortFeatured, Lang: lang},
	}
}

// Definition returns the category of the page.
func (p *Page) Definition() Definition { return p.def }

// Load moves the page to loading and then to ready or error. With refresh the
// list is fetched again; otherwise a fresh snapshot may be reused. If ctx ends
// first the page returns to idle and no result is applied. A newer Load
// supersedes an older one still in flight.
func (p *Page) Load(ctx context.Context, refresh bool) State {
	p.mu.Lock()
	p.loadSeq++
	seq := p.loadSeq
	p.state = StateLoading
	p.err = nil
	p.mu.Unlock()

	var (
		products []Product
		err      error
	)
	if refresh {
		products, err = p.loader.Refresh(ctx, p.def.Key)
	} else {
		products, err = p.loader.Load(ctx, p.def.Key)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.loadSeq {
		return p.state
	}
	if ctx.Err() != nil {
		p.state = StateIdle
		return p.state
	}
	if err != nil {
		p.state = StateError
		p.err = err
		return p.state
	}
	p.all = products
	p.state = StateReady
	p.recompute()
	return p.state
}

// State returns the current lifecycle state.
func (p *Page) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Err returns the error of the last failed load.
func (p *Page) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Query returns the current UI state.
func (p *Page) Query() Query {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// SetFilter changes the active filter tag.
func (p *Page) SetFilter(tag string) {
	p.update(func(q *Query) {
		if tag == "" {
			tag = FilterAll
		}
		q.Filter = tag
	})
}

// SetSearch changes the search text.
func (p *Page) SetSearch(text string) {
	p.update(func(q *Query) { q.Search = text })
}

// SetSort changes the sort key. Unknown keys become featured.
func (p *Page) SetSort(key string) {
	p.update(func(q *Query) { q.Sort = ParseSortKey(key) })
}

func (p *Page) update(fn func(*Query)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.query)
	p.recompute()
}

func (p *Page) recompute() {
	if p.state != StateReady {
		p.visible = nil
		return
	}
	p.visible = Apply(p.def, p.all, p.query)
}

// Visible returns the filtered and sorted products.
func (p *Page) Visible() []Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Product, len(p.visible))
	copy(out, p.visible)
	return out
}

// All returns the full fetched list.
func (p *Page) All() []Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.all
}

// Facets counts the full list per filter tag.
func (p *Page) Facets() []Facet {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Facets(p.def, p.all)
}
