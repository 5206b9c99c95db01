package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	products  []Product
	err       error
	block     bool
	loads     int
	refreshes int
}

func (l *fakeLoader) result(ctx context.Context) ([]Product, error) {
	if l.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return l.products, l.err
}

func (l *fakeLoader) Load(ctx context.Context, _ Category) ([]Product, error) {
	l.loads++
	return l.result(ctx)
}

func (l *fakeLoader) Refresh(ctx context.Context, _ Category) ([]Product, error) {
	l.refreshes++
	return l.result(ctx)
}

func bikerPage(t *testing.T, l Loader) *Page {
	t.Helper()
	def, err := DefaultRegistry().Get(BikerEquipment)
	require.NoError(t, err)
	return NewPage(def, l, "fr")
}

func TestPageLoadReady(t *testing.T) {
	l := &fakeLoader{products: []Product{priced("Gants", "59", TagGloves), priced("Blouson", "299", TagJacket)}}
	p := bikerPage(t, l)
	require.Equal(t, StateIdle, p.State())
	require.Empty(t, p.Visible())

	require.Equal(t, StateReady, p.Load(context.Background(), true))
	require.Equal(t, 1, l.refreshes)
	require.Equal(t, []string{"Gants", "Blouson"}, names(p.Visible()))
	require.Len(t, p.All(), 2)
	require.NoError(t, p.Err())
}

func TestPageLoadError(t *testing.T) {
	boom := errors.New("boom")
	p := bikerPage(t, &fakeLoader{err: boom})
	require.Equal(t, StateError, p.Load(context.Background(), false))
	require.ErrorIs(t, p.Err(), boom)
	require.Empty(t, p.Visible())
	require.Equal(t, "error", p.State().String())
}

func TestPageCancelledLoadReturnsToIdle(t *testing.T) {
	p := bikerPage(t, &fakeLoader{block: true})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Equal(t, StateIdle, p.Load(ctx, true))
	require.Empty(t, p.All())
	require.NoError(t, p.Err())
}

func TestPageUIStateRecomputesWithoutFetching(t *testing.T) {
	l := &fakeLoader{products: []Product{
		priced("Gants été", "59", TagGloves),
		priced("Blouson cuir", "299", TagJacket),
		priced("Gants hiver", "79", TagGloves),
	}}
	p := bikerPage(t, l)
	p.Load(context.Background(), false)

	p.SetFilter(TagGloves)
	require.Equal(t, []string{"Gants été", "Gants hiver"}, names(p.Visible()))
	p.SetSort(string(SortPriceHigh))
	require.Equal(t, []string{"Gants hiver", "Gants été"}, names(p.Visible()))
	p.SetSearch("hiver")
	require.Equal(t, []string{"Gants hiver"}, names(p.Visible()))
	p.SetFilter("")
	p.SetSearch("")
	require.Len(t, p.Visible(), 3)
	require.Equal(t, FilterAll, p.Query().Filter)

	p.SetSort("unknown")
	require.Equal(t, SortFeatured, p.Query().Sort)
	require.Equal(t, 1, l.loads)
	require.Zero(t, l.refreshes)

	facets := p.Facets()
	require.Equal(t, 3, facets[0].Count)
}
