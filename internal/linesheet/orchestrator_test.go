package linesheet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/domain"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/feedback"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/selection"
)

type fakeGenerator struct {
	calls []domain.GenerationRequest
	meta  ResponseMeta
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, req domain.GenerationRequest) (ResponseMeta, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return ResponseMeta{}, f.err
	}
	return f.meta, nil
}

type fakeArchiver struct {
	locationIDs []string
	outcomes    []domain.DeliveryOutcome
}

func (f *fakeArchiver) Archive(_ context.Context, locationID string, _ domain.GenerationRequest, outcome domain.DeliveryOutcome) {
	f.locationIDs = append(f.locationIDs, locationID)
	f.outcomes = append(f.outcomes, outcome)
}

func testData() *domain.BusinessData {
	return &domain.BusinessData{
		Company: domain.Company{ID: "gid-1", Name: "Acme"},
		Catalogs: []domain.Catalog{
			{ID: "C1", Name: "Spring"},
			{ID: "C2", Name: "Summer"},
		},
	}
}

func newTestOrchestrator(gen *fakeGenerator, arc Archiver) (*Orchestrator, *selection.Store, *feedback.Machine) {
	sel := selection.New()
	fb := feedback.NewMachine(0)
	o := NewOrchestrator(sel, fb, gen, arc, "L1", testLogger())
	return o, sel, fb
}

func TestOrchestrator_EmptySelectionFailsFast(t *testing.T) {
	gen := &fakeGenerator{}
	o, sel, fb := newTestOrchestrator(gen, nil)
	sel.SetCatalogs([]string{"C1"})
	sel.DeselectAll()

	outcome, err := o.RunCombined(context.Background(), testData())

	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Empty(t, gen.calls, "must not issue a network call")
	assert.Equal(t, feedback.KindError, fb.State().Kind)
	assert.Equal(t, "Please select at least one catalog", fb.State().Message)
}

func TestOrchestrator_CombinedEndToEnd(t *testing.T) {
	gen := &fakeGenerator{meta: ResponseMeta{
		ContentType: domain.ContentTypeSpreadsheet,
		Body:        []byte("xlsx"),
	}}
	arc := &fakeArchiver{}
	o, sel, fb := newTestOrchestrator(gen, arc)
	sel.SetCatalogs([]string{"C1", "C2"})
	sel.Toggle("C2") // leave only C1 selected

	outcome, err := o.RunCombined(context.Background(), testData())

	require.NoError(t, err)
	require.Len(t, gen.calls, 1)
	assert.Equal(t, []string{"C1"}, gen.calls[0].CatalogIDs)
	assert.Equal(t, domain.OutputCombined, gen.calls[0].OutputType)

	assert.Equal(t, "Acme_Linesheet.xlsx", outcome.Filename)
	assert.False(t, outcome.IsArchive)
	assert.Equal(t, []byte("xlsx"), outcome.Bytes)

	assert.Equal(t, feedback.KindSuccess, fb.State().Kind)
	assert.Equal(t, "Your linesheet has been generated!", fb.State().Message)

	require.Len(t, arc.outcomes, 1)
	assert.Equal(t, []string{"L1"}, arc.locationIDs)
}

func TestOrchestrator_SeparateBundlesAsArchive(t *testing.T) {
	gen := &fakeGenerator{meta: ResponseMeta{
		ContentType: "application/octet-stream",
		Body:        []byte("PK"),
	}}
	o, sel, fb := newTestOrchestrator(gen, nil)
	sel.SetCatalogs([]string{"C1", "C2"})

	outcome, err := o.RunSeparate(context.Background(), testData())

	require.NoError(t, err)
	assert.True(t, outcome.IsArchive)
	assert.Equal(t, "Acme_Linesheets.zip", outcome.Filename)
	assert.Equal(t, "Your linesheets have been generated and downloaded as a ZIP file!", fb.State().Message)
}

func TestOrchestrator_GenerationFailureSurfacesInFeedback(t *testing.T) {
	gen := &fakeGenerator{err: domain.GenerationFailed("linesheet.Generate", 502, "Bad Gateway")}
	arc := &fakeArchiver{}
	o, sel, fb := newTestOrchestrator(gen, arc)
	sel.SetCatalogs([]string{"C1"})

	outcome, err := o.RunCombined(context.Background(), testData())

	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Equal(t, domain.EGENERATION, domain.ErrorCode(err))
	assert.Equal(t, feedback.KindError, fb.State().Kind)
	assert.Contains(t, fb.State().Message, "502")
	assert.Empty(t, arc.outcomes, "failed generations are not archived")
}

func TestOrchestrator_NilDataFails(t *testing.T) {
	gen := &fakeGenerator{}
	o, sel, fb := newTestOrchestrator(gen, nil)
	sel.SetCatalogs([]string{"C1"})

	_, err := o.RunCombined(context.Background(), nil)

	require.Error(t, err)
	assert.Empty(t, gen.calls)
	assert.Equal(t, feedback.KindError, fb.State().Kind)
}

func TestOrchestrator_TriggersEnabled(t *testing.T) {
	gen := &fakeGenerator{meta: ResponseMeta{ContentType: domain.ContentTypeSpreadsheet}}
	o, sel, fb := newTestOrchestrator(gen, nil)

	assert.False(t, o.TriggersEnabled(), "nothing loaded")

	sel.SetCatalogs([]string{"C1"})
	assert.True(t, o.TriggersEnabled())

	sel.DeselectAll()
	assert.False(t, o.TriggersEnabled(), "empty selection disables triggers")

	sel.SelectAll()
	fb.Start("working")
	assert.False(t, o.TriggersEnabled(), "loading disables triggers")

	fb.Succeed("done")
	assert.True(t, o.TriggersEnabled())
}

func TestLoadingMessage(t *testing.T) {
	assert.Equal(t, "Generating your linesheet...", loadingMessage(domain.OutputCombined, 3))
	assert.Equal(t, "Generating your linesheet...", loadingMessage(domain.OutputSeparate, 1))
	assert.Equal(t, "Generating your separate linesheets...", loadingMessage(domain.OutputSeparate, 2))
}
