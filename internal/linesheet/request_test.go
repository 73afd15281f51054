package linesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/domain"
)

func TestBuildRequest_FiltersAndPreservesCatalogOrder(t *testing.T) {
	catalogs := []domain.Catalog{
		{ID: "C1", Name: "Spring"},
		{ID: "C2", Name: "Summer"},
		{ID: "C3", Name: "Fall"},
	}
	company := domain.Company{ID: "gid-1", Name: "Acme"}

	// Selection order intentionally reversed relative to load order.
	req := BuildRequest(company, catalogs, []string{"C3", "C1"}, domain.OutputCombined)

	assert.Equal(t, []string{"C1", "C3"}, req.CatalogIDs)
	assert.Equal(t, "Spring", req.Catalogs[0].Name)
	assert.Equal(t, "Fall", req.Catalogs[1].Name)
	assert.Equal(t, company, req.Company)
	assert.Equal(t, domain.OutputCombined, req.OutputType)
}

func TestBuildRequest_UnknownSelectionIDsIgnored(t *testing.T) {
	catalogs := []domain.Catalog{{ID: "C1"}}

	req := BuildRequest(domain.Company{}, catalogs, []string{"C1", "ghost"}, domain.OutputSeparate)

	assert.Equal(t, []string{"C1"}, req.CatalogIDs)
	assert.Len(t, req.Catalogs, 1)
}

func TestBuildRequest_EmptySelection(t *testing.T) {
	req := BuildRequest(domain.Company{}, []domain.Catalog{{ID: "C1"}}, nil, domain.OutputCombined)

	assert.Empty(t, req.CatalogIDs)
	assert.Empty(t, req.Catalogs)
}
