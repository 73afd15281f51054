// Package linesheet orchestrates linesheet generation: it builds the
// outbound request from the current selection, calls the remote generation
// service, and resolves the response into a named download.
package linesheet

import (
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/domain"
)

// BuildRequest constructs the generation payload for the selected catalogs.
// Pure function: catalogs are filtered to the selected ids preserving their
// original load order, never the order the user clicked them in. Validating
// that the selection is non-empty is the orchestrator's job, not this one's.
func BuildRequest(company domain.Company, catalogs []domain.Catalog, selectedIDs []string, output domain.OutputType) domain.GenerationRequest {
	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	picked := make([]domain.Catalog, 0, len(selectedIDs))
	ids := make([]string, 0, len(selectedIDs))
	for _, c := range catalogs {
		if selected[c.ID] {
			picked = append(picked, c)
			ids = append(ids, c.ID)
		}
	}

	return domain.GenerationRequest{
		Company:    company,
		CatalogIDs: ids,
		Catalogs:   picked,
		OutputType: output,
	}
}
