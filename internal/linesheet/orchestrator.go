package linesheet

import (
	"context"
	"log/slog"

	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/domain"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/feedback"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/metrics"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/selection"
)

// Archiver keeps a record of a successful generation: an archival copy of
// the file and a history row. Best effort: implementations log their own
// failures and never fail the download.
type Archiver interface {
	Archive(ctx context.Context, locationID string, req domain.GenerationRequest, outcome domain.DeliveryOutcome)
}

// Orchestrator composes selection, request building, the generation call,
// delivery resolution, and feedback reporting. Every failure is caught here
// and reflected in the feedback machine before the error is returned for
// HTTP status mapping; nothing escapes unreported.
type Orchestrator struct {
	selection  *selection.Store
	feedback   *feedback.Machine
	generator  Generator
	archiver   Archiver // may be nil
	locationID string
	logger     *slog.Logger
}

// NewOrchestrator creates an Orchestrator. archiver may be nil when neither
// archival storage nor history is configured.
func NewOrchestrator(
	sel *selection.Store,
	fb *feedback.Machine,
	generator Generator,
	archiver Archiver,
	locationID string,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		selection:  sel,
		feedback:   fb,
		generator:  generator,
		archiver:   archiver,
		locationID: locationID,
		logger:     logger,
	}
}

// RunCombined generates one workbook covering all selected catalogs.
func (o *Orchestrator) RunCombined(ctx context.Context, data *domain.BusinessData) (*domain.DeliveryOutcome, error) {
	return o.run(ctx, data, domain.OutputCombined)
}

// RunSeparate generates one workbook per selected catalog, delivered as a
// ZIP bundle when more than one catalog is selected.
func (o *Orchestrator) RunSeparate(ctx context.Context, data *domain.BusinessData) (*domain.DeliveryOutcome, error) {
	return o.run(ctx, data, domain.OutputSeparate)
}

// TriggersEnabled reports whether the generation triggers should be
// enabled: a non-empty selection and no operation in flight. Recomputed by
// the rendering layer after every selection mutation.
func (o *Orchestrator) TriggersEnabled() bool {
	return o.selection.Count() > 0 && !o.feedback.Busy()
}

func (o *Orchestrator) run(ctx context.Context, data *domain.BusinessData, output domain.OutputType) (*domain.DeliveryOutcome, error) {
	const op = "linesheet.run"

	if data == nil {
		msg := "Error loading catalog data. Please try again."
		o.feedback.Fail(msg)
		return nil, domain.Invalid(op, msg)
	}

	selectedIDs := o.selection.Selected()
	if len(selectedIDs) == 0 {
		// Validation, not a system fault. Fails fast without a network call.
		msg := "Please select at least one catalog"
		o.feedback.Fail(msg)
		return nil, domain.Invalid(op, msg)
	}

	o.feedback.Start(loadingMessage(output, len(selectedIDs)))

	req := BuildRequest(data.Company, data.Catalogs, selectedIDs, output)

	meta, err := o.generator.Generate(ctx, req)
	if err != nil {
		o.logger.Error("linesheet generation failed",
			"output_type", output,
			"catalogs", len(selectedIDs),
			"error", err,
		)
		metrics.GenerationFailures.WithLabelValues(string(output)).Inc()
		o.feedback.Fail(domain.ErrorMessage(err))
		return nil, err
	}

	outcome := Resolve(meta, output, len(req.CatalogIDs), domain.DefaultFilename(data.Company.Name, output))

	if o.archiver != nil {
		o.archiver.Archive(ctx, o.locationID, req, outcome)
	}

	metrics.LinesheetsGenerated.WithLabelValues(string(output)).Inc()
	if outcome.IsArchive {
		metrics.ArchiveDeliveries.Inc()
		o.feedback.Succeed("Your linesheets have been generated and downloaded as a ZIP file!")
	} else {
		o.feedback.Succeed("Your linesheet has been generated!")
	}

	o.logger.Info("linesheet delivered",
		"output_type", output,
		"filename", outcome.Filename,
		"is_archive", outcome.IsArchive,
		"bytes", len(outcome.Bytes),
	)

	return &outcome, nil
}

func loadingMessage(output domain.OutputType, count int) string {
	if output == domain.OutputSeparate && count > 1 {
		return "Generating your separate linesheets..."
	}
	return "Generating your linesheet..."
}
