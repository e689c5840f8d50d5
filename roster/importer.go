package roster

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// IMPORTER - Extraction + parsing with user-facing error tiers
// =============================================================================

// Importer runs the Extractor and the Parser and turns their outcomes into
// the errors a caller shows the user.
type Importer struct {
	Extractor *Extractor
	Parser    *Parser
	Logger    *zap.Logger
}

func NewImporter(extractor *Extractor, parser *Parser, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{Extractor: extractor, Parser: parser, Logger: logger}
}

// Import returns the employee's week. Errors:
//   - generic.ErrInvalidInput when a name is blank
//   - generic.ErrDocumentUnreadable when decoding fails
//   - *generic.EmployeeNotFoundError when no row matches
//   - generic.ErrEmptySchedule when the row holds no recognizable codes
//   - ctx.Err() when cancelled
func (im *Importer) Import(ctx context.Context, doc Document, firstName, lastName string) ([]ExtractedShift, error) {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("%w: first and last name are required", generic.ErrInvalidInput)
	}

	im.Logger.Info("starting roster import",
		zap.String("first_name", firstName),
		zap.String("last_name", lastName))

	text, err := im.Extractor.Text(ctx, doc)
	if err != nil {
		im.Logger.Error("roster extraction failed", zap.Error(err))
		return nil, err
	}

	result := im.Parser.Parse(text, firstName, lastName)
	if !result.Found {
		return nil, &generic.EmployeeNotFoundError{
			FirstName:  firstName,
			LastName:   lastName,
			Suggestion: result.Suggestion,
		}
	}
	if len(result.Schedule) == 0 {
		im.Logger.Warn("employee row holds no shifts")
		return nil, generic.ErrEmptySchedule
	}

	im.Logger.Info("roster import complete",
		zap.Int("shifts", len(result.Schedule)),
		zap.Bool("week_fallback", result.WeekFallback))
	return result.Schedule, nil
}

// ImportPDF opens raw PDF bytes and imports them.
func (im *Importer) ImportPDF(ctx context.Context, data []byte, firstName, lastName string) ([]ExtractedShift, error) {
	doc, err := OpenPDF(data)
	if err != nil {
		im.Logger.Error("pdf open failed", zap.Error(err))
		return nil, err
	}
	return im.Import(ctx, doc, firstName, lastName)
}
