package service

import (
	"context"
	"strings"

	"github.com/bashhh89/thecustom/internal/command"
	"github.com/bashhh89/thecustom/internal/db"
	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/pricing"
)

type refineService struct {
	sowEditor
	observer UseCaseObserver
}

// NewRefineService applies slash commands to stored SOWs. The command
// interpreter never prices; every refined document is reconciled before it
// is written.
func NewRefineService(
	rates pricing.RateProvider,
	uow db.UnitOfWork,
	locks *DocLocks,
	observers ...UseCaseObserver,
) RefineService {
	return &refineService{
		sowEditor: sowEditor{rates: rates, uow: uow, locks: locks},
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *refineService) Refine(ctx context.Context, sowID, input string) (res *RefineResult, err error) {
	fields := map[string]any{FieldSOWID: sowID}
	defer observe(ctx, s.observer, "sow.refine", fields)(&err)

	outcome, sow, err := s.edit(ctx, sowID, func(doc *domain.SOWDocument, catalog *pricing.Catalog) (editOutcome, error) {
		edited, result, err := command.Interpret(input, doc)
		fields[FieldCommand] = commandLabel(result, input)
		if err != nil {
			return editOutcome{}, err
		}
		priced, report := pricing.ReconcileDocument(edited, catalog)
		return editOutcome{Doc: priced, Report: report, Command: result}, nil
	})
	if err != nil {
		return nil, err
	}

	addReportFields(fields, outcome.Report)
	fields[FieldGrandTotal] = sow.Data.GrandTotal()
	if outcome.Command.NameFallback {
		fields["scope_name_fallback"] = true
	}
	return &RefineResult{
		EditResult: EditResult{SOW: sow, Report: outcome.Report},
		Command:    outcome.Command,
	}, nil
}

// commandLabel keeps metric label values bounded to known command names.
func commandLabel(res command.Result, input string) string {
	if res.Command != "" {
		return res.Command
	}
	name, _, _ := strings.Cut(strings.TrimSpace(input), " ")
	for _, spec := range command.Commands() {
		if spec.Name == name {
			return name
		}
	}
	return "unknown"
}
