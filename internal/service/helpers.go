package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bashhh89/thecustom/internal/command"
	"github.com/bashhh89/thecustom/internal/db"
	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/pricing"
	"github.com/bashhh89/thecustom/internal/repository"
)

// editOutcome is what an edit step produces from the stored document.
type editOutcome struct {
	Doc     *domain.SOWDocument
	Report  pricing.Report
	Repairs []string
	Command command.Result
}

type editFunc func(doc *domain.SOWDocument, catalog *pricing.Catalog) (editOutcome, error)

// sowEditor runs the edit-reconcile-persist cycle shared by the SOW services.
// The rate card is snapshotted before the transaction; the document is read
// and written inside it while the SOW's lock is held.
type sowEditor struct {
	rates pricing.RateProvider
	uow   db.UnitOfWork
	locks *DocLocks
}

func (e *sowEditor) edit(ctx context.Context, id string, fn editFunc) (*editOutcome, *domain.SOW, error) {
	unlock := e.locks.Lock(id)
	defer unlock()

	catalog, err := pricing.LoadCatalog(ctx, e.rates)
	if err != nil {
		return nil, nil, err
	}

	var (
		outcome editOutcome
		sow     *domain.SOW
	)
	err = e.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSOWs := repository.NewSQLiteSOWRepo(tx)

		current, err := txSOWs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		doc := current.Data
		if doc == nil {
			doc = &domain.SOWDocument{}
		}

		outcome, err = fn(doc, catalog)
		if err != nil {
			return err
		}
		current.Data = outcome.Doc
		current.UpdatedAt = time.Now().UTC()
		if err := txSOWs.Update(ctx, current); err != nil {
			return err
		}
		sow = current
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &outcome, sow, nil
}

// deriveName names a SOW after its project title and client.
func deriveName(doc *domain.SOWDocument) string {
	title := strings.TrimSpace(doc.ProjectTitle)
	client := strings.TrimSpace(doc.ClientName)
	switch {
	case title == "":
		return ""
	case client == "":
		return title
	default:
		return title + " - " + client
	}
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("%d validation errors:", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", ErrInvalidRate, msg)
}
