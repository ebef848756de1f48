package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bashhh89/thecustom/internal/db"
	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/pricing"
	"github.com/bashhh89/thecustom/internal/repository"
	"github.com/bashhh89/thecustom/internal/sanitize"
)

type sowService struct {
	sowEditor
	sows     repository.SOWRepo
	observer UseCaseObserver
}

func NewSOWService(
	sows repository.SOWRepo,
	rates pricing.RateProvider,
	uow db.UnitOfWork,
	locks *DocLocks,
	observers ...UseCaseObserver,
) SOWService {
	return &sowService{
		sowEditor: sowEditor{rates: rates, uow: uow, locks: locks},
		sows:      sows,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *sowService) Create(ctx context.Context, name string, doc *domain.SOWDocument) (res *EditResult, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "sow.create", fields)(&err)

	catalog, err := pricing.LoadCatalog(ctx, s.rates)
	if err != nil {
		return nil, err
	}

	var repairs []string
	if doc == nil {
		doc, _ = sanitize.RepairSchema(nil)
	} else {
		doc, repairs = sanitize.RepairSchema(doc)
	}
	priced, report := pricing.ReconcileDocument(doc, catalog)

	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.CoalesceStr(deriveName(priced), domain.DefaultSOWName)
	}
	now := time.Now().UTC()
	sow := &domain.SOW{
		ID:        uuid.New().String(),
		Name:      name,
		Data:      priced,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = s.sows.Create(ctx, sow); err != nil {
		return nil, err
	}

	fields[FieldSOWID] = sow.ID
	fields[FieldGrandTotal] = priced.GrandTotal()
	addReportFields(fields, report)
	return &EditResult{SOW: sow, Report: report, Repairs: repairs}, nil
}

func (s *sowService) Get(ctx context.Context, id string) (*EditResult, error) {
	sow, err := s.sows.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	catalog, err := pricing.LoadCatalog(ctx, s.rates)
	if err != nil {
		return nil, err
	}
	if sow.Data == nil {
		sow.Data, _ = sanitize.RepairSchema(nil)
	}
	var report pricing.Report
	sow.Data, report = pricing.ReconcileDocument(sow.Data, catalog)
	return &EditResult{SOW: sow, Report: report}, nil
}

func (s *sowService) List(ctx context.Context) ([]repository.SOWSummary, error) {
	return s.sows.List(ctx)
}

func (s *sowService) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("sow name must not be empty")
	}
	unlock := s.locks.Lock(id)
	defer unlock()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSOWs := repository.NewSQLiteSOWRepo(tx)
		sow, err := txSOWs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		sow.Name = name
		sow.UpdatedAt = time.Now().UTC()
		return txSOWs.Update(ctx, sow)
	})
}

func (s *sowService) Delete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()
	return s.sows.Delete(ctx, id)
}

func (s *sowService) SaveDocument(ctx context.Context, id string, doc *domain.SOWDocument) (*EditResult, error) {
	return s.run(ctx, "sow.save", id, func(_ *domain.SOWDocument, catalog *pricing.Catalog) (editOutcome, error) {
		repaired, repairs := sanitize.RepairSchema(doc)
		priced, report := pricing.ReconcileDocument(repaired, catalog)
		return editOutcome{Doc: priced, Report: report, Repairs: repairs}, nil
	})
}

func (s *sowService) UpdateRoleHours(ctx context.Context, id string, ref pricing.RoleRef, hours float64) (*EditResult, error) {
	return s.run(ctx, "sow.update_hours", id, func(doc *domain.SOWDocument, catalog *pricing.Catalog) (editOutcome, error) {
		out, report, err := pricing.SetRoleHours(doc, ref, hours, catalog)
		return editOutcome{Doc: out, Report: report}, err
	})
}

func (s *sowService) UpdateRoleRate(ctx context.Context, id string, ref pricing.RoleRef, rate float64) (*EditResult, error) {
	return s.run(ctx, "sow.update_rate", id, func(doc *domain.SOWDocument, catalog *pricing.Catalog) (editOutcome, error) {
		out, report, err := pricing.SetRoleRate(doc, ref, rate, catalog)
		return editOutcome{Doc: out, Report: report}, err
	})
}

func (s *sowService) AssignRole(ctx context.Context, id string, ref pricing.RoleRef, name string) (*EditResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("role name must not be empty")
	}
	return s.run(ctx, "sow.assign_role", id, func(doc *domain.SOWDocument, catalog *pricing.Catalog) (editOutcome, error) {
		out, report, err := pricing.AssignRole(doc, ref, name, catalog)
		return editOutcome{Doc: out, Report: report}, err
	})
}

func (s *sowService) run(ctx context.Context, useCase, id string, fn editFunc) (res *EditResult, err error) {
	fields := map[string]any{FieldSOWID: id}
	defer observe(ctx, s.observer, useCase, fields)(&err)

	outcome, sow, err := s.edit(ctx, id, fn)
	if err != nil {
		return nil, err
	}
	addReportFields(fields, outcome.Report)
	fields[FieldGrandTotal] = sow.Data.GrandTotal()
	return &EditResult{SOW: sow, Report: outcome.Report, Repairs: outcome.Repairs}, nil
}
