package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bashhh89/thecustom/internal/db"
	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/pricing"
	"github.com/bashhh89/thecustom/internal/repository"
)

type rateCardService struct {
	rates    repository.RateCardRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewRateCardService(rates repository.RateCardRepo, uow db.UnitOfWork, observers ...UseCaseObserver) RateCardService {
	return &rateCardService{
		rates:    rates,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *rateCardService) Create(ctx context.Context, name string, rate int) (_ *domain.RateCardEntry, err error) {
	defer observe(ctx, s.observer, "ratecard.create", map[string]any{"name": name, "rate": rate})(&err)

	now := time.Now().UTC()
	e := &domain.RateCardEntry{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Rate:      rate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if vErr := e.Validate(); vErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRate, vErr)
	}
	if err = s.rates.Create(ctx, e); err != nil {
		return nil, mapConflict(err, e.Name)
	}
	return e, nil
}

func (s *rateCardService) Get(ctx context.Context, ref string) (*domain.RateCardEntry, error) {
	return resolveRate(ctx, s.rates, ref)
}

func (s *rateCardService) List(ctx context.Context) ([]*domain.RateCardEntry, error) {
	return s.rates.List(ctx)
}

func (s *rateCardService) Update(ctx context.Context, ref string, upd RateUpdate) (_ *domain.RateCardEntry, err error) {
	fields := map[string]any{"ref": ref}
	defer observe(ctx, s.observer, "ratecard.update", fields)(&err)

	var out *domain.RateCardEntry
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRates := repository.NewSQLiteRateCardRepo(tx)
		e, err := resolveRate(ctx, txRates, ref)
		if err != nil {
			return err
		}
		if upd.Name != nil {
			e.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Rate != nil {
			e.Rate = *upd.Rate
		}
		if err := e.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRate, err)
		}
		e.UpdatedAt = time.Now().UTC()
		if err := txRates.Update(ctx, e); err != nil {
			return mapConflict(err, e.Name)
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["name"] = out.Name
	fields["rate"] = out.Rate
	return out, nil
}

func (s *rateCardService) Delete(ctx context.Context, ref string) (err error) {
	defer observe(ctx, s.observer, "ratecard.delete", map[string]any{"ref": ref})(&err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRates := repository.NewSQLiteRateCardRepo(tx)
		e, err := resolveRate(ctx, txRates, ref)
		if err != nil {
			return err
		}
		return txRates.Delete(ctx, e.ID)
	})
}

func (s *rateCardService) Import(ctx context.Context, entries []domain.RateCardEntry, replace bool) (res *ImportResult, err error) {
	fields := map[string]any{"entries": len(entries), "replace": replace}
	defer observe(ctx, s.observer, "ratecard.import", fields)(&err)

	var errs []error
	seen := make(map[string]bool, len(entries))
	for i := range entries {
		entries[i].Name = strings.TrimSpace(entries[i].Name)
		if vErr := entries[i].Validate(); vErr != nil {
			errs = append(errs, vErr)
		} else if seen[entries[i].Name] {
			errs = append(errs, fmt.Errorf("%q appears more than once", entries[i].Name))
		}
		seen[entries[i].Name] = true
	}
	if len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	result := &ImportResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRates := repository.NewSQLiteRateCardRepo(tx)
		now := time.Now().UTC()
		for _, in := range entries {
			existing, err := txRates.GetByName(ctx, in.Name)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				e := &domain.RateCardEntry{ID: uuid.New().String(), Name: in.Name, Rate: in.Rate, CreatedAt: now, UpdatedAt: now}
				if err := txRates.Create(ctx, e); err != nil {
					return mapConflict(err, in.Name)
				}
				result.Created++
			case err != nil:
				return err
			case !replace:
				return fmt.Errorf("%w: %q", ErrDuplicateRateName, in.Name)
			default:
				existing.Rate = in.Rate
				existing.UpdatedAt = now
				if err := txRates.Update(ctx, existing); err != nil {
					return err
				}
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["created"] = result.Created
	fields["updated"] = result.Updated
	return result, nil
}

func (s *rateCardService) Catalog(ctx context.Context) (*pricing.Catalog, error) {
	return pricing.LoadCatalog(ctx, s.rates)
}

// resolveRate looks ref up as an id, then as an exact name.
func resolveRate(ctx context.Context, rates repository.RateCardRepo, ref string) (*domain.RateCardEntry, error) {
	e, err := rates.GetByID(ctx, ref)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return rates.GetByName(ctx, ref)
}

func mapConflict(err error, name string) error {
	if errors.Is(err, repository.ErrConflict) {
		return fmt.Errorf("%w: %q", ErrDuplicateRateName, name)
	}
	return err
}
