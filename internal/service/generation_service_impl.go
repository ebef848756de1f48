package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bashhh89/thecustom/internal/db"
	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/intelligence"
	"github.com/bashhh89/thecustom/internal/pricing"
	"github.com/bashhh89/thecustom/internal/repository"
	"github.com/bashhh89/thecustom/internal/sanitize"
)

type generationService struct {
	sows     repository.SOWRepo
	messages repository.MessageRepo
	rates    pricing.RateProvider
	drafter  intelligence.SOWDrafter
	uow      db.UnitOfWork
	locks    *DocLocks
	observer UseCaseObserver
}

func NewGenerationService(
	sows repository.SOWRepo,
	messages repository.MessageRepo,
	rates pricing.RateProvider,
	drafter intelligence.SOWDrafter,
	uow db.UnitOfWork,
	locks *DocLocks,
	observers ...UseCaseObserver,
) GenerationService {
	return &generationService{
		sows:     sows,
		messages: messages,
		rates:    rates,
		drafter:  drafter,
		uow:      uow,
		locks:    locks,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *generationService) Generate(ctx context.Context, sowID, instruction string) (res *GenerateResult, err error) {
	fields := map[string]any{FieldSOWID: sowID}
	defer observe(ctx, s.observer, "sow.generate", fields)(&err)

	unlock := s.locks.Lock(sowID)
	defer unlock()

	var (
		catalog *pricing.Catalog
		history []*domain.Message
		current *domain.SOW
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = pricing.LoadCatalog(gctx, s.rates)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.messages.ListBySOW(gctx, sowID)
		return err
	})
	g.Go(func() error {
		var err error
		current, err = s.sows.GetByID(gctx, sowID)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	var userMsg *domain.Message
	if instruction = strings.TrimSpace(instruction); instruction != "" {
		userMsg = newMessage(sowID, domain.MessageUser, instruction)
		history = append(history, userMsg)
	}
	fields["history_len"] = len(history)
	fields["catalog_size"] = catalog.Len()

	gen, err := s.drafter.Draft(ctx, intelligence.DraftInput{
		Catalog: catalog,
		Current: current.Data,
		History: history,
	})
	if err != nil {
		fields[FieldSanitize] = sanitizeOutcome(err)
		return nil, err
	}
	fields[FieldSanitize] = gen.Shape.String()
	fields["repairs"] = len(gen.Repairs)
	addReportFields(fields, gen.Report)

	assistant := newMessage(sowID, domain.MessageAssistant, gen.AIMessage)
	var sow *domain.SOW
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSOWs := repository.NewSQLiteSOWRepo(tx)
		txMessages := repository.NewSQLiteMessageRepo(tx)

		fresh, err := txSOWs.GetByID(ctx, sowID)
		if err != nil {
			return err
		}
		fresh.Data = gen.SOWData
		if fresh.Name == domain.DefaultSOWName {
			fresh.Name = domain.CoalesceStr(deriveName(gen.SOWData), fresh.Name)
		}
		fresh.UpdatedAt = time.Now().UTC()
		if err := txSOWs.Update(ctx, fresh); err != nil {
			return err
		}
		if userMsg != nil {
			if err := txMessages.Append(ctx, userMsg); err != nil {
				return err
			}
		}
		if err := txMessages.Append(ctx, assistant); err != nil {
			return err
		}
		sow = fresh
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("saving generated sow: %w", err)
	}

	fields[FieldGrandTotal] = sow.Data.GrandTotal()
	return &GenerateResult{
		EditResult: EditResult{SOW: sow, Report: gen.Report, Repairs: gen.Repairs},
		AIMessage:  gen.AIMessage,
		Log:        gen.Log,
	}, nil
}

func (s *generationService) Converse(ctx context.Context, sowID, message string) (res *ConverseResult, err error) {
	fields := map[string]any{FieldSOWID: sowID}
	defer observe(ctx, s.observer, "sow.converse", fields)(&err)

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	unlock := s.locks.Lock(sowID)
	defer unlock()

	if _, err = s.sows.GetByID(ctx, sowID); err != nil {
		return nil, err
	}
	history, err := s.messages.ListBySOW(ctx, sowID)
	if err != nil {
		return nil, err
	}
	fields["history_len"] = len(history)

	reply, err := s.drafter.Reply(ctx, history, message)
	if err != nil {
		return nil, err
	}

	user := newMessage(sowID, domain.MessageUser, message)
	assistant := newMessage(sowID, domain.MessageAssistant, reply)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMessages := repository.NewSQLiteMessageRepo(tx)
		if err := txMessages.Append(ctx, user); err != nil {
			return err
		}
		return txMessages.Append(ctx, assistant)
	})
	if err != nil {
		return nil, fmt.Errorf("saving conversation: %w", err)
	}
	return &ConverseResult{User: user, Assistant: assistant}, nil
}

func (s *generationService) History(ctx context.Context, sowID string) ([]*domain.Message, error) {
	if _, err := s.sows.GetByID(ctx, sowID); err != nil {
		return nil, err
	}
	return s.messages.ListBySOW(ctx, sowID)
}

func (s *generationService) ResetConversation(ctx context.Context, sowID string) (int64, error) {
	unlock := s.locks.Lock(sowID)
	defer unlock()

	if _, err := s.sows.GetByID(ctx, sowID); err != nil {
		return 0, err
	}
	return s.messages.DeleteBySOW(ctx, sowID)
}

func newMessage(sowID string, role domain.MessageRole, content string) *domain.Message {
	return &domain.Message{
		ID:        uuid.New().String(),
		SOWID:     sowID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

func sanitizeOutcome(err error) string {
	switch {
	case errors.Is(err, sanitize.ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, sanitize.ErrUnrecognizedShape):
		return "unrecognized"
	default:
		return "llm_error"
	}
}
