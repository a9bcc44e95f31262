package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/internal/parts"
	"github.com/carshop-ar/carshop-backend/pkg/config"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
	"github.com/carshop-ar/carshop-backend/pkg/logger"
	"github.com/carshop-ar/carshop-backend/pkg/outbox"
)

const (
	messageUnknown = `No entendí el comando. Escribí "ayuda" para ver los comandos disponibles.`
	messageHelp    = "Comandos disponibles:\n" +
		"- subir stock sku <SKU> a <n>\n" +
		"- bajar stock sku <SKU> en <n>\n" +
		"- poner stock id <ID> a <n>\n" +
		"- stock sku <SKU>\n" +
		"- subir/bajar/poner stock todos <n>\n" +
		"- cuantos productos hay\n" +
		"- productos con stock bajo"
)

// Request is the body of POST /api/admin/assistant.
type Request struct {
	Message string `json:"message" validate:"required,max=500"`
}

// Reply is the assistant's answer.
type Reply struct {
	Message string `json:"message"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the stock assistant.
type ServiceParams struct {
	DB      txRunner
	Parts   *parts.Repository
	Outbox  outbox.Emitter
	Hook    parts.StockHook
	Catalog config.CatalogConfig
	Logger  *logger.Logger
}

// Service interprets staff stock commands written in Spanish.
type Service interface {
	Handle(ctx context.Context, actorID uuid.UUID, message string) (*Reply, error)
}

type service struct {
	db      txRunner
	parts   *parts.Repository
	outbox  outbox.Emitter
	hook    parts.StockHook
	catalog config.CatalogConfig
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Parts == nil {
		return nil, fmt.Errorf("part repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{
		db:      params.DB,
		parts:   params.Parts,
		outbox:  params.Outbox,
		hook:    params.Hook,
		catalog: params.Catalog,
		logg:    params.Logger,
	}, nil
}

func (s *service) Handle(ctx context.Context, actorID uuid.UUID, message string) (*Reply, error) {
	cmd, ok := parse(message)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, messageUnknown)
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{"actor_id": actorID.String(), "command": cmd.kind.String()}), "assistant command")
	}

	switch cmd.kind {
	case kindHelp:
		return reply(messageHelp), nil
	case kindQuerySKU, kindQueryID:
		return s.query(ctx, cmd)
	case kindCountAll:
		n, err := s.parts.Count(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count parts")
		}
		return reply(fmt.Sprintf("Hay %d productos en el catálogo.", n)), nil
	case kindCountLow:
		n, err := s.parts.CountLowStock(ctx, s.catalog.LowStock())
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count low stock")
		}
		return reply(fmt.Sprintf("Hay %d productos con stock bajo (%d o menos unidades).", n, s.catalog.LowStock())), nil
	case kindAdjustAll:
		return s.adjustAll(ctx, actorID, cmd)
	default:
		return s.adjustOne(ctx, actorID, cmd)
	}
}

func (s *service) query(ctx context.Context, cmd command) (*Reply, error) {
	part, err := s.lookup(ctx, s.parts, cmd)
	if err != nil {
		return nil, err
	}
	return reply(fmt.Sprintf("Stock de %s: %d unidades.", describe(*part), part.Stock)), nil
}

func (s *service) adjustOne(ctx context.Context, actorID uuid.UUID, cmd command) (*Reply, error) {
	var change parts.StockChange
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.parts.WithTx(tx)
		part, err := s.lookup(ctx, repo, cmd)
		if err != nil {
			return err
		}
		next, err := nextStock(cmd.op, part.Stock, cmd.amount)
		if err != nil {
			return err
		}
		change = parts.StockChange{Part: *part, Previous: part.Stock, Current: next}
		change.Part.Stock = next
		if next == part.Stock {
			return nil
		}
		if err := repo.SetStock(ctx, part.ID, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock")
		}
		return s.emit(ctx, tx, actorID, change)
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	s.notify(ctx, change)
	return reply(fmt.Sprintf("Stock de %s actualizado: %d → %d.", describe(change.Part), change.Previous, change.Current)), nil
}

func (s *service) adjustAll(ctx context.Context, actorID uuid.UUID, cmd command) (*Reply, error) {
	var changes []parts.StockChange
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.parts.WithTx(tx)
		locked, err := repo.LockAll(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock parts")
		}
		for _, part := range locked {
			next, err := nextStock(cmd.op, part.Stock, cmd.amount)
			if err != nil {
				return err
			}
			if next == part.Stock {
				continue
			}
			if err := repo.SetStock(ctx, part.ID, next); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock")
			}
			change := parts.StockChange{Part: part, Previous: part.Stock, Current: next}
			change.Part.Stock = next
			if err := s.emit(ctx, tx, actorID, change); err != nil {
				return err
			}
			changes = append(changes, change)
		}
		return nil
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	for _, change := range changes {
		s.notify(ctx, change)
	}
	return reply(fmt.Sprintf("Stock actualizado en %d productos.", len(changes))), nil
}

type partFinder interface {
	FindBySKUForUpdate(ctx context.Context, sku string) (*models.Part, error)
	FindForUpdate(ctx context.Context, id uuid.UUID) (*models.Part, error)
}

func (s *service) lookup(ctx context.Context, repo partFinder, cmd command) (*models.Part, error) {
	var (
		part  *models.Part
		err   error
		label string
	)
	if cmd.sku != "" {
		label = "SKU " + strings.ToUpper(cmd.sku)
		part, err = repo.FindBySKUForUpdate(ctx, cmd.sku)
	} else {
		label = "ID " + cmd.id.String()
		part, err = repo.FindForUpdate(ctx, cmd.id)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "No se encontró un repuesto con %s.", label)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load part")
	}
	return part, nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, actorID uuid.UUID, change parts.StockChange) error {
	event := parts.StockChangedEvent(change.Part, change.Previous, change.Current, parts.SourceAssistant)
	event.Actor = &outbox.ActorRef{UserID: actorID, Role: enums.UserRoleStaff.String()}
	return s.outbox.Emit(ctx, tx, event)
}

func (s *service) notify(ctx context.Context, change parts.StockChange) {
	if s.hook == nil || change.Previous == change.Current {
		return
	}
	s.hook.StockChanged(ctx, change.Part, change.Previous, change.Current)
}

func nextStock(op operation, current, n int) (int, error) {
	next := apply(op, current, n)
	if next > maxStock {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "La cantidad resultante excede el máximo permitido.")
	}
	return next, nil
}

func describe(part models.Part) string {
	if part.SKU != nil && *part.SKU != "" {
		return fmt.Sprintf("%s (SKU %s)", part.Name, *part.SKU)
	}
	return part.Name
}

func reply(message string) *Reply {
	return &Reply{Message: message}
}

func wrapTxError(err error) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stock command")
}
