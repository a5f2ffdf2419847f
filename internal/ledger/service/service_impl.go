package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/renova/internal/clock"
	"github.com/smallbiznis/renova/internal/ledger/domain"
	"github.com/smallbiznis/renova/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

// Service owns the invoice ledger. Keyed updates run inside one locked
// transaction, which is the partition's serialization point.
type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ledger.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, invoice domain.Invoice) (domain.Invoice, error) {
	now := s.clock.Now()
	if invoice.ID == 0 {
		invoice.ID = s.genID.Generate()
	}
	if invoice.Status == "" {
		invoice.Status = domain.InvoiceStatusPending
	}
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	if err := invoice.Validate(); err != nil {
		return domain.Invoice{}, err
	}

	if err := s.db.WithContext(ctx).Create(&invoice).Error; err != nil {
		// One generated invoice per (customer, cycle); the partial unique
		// index is the guard. A losing concurrent writer lands here.
		if invoice.CycleID != 0 && db.IsDuplicateKeyErr(err) {
			return domain.Invoice{}, domain.ErrCycleAlreadyInvoiced
		}
		return domain.Invoice{}, err
	}

	s.log.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("customer_id", invoice.CustomerID.String()),
		zap.Float64("amount_due", invoice.AmountDue),
	)
	return invoice, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) ([]domain.Invoice, error) {
	stmt := s.db.WithContext(ctx).Order("created_at ASC, id ASC")
	if req.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", req.CustomerID)
	}

	var invoices []domain.Invoice
	if err := stmt.Find(&invoices).Error; err != nil {
		return nil, err
	}
	// An empty result is indistinguishable from an unreachable partition
	// without this explicit check; callers rely on it.
	if len(invoices) == 0 {
		return nil, domain.ErrNotFound
	}
	return invoices, nil
}

func (s *Service) BulkUpdate(ctx context.Context, updated []domain.Invoice) ([]domain.Invoice, error) {
	now := s.clock.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, invoice := range updated {
			if err := invoice.Validate(); err != nil {
				return err
			}

			var existing domain.Invoice
			err := tx.Where("id = ?", invoice.ID).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Unknown IDs are an idempotent no-op.
				continue
			}
			if err != nil {
				return err
			}

			invoice.CreatedAt = existing.CreatedAt
			invoice.UpdatedAt = now
			if err := tx.Save(&invoice).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var ledger []domain.Invoice
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&ledger).Error; err != nil {
		return nil, err
	}
	return ledger, nil
}

func (s *Service) UpdateByID(ctx context.Context, id snowflake.ID, req domain.UpdateInvoiceRequest) (domain.Invoice, error) {
	var result domain.Invoice
	now := s.clock.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stmt := tx
		// sqlite serializes writers itself and rejects FOR UPDATE.
		if tx.Dialector.Name() != "sqlite" {
			stmt = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var invoice domain.Invoice
		err := stmt.Where("id = ?", id).
			First(&invoice).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		if len(req.ExpectedStatus) > 0 && !statusIn(invoice.Status, req.ExpectedStatus) {
			return domain.ErrStatusConflict
		}

		invoice.Status = req.Status
		invoice.PaidAt = req.PaidAt
		invoice.UpdatedAt = now
		if err := invoice.Validate(); err != nil {
			return err
		}
		if err := tx.Save(&invoice).Error; err != nil {
			return err
		}
		result = invoice
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}
	return result, nil
}

func statusIn(status domain.InvoiceStatus, candidates []domain.InvoiceStatus) bool {
	for _, candidate := range candidates {
		if status == candidate {
			return true
		}
	}
	return false
}
