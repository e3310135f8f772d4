package party

import (
	"context"

	appledger "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/party"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service manages clients and vendors. Their outstanding balances are
// maintained by the payment and entity services; this service only handles
// the party records themselves.
type Service struct {
	scope  appledger.TransactionScope
	audit  appledger.AuditSink
	logger *zap.Logger
}

// NewService creates a new party Service
func NewService(scope appledger.TransactionScope, audit appledger.AuditSink, logger *zap.Logger) *Service {
	return &Service{
		scope:  scope,
		audit:  audit,
		logger: logger,
	}
}

// CreateClientCommand carries the inputs for registering a client
type CreateClientCommand struct {
	Name        string
	ContactName string
	Phone       string
	Email       string
	Address     string
	GSTNumber   string
	Notes       string
}

// CreateVendorCommand carries the inputs for registering a vendor
type CreateVendorCommand struct {
	Name        string
	Category    party.VendorCategory
	ContactName string
	Phone       string
	Email       string
	Address     string
	GSTNumber   string
	Notes       string
}

// CreateClient registers a new client
func (s *Service) CreateClient(ctx context.Context, cmd CreateClientCommand) (*party.Client, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "party", "create_client")
	defer span.End()

	var client *party.Client
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		client, err = party.NewClient(cmd.Name)
		if err != nil {
			return err
		}
		client.SetContact(cmd.ContactName, cmd.Phone, cmd.Email)
		client.Address = cmd.Address
		client.GSTNumber = cmd.GSTNumber
		client.Notes = cmd.Notes
		return repos.ClientRepo().Save(ctx, client)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.recordAudit(ctx, ledger.AuditActionCreate, "client", client.ID, nil, client)
	return client, nil
}

// CreateVendor registers a new vendor
func (s *Service) CreateVendor(ctx context.Context, cmd CreateVendorCommand) (*party.Vendor, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "party", "create_vendor")
	defer span.End()

	var vendor *party.Vendor
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		vendor, err = party.NewVendor(cmd.Name, cmd.Category)
		if err != nil {
			return err
		}
		vendor.SetContact(cmd.ContactName, cmd.Phone, cmd.Email)
		vendor.Address = cmd.Address
		vendor.GSTNumber = cmd.GSTNumber
		vendor.Notes = cmd.Notes
		return repos.VendorRepo().Save(ctx, vendor)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.recordAudit(ctx, ledger.AuditActionCreate, "vendor", vendor.ID, nil, vendor)
	return vendor, nil
}

// GetClient loads a single client
func (s *Service) GetClient(ctx context.Context, clientID uuid.UUID) (*party.Client, error) {
	var client *party.Client
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		client, err = repos.ClientRepo().FindByID(ctx, clientID)
		return err
	})
	return client, err
}

// GetVendor loads a single vendor
func (s *Service) GetVendor(ctx context.Context, vendorID uuid.UUID) (*party.Vendor, error) {
	var vendor *party.Vendor
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		vendor, err = repos.VendorRepo().FindByID(ctx, vendorID)
		return err
	})
	return vendor, err
}

// ListClients returns clients matching the filter
func (s *Service) ListClients(ctx context.Context, filter shared.Filter) ([]party.Client, error) {
	var result []party.Client
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		result, err = repos.ClientRepo().FindAll(ctx, filter)
		return err
	})
	return result, err
}

// ListVendors returns vendors matching the filter
func (s *Service) ListVendors(ctx context.Context, filter shared.Filter) ([]party.Vendor, error) {
	var result []party.Vendor
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		result, err = repos.VendorRepo().FindAll(ctx, filter)
		return err
	})
	return result, err
}

// DeactivateClient marks a client inactive without touching history
func (s *Service) DeactivateClient(ctx context.Context, clientID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "party", "deactivate_client")
	defer span.End()

	var client *party.Client
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		client, err = repos.ClientRepo().FindByID(ctx, clientID)
		if err != nil {
			return err
		}
		client.Deactivate()
		return repos.ClientRepo().Save(ctx, client)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.recordAudit(ctx, ledger.AuditActionStatusChange, "client", client.ID, nil, client)
	return nil
}

// DeactivateVendor marks a vendor inactive without touching history
func (s *Service) DeactivateVendor(ctx context.Context, vendorID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "party", "deactivate_vendor")
	defer span.End()

	var vendor *party.Vendor
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		vendor, err = repos.VendorRepo().FindByID(ctx, vendorID)
		if err != nil {
			return err
		}
		vendor.Deactivate()
		return repos.VendorRepo().Save(ctx, vendor)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.recordAudit(ctx, ledger.AuditActionStatusChange, "vendor", vendor.ID, nil, vendor)
	return nil
}

func (s *Service) recordAudit(ctx context.Context, action ledger.AuditAction, entityType string, entityID uuid.UUID, oldValue, newValue interface{}) {
	entry, err := ledger.NewAuditEntry(action, entityType, entityID, oldValue, newValue)
	if err != nil {
		s.logger.Warn("failed to build audit entry",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID.String()),
			zap.Error(err))
		return
	}
	s.audit.Record(ctx, entry)
}
