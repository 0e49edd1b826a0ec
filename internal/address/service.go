package address

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
)

var (
	ErrAddressNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	ErrAliasInUse      = pkgerrors.New(pkgerrors.CodeConflict, "address alias already used")
)

// Service manages the address book of the authenticated user.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, req AddAddressRequest) ([]AddressDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
	Remove(ctx context.Context, userID, addressID uuid.UUID) ([]AddressDTO, error)
}

type addressRepository interface {
	Insert(ctx context.Context, row *models.UserAddress) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserAddress, error)
	DeleteOwned(ctx context.Context, userID, addressID uuid.UUID) error
}

type service struct {
	repo addressRepository
}

func NewService(repo addressRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "address repository required")
	}
	return &service{repo: repo}, nil
}

// Add stores a new entry and returns the whole address book.
func (s *service) Add(ctx context.Context, userID uuid.UUID, req AddAddressRequest) ([]AddressDTO, error) {
	alias := strings.TrimSpace(req.Alias)
	if alias == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "alias is required")
	}
	row := &models.UserAddress{
		ID:         uuid.New(),
		UserID:     userID,
		Alias:      alias,
		Details:    strings.TrimSpace(req.Details),
		Phone:      strings.TrimSpace(req.Phone),
		City:       strings.TrimSpace(req.City),
		PostalCode: strings.TrimSpace(req.PostalCode),
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, ErrAliasInUse
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add address")
	}
	return s.List(ctx, userID)
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list addresses")
	}
	out := make([]AddressDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

// Remove deletes an owned entry; another user's address reads as missing.
func (s *service) Remove(ctx context.Context, userID, addressID uuid.UUID) ([]AddressDTO, error) {
	if err := s.repo.DeleteOwned(ctx, userID, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove address")
	}
	return s.List(ctx, userID)
}
