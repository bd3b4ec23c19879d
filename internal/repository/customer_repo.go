package repository

import (
	"context"

	"shoptobd/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=customer_repo.go -destination=mocks/customer_repo_mock.go -package=mocks

// CustomerRepository defines the interface for data access of customers and their login methods
type CustomerRepository interface {
	CreateWithAuth(ctx context.Context, customer *model.Customer, auth *model.UserAuth) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	FindByEmail(ctx context.Context, email string) (*model.Customer, error)
	FindAuth(ctx context.Context, authType, authData string) (*model.UserAuth, error)
	UpdateAuth(ctx context.Context, auth *model.UserAuth) error
}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository returns a new instance of CustomerRepository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// CreateWithAuth inserts the customer, then the auth row pointing at it.
func (r *customerRepository) CreateWithAuth(ctx context.Context, customer *model.Customer, auth *model.UserAuth) error {
	db := GetDB(ctx, r.db)
	if err := db.Create(customer).Error; err != nil {
		return err
	}
	auth.CustomerID = customer.ID
	return db.Omit("Customer").Create(auth).Error
}

func (r *customerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := GetDB(ctx, r.db).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var customer model.Customer
	if err := GetDB(ctx, r.db).First(&customer, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindAuth(ctx context.Context, authType, authData string) (*model.UserAuth, error) {
	var auth model.UserAuth
	if err := GetDB(ctx, r.db).Preload("Customer").
		First(&auth, "auth_type = ? AND auth_data = ?", authType, authData).Error; err != nil {
		return nil, err
	}
	return &auth, nil
}

func (r *customerRepository) UpdateAuth(ctx context.Context, auth *model.UserAuth) error {
	return GetDB(ctx, r.db).Omit("Customer").Save(auth).Error
}
