package service

import (
	"context"
	"strings"

	"inventory-service/internal/errs"
	"inventory-service/internal/models"
	"inventory-service/internal/store"
	"inventory-service/internal/util"

	"go.uber.org/zap"
)

// AccountService manages customers and vendors
type AccountService struct {
	store       *store.Store
	phoneRegion string
	logger      *zap.Logger
}

// NewAccountService creates a new account service. phoneRegion is used for
// phone numbers written without a country code.
func NewAccountService(store *store.Store, phoneRegion string) *AccountService {
	return &AccountService{
		store:       store,
		phoneRegion: phoneRegion,
		logger:      util.GetLogger(),
	}
}

// CustomerRequest represents a customer to create or update
type CustomerRequest struct {
	FirstName string `json:"first_name" validate:"required,max=256"`
	LastName  string `json:"last_name" validate:"max=256"`
	Address   string `json:"address" validate:"max=256"`
	Email     string `json:"email" validate:"omitempty,email,max=256"`
	Phone     string `json:"phone" validate:"max=30"`
}

// VendorRequest represents a vendor to create or update
type VendorRequest struct {
	Name    string `json:"name" validate:"required,max=50"`
	Phone   string `json:"phone" validate:"max=30"`
	Address string `json:"address" validate:"max=50"`
}

// CreateCustomer creates a customer with a normalized phone number
func (s *AccountService) CreateCustomer(ctx context.Context, req *CustomerRequest) (*models.Customer, error) {
	c, err := s.customerFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateCustomer(ctx, c); err != nil {
		return nil, errs.Persistence("create customer", err)
	}
	s.logger.Info("Customer created", zap.Int64("customer_id", c.ID))
	return c, nil
}

// UpdateCustomer replaces a customer's contact details
func (s *AccountService) UpdateCustomer(ctx context.Context, id int64, req *CustomerRequest) (*models.Customer, error) {
	c, err := s.customerFromRequest(req)
	if err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.store.UpdateCustomer(ctx, c); err != nil {
		return nil, errs.Persistence("update customer", err)
	}
	return s.GetCustomer(ctx, id)
}

// DeleteCustomer removes a customer who has no sales
func (s *AccountService) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.store.DeleteCustomer(ctx, id); err != nil {
		return errs.Persistence("delete customer", err)
	}
	s.logger.Info("Customer deleted", zap.Int64("customer_id", id))
	return nil
}

func (s *AccountService) customerFromRequest(req *CustomerRequest) (*models.Customer, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	phone, err := s.normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	return &models.Customer{
		FirstName: req.FirstName,
		LastName:  strings.TrimSpace(req.LastName),
		Address:   req.Address,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     phone,
	}, nil
}

// GetCustomer retrieves a customer by ID
func (s *AccountService) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	c, err := s.store.GetCustomerByID(ctx, id)
	return c, errs.Persistence("get customer", err)
}

// ListCustomers lists customers whose name matches q
func (s *AccountService) ListCustomers(ctx context.Context, q string, limit, offset int) ([]models.Customer, error) {
	customers, err := s.store.ListCustomers(ctx, q, limit, offset)
	return customers, errs.Persistence("list customers", err)
}

// CreateVendor creates a vendor with a normalized phone number
func (s *AccountService) CreateVendor(ctx context.Context, req *VendorRequest) (*models.Vendor, error) {
	v, err := s.vendorFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateVendor(ctx, v); err != nil {
		return nil, errs.Persistence("create vendor", err)
	}
	s.logger.Info("Vendor created", zap.Int64("vendor_id", v.ID))
	return v, nil
}

// UpdateVendor replaces a vendor's details
func (s *AccountService) UpdateVendor(ctx context.Context, id int64, req *VendorRequest) (*models.Vendor, error) {
	v, err := s.vendorFromRequest(req)
	if err != nil {
		return nil, err
	}
	v.ID = id
	if err := s.store.UpdateVendor(ctx, v); err != nil {
		return nil, errs.Persistence("update vendor", err)
	}
	return s.GetVendor(ctx, id)
}

// DeleteVendor removes a vendor with no purchases
func (s *AccountService) DeleteVendor(ctx context.Context, id int64) error {
	if err := s.store.DeleteVendor(ctx, id); err != nil {
		return errs.Persistence("delete vendor", err)
	}
	s.logger.Info("Vendor deleted", zap.Int64("vendor_id", id))
	return nil
}

func (s *AccountService) vendorFromRequest(req *VendorRequest) (*models.Vendor, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	phone, err := s.normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}
	return &models.Vendor{Name: req.Name, Phone: phone, Address: req.Address}, nil
}

// GetVendor retrieves a vendor by ID
func (s *AccountService) GetVendor(ctx context.Context, id int64) (*models.Vendor, error) {
	v, err := s.store.GetVendorByID(ctx, id)
	return v, errs.Persistence("get vendor", err)
}

// ListVendors lists vendors
func (s *AccountService) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	vendors, err := s.store.ListVendors(ctx)
	return vendors, errs.Persistence("list vendors", err)
}

func (s *AccountService) normalizePhone(phone string) (string, error) {
	return normalizePhone("phone", phone, s.phoneRegion)
}

func normalizePhone(field, phone, region string) (string, error) {
	normalized, err := util.NormalizePhone(phone, region)
	if err != nil {
		return "", errs.Malformed(field, "must be a valid phone number")
	}
	return normalized, nil
}
