package expense

import (
	"context"

	"github.com/google/uuid"

	"github.com/kyber/backend/internal/domain/expense"
)

// VendorService handles vendor operations
type VendorService struct {
	vendorRepo expense.VendorRepository
}

// NewVendorService creates a new VendorService
func NewVendorService(vendorRepo expense.VendorRepository) *VendorService {
	return &VendorService{vendorRepo: vendorRepo}
}

// List retrieves all vendors ordered by name
func (s *VendorService) List(ctx context.Context) ([]VendorResponse, error) {
	vendors, err := s.vendorRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToVendorResponses(vendors), nil
}

// Create creates a new vendor
func (s *VendorService) Create(ctx context.Context, req VendorRequest) (*VendorResponse, error) {
	vendor, err := expense.NewVendor(req.Name, req.Email, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}

	response := ToVendorResponse(vendor)
	return &response, nil
}

// Update replaces the vendor contact fields
func (s *VendorService) Update(ctx context.Context, id uuid.UUID, req VendorRequest) (*VendorResponse, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := vendor.Update(req.Name, req.Email, req.Phone, req.Address); err != nil {
		return nil, err
	}
	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}

	response := ToVendorResponse(vendor)
	return &response, nil
}

// Delete removes a vendor. Expenses keep their vendor reference as a
// dangling ID; reporting does not depend on it.
func (s *VendorService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.vendorRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.vendorRepo.Delete(ctx, id)
}
