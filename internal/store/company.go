package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"permit-service/internal/model"
)

// Companies lists all tenants, admin first, then alphabetically.
func (s *Store) Companies() ([]model.Company, error) {
	var companies []model.Company
	if err := s.db.Order("is_admin DESC, name").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// CompanyBySlug resolves a tenant by its URL slug.
func (s *Store) CompanyBySlug(slug string) (*model.Company, error) {
	var company model.Company
	err := s.db.Where("slug = ?", slug).First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundf("company %q not found", slug)
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// CompanyByID resolves a tenant by id.
func (s *Store) CompanyByID(id uint) (*model.Company, error) {
	var company model.Company
	err := s.db.First(&company, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundf("company %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// CreateCompany registers a tenant and provisions its zeroed AGO and PMS
// allocation rows in the same transaction. Slugs are unique as stored.
func (s *Store) CreateCompany(name, slug string) (*model.Company, error) {
	name = strings.TrimSpace(name)
	slug = strings.TrimSpace(slug)
	if name == "" || slug == "" {
		return nil, InvalidInputf("name and slug are required")
	}

	var count int64
	if err := s.db.Model(&model.Company{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, Conflictf("slug %q already exists", slug)
	}

	company := model.Company{Name: name, Slug: slug}
	err := s.withTx(func(tx *Store) error {
		if err := tx.db.Create(&company).Error; err != nil {
			return err
		}
		for _, category := range model.Categories {
			allocation := model.Allocation{CompanyID: company.ID, ProductType: category}
			if err := tx.db.Create(&allocation).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// UpdateCompany renames a tenant and/or changes its slug.
func (s *Store) UpdateCompany(id uint, name, slug string) (*model.Company, error) {
	company, err := s.CompanyByID(id)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name == "" {
		return nil, InvalidInputf("name is required")
	}
	if slug = strings.TrimSpace(slug); slug == "" {
		return nil, InvalidInputf("slug is required")
	}
	if slug != company.Slug {
		var count int64
		if err := s.db.Model(&model.Company{}).Where("slug = ? AND id != ?", slug, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, Conflictf("slug %q already exists", slug)
		}
	}
	company.Name = name
	company.Slug = slug
	if err := s.db.Save(company).Error; err != nil {
		return nil, err
	}
	return company, nil
}

// DeleteCompany removes a tenant and everything it owns: trucks, allocations
// and audit entries, then the company row, in one transaction. Deleting the
// admin company is a silent no-op.
func (s *Store) DeleteCompany(id uint) error {
	company, err := s.CompanyByID(id)
	if err != nil {
		return err
	}
	if company.IsAdmin {
		return nil
	}
	return s.withTx(func(tx *Store) error {
		if err := tx.db.Where("company_id = ?", id).Delete(&model.Truck{}).Error; err != nil {
			return err
		}
		if err := tx.db.Where("company_id = ?", id).Delete(&model.Allocation{}).Error; err != nil {
			return err
		}
		if err := tx.db.Where("company_id = ?", id).Delete(&model.AuditLog{}).Error; err != nil {
			return err
		}
		return tx.db.Delete(&model.Company{}, id).Error
	})
}
