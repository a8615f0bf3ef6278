package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/repository"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeService struct {
	EmployeeRepo repository.EmployeeRepository
	RoleRepo     repository.RoleRepository
	Now          Clock

	logger *logger.Logger
}

func NewEmployeeService(employeeRepo repository.EmployeeRepository, roleRepo repository.RoleRepository, logger *logger.Logger) *EmployeeService {
	return &EmployeeService{
		EmployeeRepo: employeeRepo,
		RoleRepo:     roleRepo,
		Now:          time.Now,
		logger:       logger,
	}
}

func (s *EmployeeService) Create(ctx context.Context, req *domain.CreateEmployeeRequest) (*domain.Employee, error) {
	if err := s.ensureUnique(ctx, req.Username, req.DocumentID); err != nil {
		return nil, err
	}
	if _, err := s.RoleRepo.GetByID(ctx, req.RoleID); err != nil {
		return nil, lookupError(err, "Role", req.RoleID)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	employee := &domain.Employee{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DocumentID:   req.DocumentID,
		Email:        req.Email,
		Phone:        req.Phone,
		Username:     req.Username,
		PasswordHash: hash,
		RoleID:       req.RoleID,
		Status:       domain.EmployeeStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.EmployeeRepo.Create(ctx, employee); err != nil {
		return nil, storeError(err)
	}

	s.logger.Infow("employee created", "employee_id", employee.ID, "username", employee.Username)
	return employee, nil
}

func (s *EmployeeService) Get(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	employee, err := s.EmployeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Employee", id)
	}
	return employee, nil
}

func (s *EmployeeService) List(ctx context.Context, filter *domain.ListFilter) (*domain.Page[*domain.Employee], error) {
	filter.Normalize()
	employees, total, err := s.EmployeeRepo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}
	return &domain.Page[*domain.Employee]{Items: employees, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *EmployeeService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateEmployeeRequest) (*domain.Employee, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.RoleID != nil {
		if _, err := s.RoleRepo.GetByID(ctx, *req.RoleID); err != nil {
			return nil, lookupError(err, "Role", *req.RoleID)
		}
		employee.RoleID = *req.RoleID
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		employee.PasswordHash = hash
	}
	if req.FirstName != nil {
		employee.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		employee.LastName = *req.LastName
	}
	if req.Email != nil {
		employee.Email = req.Email
	}
	if req.Phone != nil {
		employee.Phone = req.Phone
	}
	if req.Status != nil {
		employee.Status = *req.Status
	}

	if err := s.EmployeeRepo.Update(ctx, employee); err != nil {
		return nil, storeError(err)
	}
	return employee, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.EmployeeRepo.Delete(ctx, id); err != nil {
		return lookupError(err, "Employee", id)
	}
	return nil
}

// CheckPassword reports whether password matches the employee's stored hash.
func CheckPassword(employee *domain.Employee, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(password)) == nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.WrapValidation("password cannot be hashed", err)
	}
	return string(hash), nil
}

func (s *EmployeeService) ensureUnique(ctx context.Context, username, documentID string) error {
	if _, err := s.EmployeeRepo.GetByUsername(ctx, username); err == nil {
		return apperrors.WrapConflict(fmt.Sprintf("Username %s is already taken", username))
	} else if !errors.Is(err, sql.ErrNoRows) {
		return storeError(err)
	}

	if _, err := s.EmployeeRepo.GetByDocumentID(ctx, documentID); err == nil {
		return apperrors.WrapConflict(fmt.Sprintf("An employee with document %s already exists", documentID))
	} else if !errors.Is(err, sql.ErrNoRows) {
		return storeError(err)
	}
	return nil
}
