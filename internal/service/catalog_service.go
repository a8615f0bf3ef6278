package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	"github.com/segyhp/isp-admin/internal/repository"
)

// CatalogService manages plans and sectors. Name uniqueness is enforced by the
// schema and surfaces as a conflict.
type CatalogService struct {
	PlanRepo   repository.PlanRepository
	SectorRepo repository.SectorRepository
	Now        Clock

	logger *logger.Logger
}

func NewCatalogService(planRepo repository.PlanRepository, sectorRepo repository.SectorRepository, logger *logger.Logger) *CatalogService {
	return &CatalogService{
		PlanRepo:   planRepo,
		SectorRepo: sectorRepo,
		Now:        time.Now,
		logger:     logger,
	}
}

func (s *CatalogService) CreatePlan(ctx context.Context, req *domain.PlanRequest) (*domain.Plan, error) {
	now := s.Now()
	plan := &domain.Plan{
		ID:        uuid.New(),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyPlanRequest(plan, req)

	if err := s.PlanRepo.Create(ctx, plan); err != nil {
		return nil, storeError(err)
	}
	s.logger.Infow("plan created", "plan_id", plan.ID, "name", plan.Name, "price", plan.Price.String())
	return plan, nil
}

func (s *CatalogService) GetPlan(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	plan, err := s.PlanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Plan", id)
	}
	return plan, nil
}

func (s *CatalogService) ListPlans(ctx context.Context, activeOnly bool) ([]*domain.Plan, error) {
	plans, err := s.PlanRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, storeError(err)
	}
	return plans, nil
}

func (s *CatalogService) UpdatePlan(ctx context.Context, id uuid.UUID, req *domain.PlanRequest) (*domain.Plan, error) {
	plan, err := s.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	applyPlanRequest(plan, req)

	if err := s.PlanRepo.Update(ctx, plan); err != nil {
		return nil, storeError(err)
	}
	return plan, nil
}

func (s *CatalogService) DeletePlan(ctx context.Context, id uuid.UUID) error {
	if err := s.PlanRepo.Delete(ctx, id); err != nil {
		return lookupError(err, "Plan", id)
	}
	return nil
}

func applyPlanRequest(plan *domain.Plan, req *domain.PlanRequest) {
	plan.Name = req.Name
	plan.Price = req.Price
	plan.DownloadMbps = req.DownloadMbps
	plan.UploadMbps = req.UploadMbps
	plan.Description = req.Description
	if req.Active != nil {
		plan.Active = req.Active.Bool()
	}
}

func (s *CatalogService) CreateSector(ctx context.Context, req *domain.SectorRequest) (*domain.Sector, error) {
	now := s.Now()
	sector := &domain.Sector{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.SectorRepo.Create(ctx, sector); err != nil {
		return nil, storeError(err)
	}
	return sector, nil
}

func (s *CatalogService) GetSector(ctx context.Context, id uuid.UUID) (*domain.Sector, error) {
	sector, err := s.SectorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Sector", id)
	}
	return sector, nil
}

func (s *CatalogService) ListSectors(ctx context.Context) ([]*domain.Sector, error) {
	sectors, err := s.SectorRepo.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return sectors, nil
}

func (s *CatalogService) UpdateSector(ctx context.Context, id uuid.UUID, req *domain.SectorRequest) (*domain.Sector, error) {
	sector, err := s.GetSector(ctx, id)
	if err != nil {
		return nil, err
	}
	sector.Name = req.Name
	sector.Description = req.Description

	if err := s.SectorRepo.Update(ctx, sector); err != nil {
		return nil, storeError(err)
	}
	return sector, nil
}

func (s *CatalogService) DeleteSector(ctx context.Context, id uuid.UUID) error {
	if err := s.SectorRepo.Delete(ctx, id); err != nil {
		return lookupError(err, "Sector", id)
	}
	return nil
}
