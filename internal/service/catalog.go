package service

import (
	"context"
	"strings"

	"foodflow/internal/domain"
	"foodflow/internal/repository"
)

type MenuService struct {
	menus repository.MenuRepositoryInterface
}

func NewMenuService(menus repository.MenuRepositoryInterface) *MenuService {
	return &MenuService{menus: menus}
}

func (s *MenuService) List(ctx context.Context) ([]domain.Menu, error) {
	return s.menus.ListAll(ctx)
}

func (s *MenuService) Get(ctx context.Context, id int64) (domain.Menu, error) {
	m, found, err := s.menus.FindByID(ctx, id)
	if err != nil {
		return domain.Menu{}, err
	}
	if !found {
		return domain.Menu{}, domain.ErrNotFound
	}
	return m, nil
}

func menuFromRequest(req domain.CreateMenuRequest) (domain.Menu, error) {
	name := strings.TrimSpace(req.MenuName)
	if name == "" {
		return domain.Menu{}, domain.NewValidationError("menu_name is required")
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status == "" {
		status = "available"
	}
	return domain.Menu{
		Name:     name,
		Category: req.Category,
		Price:    req.Price,
		Status:   status,
	}, nil
}

func (s *MenuService) Create(ctx context.Context, req domain.CreateMenuRequest) (domain.Menu, error) {
	m, err := menuFromRequest(req)
	if err != nil {
		return domain.Menu{}, err
	}
	return s.menus.Create(ctx, m)
}

func (s *MenuService) Update(ctx context.Context, id int64, req domain.CreateMenuRequest) (domain.Menu, error) {
	existing, found, err := s.menus.FindByID(ctx, id)
	if err != nil {
		return domain.Menu{}, err
	}
	if !found {
		return domain.Menu{}, domain.ErrNotFound
	}

	next := existing
	if strings.TrimSpace(req.MenuName) != "" {
		next.Name = strings.TrimSpace(req.MenuName)
	}
	if req.Category != nil {
		next.Category = req.Category
	}
	next.Price = req.Price
	if strings.TrimSpace(req.Status) != "" {
		next.Status = strings.ToLower(strings.TrimSpace(req.Status))
	}
	return s.menus.Update(ctx, id, next)
}

func (s *MenuService) Remove(ctx context.Context, id int64) (int64, error) {
	deleted, err := s.menus.Remove(ctx, id)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, domain.ErrNotFound
	}
	return deleted, nil
}

type MembershipService struct {
	memberships repository.MembershipRepositoryInterface
}

func NewMembershipService(memberships repository.MembershipRepositoryInterface) *MembershipService {
	return &MembershipService{memberships: memberships}
}

func (s *MembershipService) List(ctx context.Context) ([]domain.Membership, error) {
	return s.memberships.ListAll(ctx)
}

func (s *MembershipService) Get(ctx context.Context, id int64) (domain.Membership, error) {
	m, found, err := s.memberships.FindByID(ctx, id)
	if err != nil {
		return domain.Membership{}, err
	}
	if !found {
		return domain.Membership{}, domain.ErrNotFound
	}
	return m, nil
}

func (s *MembershipService) Create(ctx context.Context, req domain.CreateMembershipRequest) (domain.Membership, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return domain.Membership{}, domain.NewValidationError("email is required")
	}
	tier := strings.ToLower(strings.TrimSpace(req.Tier))
	if tier == "" {
		tier = "basic"
	}
	return s.memberships.Create(ctx, domain.Membership{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     req.Phone,
		Email:     email,
		Tier:      tier,
	})
}
