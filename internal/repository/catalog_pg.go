package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"foodflow/internal/domain"
)

type MenuRepository struct {
	db *sql.DB
}

func NewMenuRepository(db *sql.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

func scanMenu(row interface{ Scan(...any) error }) (domain.Menu, error) {
	var m domain.Menu
	err := row.Scan(&m.ID, &m.Name, &m.Category, &m.Price, &m.Status, &m.CreatedAt)
	return m, err
}

func (r *MenuRepository) Create(ctx context.Context, m domain.Menu) (domain.Menu, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO menus (menu_name, category_name, price, status)
		VALUES ($1, $2, $3, $4)
		RETURNING menu_id, menu_name, category_name, price, status, created_at
	`, m.Name, m.Category, m.Price, m.Status)
	created, err := scanMenu(row)
	if err != nil {
		return domain.Menu{}, errors.Wrap(err, "insert menu")
	}
	return created, nil
}

func (r *MenuRepository) FindByID(ctx context.Context, id int64) (domain.Menu, bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT menu_id, menu_name, category_name, price, status, created_at FROM menus WHERE menu_id = $1`, id)
	m, err := scanMenu(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Menu{}, false, nil
	}
	if err != nil {
		return domain.Menu{}, false, errors.Wrap(err, "find menu")
	}
	return m, true, nil
}

func (r *MenuRepository) ListAll(ctx context.Context) ([]domain.Menu, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT menu_id, menu_name, category_name, price, status, created_at FROM menus ORDER BY menu_id`)
	if err != nil {
		return nil, errors.Wrap(err, "list menus")
	}
	defer rows.Close()

	out := []domain.Menu{}
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan menu")
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MenuRepository) Update(ctx context.Context, id int64, m domain.Menu) (domain.Menu, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE menus SET menu_name = $2, category_name = $3, price = $4, status = $5
		WHERE menu_id = $1
		RETURNING menu_id, menu_name, category_name, price, status, created_at
	`, id, m.Name, m.Category, m.Price, m.Status)
	updated, err := scanMenu(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Menu{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Menu{}, errors.Wrap(err, "update menu")
	}
	return updated, nil
}

func (r *MenuRepository) Remove(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menus WHERE menu_id = $1`, id)
	if err != nil {
		return 0, errors.Wrap(err, "delete menu")
	}
	n, err := res.RowsAffected()
	return n, errors.Wrap(err, "delete menu rows affected")
}

type MembershipRepository struct {
	db *sql.DB
}

func NewMembershipRepository(db *sql.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func scanMembership(row interface{ Scan(...any) error }) (domain.Membership, error) {
	var m domain.Membership
	var first, last sql.NullString
	err := row.Scan(&m.ID, &first, &last, &m.Phone, &m.Email, &m.Tier, &m.Points, &m.CreatedAt)
	if err != nil {
		return domain.Membership{}, err
	}
	m.FirstName = first.String
	m.LastName = last.String
	return m, nil
}

func (r *MembershipRepository) Create(ctx context.Context, m domain.Membership) (domain.Membership, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO memberships (member_name, member_lastname, phone, email, tier)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING membership_id, member_name, member_lastname, phone, email, tier, points, created_at
	`, m.FirstName, m.LastName, m.Phone, m.Email, m.Tier)
	created, err := scanMembership(row)
	if err != nil {
		return domain.Membership{}, errors.Wrap(err, "insert membership")
	}
	return created, nil
}

func (r *MembershipRepository) FindByID(ctx context.Context, id int64) (domain.Membership, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT membership_id, member_name, member_lastname, phone, email, tier, points, created_at
		FROM memberships WHERE membership_id = $1
	`, id)
	m, err := scanMembership(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Membership{}, false, nil
	}
	if err != nil {
		return domain.Membership{}, false, errors.Wrap(err, "find membership")
	}
	return m, true, nil
}

func (r *MembershipRepository) ListAll(ctx context.Context) ([]domain.Membership, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT membership_id, member_name, member_lastname, phone, email, tier, points, created_at
		FROM memberships ORDER BY membership_id
	`)
	if err != nil {
		return nil, errors.Wrap(err, "list memberships")
	}
	defer rows.Close()

	out := []domain.Membership{}
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan membership")
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
