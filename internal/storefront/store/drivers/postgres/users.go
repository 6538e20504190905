package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt)
	u.Role = domain.Role(role)
	return u, err
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET name = $1, role = $2, updated_at = $3 WHERE id = $4`,
		u.Name, string(u.Role), u.UpdatedAt.UTC(), u.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireAffected(tag)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id, hash string, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`, hash, at.UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

func (r *usersRepo) DeleteUser(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

func (r *usersRepo) ListNonAdminUsers(ctx context.Context) ([]domain.UserWithProducts, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.created_at, u.updated_at,
		       p.id, p.title
		FROM users u
		LEFT JOIN products p ON p.owner_id = u.id
		WHERE u.role <> 'ADMIN'
		ORDER BY u.created_at DESC, u.id DESC, p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.UserWithProducts{}
	index := map[string]int{}
	for rows.Next() {
		var (
			u           domain.User
			role        string
			pID, pTitle *string
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt, &pID, &pTitle); err != nil {
			return nil, err
		}
		u.Role = domain.Role(role)

		i, ok := index[u.ID]
		if !ok {
			i = len(out)
			index[u.ID] = i
			out = append(out, domain.UserWithProducts{User: u, Products: []domain.ProductRef{}})
		}
		if pID != nil {
			ref := domain.ProductRef{ID: *pID}
			if pTitle != nil {
				ref.Title = *pTitle
			}
			out[i].Products = append(out[i].Products, ref)
		}
	}
	return out, rows.Err()
}
