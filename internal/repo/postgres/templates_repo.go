package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/geocoder89/worklog/internal/domain/template"
	"github.com/geocoder89/worklog/internal/observability"
	"github.com/geocoder89/worklog/internal/utils"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const templateColumns = `id, owner_id, name, exercises, created_at`

type TemplatesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTemplatesRepo(pool *pgxpool.Pool, prom *observability.Prom) *TemplatesRepo {
	return &TemplatesRepo{pool: pool, prom: prom}
}

func (r *TemplatesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *TemplatesRepo) List(ctx context.Context, userID string) ([]template.Template, error) {
	out := make([]template.Template, 0)

	err := r.observe("templates.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+templateColumns+`
			 FROM templates
			 WHERE owner_id = $1
			 ORDER BY created_at DESC, id DESC`,
			userID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTemplate(rows)
			if err != nil {
				return err
			}
			out = append(out, t)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TemplatesRepo) Create(ctx context.Context, userID string, req template.CreateRequest) (template.Template, error) {
	t := template.NewFromCreateRequest(userID, req, nowUTC())

	raw, err := json.Marshal(t.Exercises)
	if err != nil {
		return template.Template{}, err
	}

	err = r.observe("templates.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO templates (id, owner_id, name, exercises, created_at)
			 VALUES ($1, $2, $3, $4::jsonb, $5)`,
			t.ID, t.UserID, t.Name, string(raw), t.CreatedAt,
		)
		return err
	})

	if err != nil {
		return template.Template{}, err
	}
	return t, nil
}

func (r *TemplatesRepo) GetByID(ctx context.Context, userID, id string) (template.Template, error) {
	if !utils.IsUUID(id) {
		return template.Template{}, template.ErrNotFound
	}

	var t template.Template
	err := r.observe("templates.get", func() error {
		var err error
		t, err = scanTemplate(r.pool.QueryRow(ctx,
			`SELECT `+templateColumns+` FROM templates WHERE id = $1 AND owner_id = $2`,
			id, userID,
		))
		return err
	})

	return t, translateTemplateErr(err)
}

func (r *TemplatesRepo) Update(ctx context.Context, userID, id string, req template.UpdateRequest) (template.Template, error) {
	if !utils.IsUUID(id) {
		return template.Template{}, template.ErrNotFound
	}

	var exercisesArg any
	if req.Exercises != nil {
		raw, err := json.Marshal(template.Names(*req.Exercises))
		if err != nil {
			return template.Template{}, err
		}
		exercisesArg = string(raw)
	}

	var t template.Template
	err := r.observe("templates.update", func() error {
		var err error
		t, err = scanTemplate(r.pool.QueryRow(ctx,
			`UPDATE templates
			 SET name = COALESCE($3, name),
			     exercises = COALESCE($4::jsonb, exercises)
			 WHERE id = $1 AND owner_id = $2
			 RETURNING `+templateColumns,
			id, userID, req.Name, exercisesArg,
		))
		return err
	})

	return t, translateTemplateErr(err)
}

func (r *TemplatesRepo) Delete(ctx context.Context, userID, id string) error {
	if !utils.IsUUID(id) {
		return template.ErrNotFound
	}

	var affected int64
	err := r.observe("templates.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1 AND owner_id = $2`, id, userID)
		affected = tag.RowsAffected()
		return err
	})

	if err != nil {
		return err
	}
	if affected == 0 {
		return template.ErrNotFound
	}
	return nil
}

func scanTemplate(row pgx.Row) (template.Template, error) {
	var t template.Template
	var raw []byte

	err := row.Scan(&t.ID, &t.UserID, &t.Name, &raw, &t.CreatedAt)
	if err != nil {
		return template.Template{}, err
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &t.Exercises); err != nil {
			return template.Template{}, err
		}
	}
	t.Exercises = template.Names(t.Exercises)
	return t, nil
}

func translateTemplateErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return template.ErrNotFound
	}
	return err
}
