package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/geocoder89/worklog/internal/domain/template"
	"github.com/geocoder89/worklog/internal/utils"
)

type storedTemplate struct {
	t   template.Template
	seq uint64
}

type TemplatesRepo struct {
	mu    sync.RWMutex
	items map[string]storedTemplate
	seq   uint64
	now   func() time.Time
}

func NewTemplatesRepo() *TemplatesRepo {
	return &TemplatesRepo{
		items: make(map[string]storedTemplate),
		now:   time.Now,
	}
}

func (r *TemplatesRepo) List(_ context.Context, userID string) ([]template.Template, error) {
	r.mu.RLock()
	owned := make([]storedTemplate, 0)
	for _, s := range r.items {
		if s.t.UserID == userID {
			owned = append(owned, s)
		}
	}
	r.mu.RUnlock()

	// newest first; seq breaks ties between equal timestamps
	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].t.CreatedAt.Equal(owned[j].t.CreatedAt) {
			return owned[i].t.CreatedAt.After(owned[j].t.CreatedAt)
		}
		return owned[i].seq > owned[j].seq
	})

	out := make([]template.Template, 0, len(owned))
	for _, s := range owned {
		out = append(out, cloneTemplate(s.t))
	}
	return out, nil
}

func (r *TemplatesRepo) Create(_ context.Context, userID string, req template.CreateRequest) (template.Template, error) {
	t := template.NewFromCreateRequest(userID, req, r.now())

	r.mu.Lock()
	r.seq++
	r.items[t.ID] = storedTemplate{t: t, seq: r.seq}
	r.mu.Unlock()

	return cloneTemplate(t), nil
}

func (r *TemplatesRepo) GetByID(_ context.Context, userID, id string) (template.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.owned(userID, id)
	if !ok {
		return template.Template{}, template.ErrNotFound
	}
	return cloneTemplate(s.t), nil
}

func (r *TemplatesRepo) Update(_ context.Context, userID, id string, req template.UpdateRequest) (template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.owned(userID, id)
	if !ok {
		return template.Template{}, template.ErrNotFound
	}

	s.t = template.Apply(s.t, req)
	r.items[id] = s

	return cloneTemplate(s.t), nil
}

func (r *TemplatesRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owned(userID, id); !ok {
		return template.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *TemplatesRepo) owned(userID, id string) (storedTemplate, bool) {
	if !utils.IsUUID(id) {
		return storedTemplate{}, false
	}
	s, ok := r.items[id]
	if !ok || s.t.UserID != userID {
		return storedTemplate{}, false
	}
	return s, true
}

func cloneTemplate(t template.Template) template.Template {
	t.Exercises = template.Names(t.Exercises)
	return t
}
