package mongodb

import (
	"context"
	"errors"

	"github.com/geocoder89/worklog/internal/domain/template"
	"github.com/geocoder89/worklog/internal/observability"
	"github.com/geocoder89/worklog/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TemplatesRepo struct {
	coll *mongo.Collection
	observer
}

func NewTemplatesRepo(db *mongo.Database, prom *observability.Prom) *TemplatesRepo {
	return &TemplatesRepo{coll: db.Collection(templatesCollection), observer: observer{prom: prom}}
}

func (r *TemplatesRepo) List(ctx context.Context, userID string) ([]template.Template, error) {
	out := make([]template.Template, 0)

	err := r.observe("templates.list", func() error {
		cur, err := r.coll.Find(ctx,
			bson.M{"owner_id": userID},
			options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
		)
		if err != nil {
			return err
		}
		return cur.All(ctx, &out)
	})

	if err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Exercises = template.Names(out[i].Exercises)
	}
	return out, nil
}

func (r *TemplatesRepo) Create(ctx context.Context, userID string, req template.CreateRequest) (template.Template, error) {
	t := template.NewFromCreateRequest(userID, req, nowUTC())

	err := r.observe("templates.create", func() error {
		_, err := r.coll.InsertOne(ctx, t)
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
		return r.coll.FindOne(ctx, ownedFilter(userID, id)).Decode(&t)
	})

	return finishTemplate(t, err)
}

func (r *TemplatesRepo) Update(ctx context.Context, userID, id string, req template.UpdateRequest) (template.Template, error) {
	if !utils.IsUUID(id) {
		return template.Template{}, template.ErrNotFound
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Exercises != nil {
		set["exercises"] = template.Names(*req.Exercises)
	}
	if len(set) == 0 {
		return r.GetByID(ctx, userID, id)
	}

	var t template.Template
	err := r.observe("templates.update", func() error {
		return r.coll.FindOneAndUpdate(ctx,
			ownedFilter(userID, id),
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&t)
	})

	return finishTemplate(t, err)
}

func (r *TemplatesRepo) Delete(ctx context.Context, userID, id string) error {
	if !utils.IsUUID(id) {
		return template.ErrNotFound
	}

	var deleted int64
	err := r.observe("templates.delete", func() error {
		res, err := r.coll.DeleteOne(ctx, ownedFilter(userID, id))
		if err != nil {
			return err
		}
		deleted = res.DeletedCount
		return nil
	})

	if err != nil {
		return err
	}
	if deleted == 0 {
		return template.ErrNotFound
	}
	return nil
}

func finishTemplate(t template.Template, err error) (template.Template, error) {
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return template.Template{}, template.ErrNotFound
		}
		return template.Template{}, err
	}
	t.Exercises = template.Names(t.Exercises)
	return t, nil
}
