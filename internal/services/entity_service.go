package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/joshua-takyi/eventhub/internal/helpers"
	"github.com/joshua-takyi/eventhub/internal/models"
)

// EntityService implements create, list, update and delete for one entity
// kind. T is the typed record accepted on create.
type EntityService[T models.Record] struct {
	entity  models.Entity
	allowed helpers.FieldSet
	repo    models.EntityRepo
}

func NewEntityService[T models.Record](entity models.Entity, repo models.EntityRepo) *EntityService[T] {
	return &EntityService[T]{
		entity:  entity,
		allowed: entity.Schema.Allowed(),
		repo:    repo,
	}
}

func (es *EntityService[T]) Entity() models.Entity {
	return es.entity
}

func (es *EntityService[T]) Create(ctx context.Context, rec T) (string, error) {
	if err := models.Validate.Struct(rec); err != nil {
		return "", fmt.Errorf("%w: invalid %s data provided: %v", helpers.ErrValidation, strings.ToLower(es.entity.Name), err)
	}
	if err := helpers.CleanInput(rec.Fields()); err != nil {
		return "", err
	}

	id, err := es.repo.Insert(ctx, rec)
	if err != nil {
		return "", err
	}
	return helpers.EncodeObjectID(id), nil
}

func (es *EntityService[T]) List(ctx context.Context) ([]map[string]any, error) {
	docs, err := es.repo.List(ctx, models.ListLimit)
	if err != nil {
		return nil, err
	}
	return helpers.StringifyIDsMany(docs)
}

// Update applies a partial update. Fields outside the entity's allowlist are
// dropped silently; an update left with no fields is rejected.
func (es *EntityService[T]) Update(ctx context.Context, id string, body map[string]any) error {
	oid, err := helpers.ParseObjectID(id)
	if err != nil {
		return err
	}

	safe, err := helpers.SafeUpdateFields(body, es.allowed)
	if err != nil {
		return err
	}
	if len(safe) == 0 {
		return helpers.RejectedInput("", "no updatable fields provided")
	}

	fields, err := es.entity.Schema.Coerce(safe)
	if err != nil {
		return err
	}
	return es.repo.UpdateFields(ctx, oid, fields)
}

func (es *EntityService[T]) Delete(ctx context.Context, id string) error {
	oid, err := helpers.ParseObjectID(id)
	if err != nil {
		return err
	}
	return es.repo.Delete(ctx, oid)
}
