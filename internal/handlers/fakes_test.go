package handlers

import (
	"context"
	"sync"

	"github.com/joshua-takyi/eventhub/internal/helpers"
	"github.com/joshua-takyi/eventhub/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory stand-in for the Mongo collections.
type memStore struct {
	mu     sync.Mutex
	entity models.Entity
	docs   map[primitive.ObjectID]bson.M
	order  []primitive.ObjectID
	writes int
	err    error
}

func newMemStore(entity models.Entity) *memStore {
	return &memStore{entity: entity, docs: map[primitive.ObjectID]bson.M{}}
}

func (m *memStore) Insert(_ context.Context, rec models.Record) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return primitive.NilObjectID, m.err
	}
	id := primitive.NewObjectID()
	doc := bson.M{"_id": id}
	for k, v := range rec.Fields() {
		doc[k] = v
	}
	m.docs[id] = doc
	m.order = append(m.order, id)
	m.writes++
	return id, nil
}

func (m *memStore) List(_ context.Context, limit int64) ([]bson.Raw, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]bson.Raw, 0)
	for _, id := range m.order {
		doc, ok := m.docs[id]
		if !ok {
			continue
		}
		if int64(len(out)) == limit {
			break
		}
		raw, err := bson.Marshal(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func (m *memStore) UpdateFields(_ context.Context, id primitive.ObjectID, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	doc, ok := m.docs[id]
	if !ok {
		return helpers.NotFound(m.entity.Name)
	}
	for k, v := range fields {
		doc[k] = v
	}
	m.writes++
	return nil
}

func (m *memStore) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.docs[id]; !ok {
		return helpers.NotFound(m.entity.Name)
	}
	delete(m.docs, id)
	m.writes++
	return nil
}

type memMedia struct {
	mu    sync.Mutex
	files map[primitive.ObjectID]*models.MediaFile
}

func newMemMedia() *memMedia {
	return &memMedia{files: map[primitive.ObjectID]*models.MediaFile{}}
}

func (m *memMedia) InsertMedia(_ context.Context, file *models.MediaFile) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := file.BeforeCreate(); err != nil {
		return primitive.NilObjectID, err
	}
	m.files[file.ID] = file
	return file.ID, nil
}

func (m *memMedia) FindMedia(_ context.Context, id primitive.ObjectID, category models.MediaCategory) (*models.MediaFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	file, ok := m.files[id]
	if !ok || file.MediaType != category {
		return nil, nil
	}
	return file, nil
}
