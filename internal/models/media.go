package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const MediaColName = "multimedia_files"

type MediaCategory string

const (
	EventPoster MediaCategory = "event_poster"
	PromoVideo  MediaCategory = "promo_video"
	VenuePhoto  MediaCategory = "venue_photo"
)

// MediaKind carries everything that differs between the three attachment
// categories: the tag stored in media_type, the field that holds the owner id
// and the words used in responses.
type MediaKind struct {
	Category   MediaCategory
	OwnerField string
	Label      string // "Event poster"
	Noun       string // "Poster"
}

var (
	EventPosterKind = MediaKind{Category: EventPoster, OwnerField: "event_id", Label: "Event poster", Noun: "Poster"}
	PromoVideoKind  = MediaKind{Category: PromoVideo, OwnerField: "event_id", Label: "Promotional video", Noun: "Video"}
	VenuePhotoKind  = MediaKind{Category: VenuePhoto, OwnerField: "venue_id", Label: "Venue photo", Noun: "Photo"}
)

type MediaFile struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID     string             `bson:"event_id,omitempty" json:"event_id,omitempty"`
	VenueID     string             `bson:"venue_id,omitempty" json:"venue_id,omitempty"`
	Filename    string             `bson:"filename" json:"filename"`
	ContentType string             `bson:"content_type" json:"content_type"`
	Content     []byte             `bson:"content" json:"-"`
	MediaType   MediaCategory      `bson:"media_type" json:"media_type"`
	UploadedAt  time.Time          `bson:"uploaded_at" json:"uploaded_at"`
}

// NewMediaFile tags an uploaded payload with its owner and category.
func NewMediaFile(kind MediaKind, ownerID, filename, contentType string, content []byte, now time.Time) *MediaFile {
	m := &MediaFile{
		Filename:    filename,
		ContentType: contentType,
		Content:     content,
		MediaType:   kind.Category,
		UploadedAt:  now.UTC(),
	}
	if kind.OwnerField == "venue_id" {
		m.VenueID = ownerID
	} else {
		m.EventID = ownerID
	}
	return m
}

func (m *MediaFile) BeforeCreate() error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	return nil
}

func (m *MediaFile) OwnerID() string {
	if m.VenueID != "" {
		return m.VenueID
	}
	return m.EventID
}

func (m *MediaFile) Fields() map[string]any {
	f := map[string]any{
		"filename":     m.Filename,
		"content_type": m.ContentType,
		"content":      m.Content,
		"media_type":   string(m.MediaType),
		"uploaded_at":  m.UploadedAt,
	}
	if m.VenueID != "" {
		f["venue_id"] = m.VenueID
	} else {
		f["event_id"] = m.EventID
	}
	return f
}

type MediaRepo interface {
	InsertMedia(ctx context.Context, file *MediaFile) (primitive.ObjectID, error)
	FindMedia(ctx context.Context, id primitive.ObjectID, category MediaCategory) (*MediaFile, error)
}

func (mdb *MongodbRepo) InsertMedia(ctx context.Context, file *MediaFile) (primitive.ObjectID, error) {
	if err := file.BeforeCreate(); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to prepare media file for creation: %w", err)
	}
	col, err := mdb.GetCollection(MediaColName)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("error getting collection: %w", err)
	}

	if _, err := col.InsertOne(ctx, file); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert media file into database: %w", err)
	}
	return file.ID, nil
}

// FindMedia only matches a file stored under the requested category, so an id
// belonging to another category reads as absent.
func (mdb *MongodbRepo) FindMedia(ctx context.Context, id primitive.ObjectID, category MediaCategory) (*MediaFile, error) {
	col, err := mdb.GetCollection(MediaColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	var file MediaFile
	err = col.FindOne(ctx, bson.M{"_id": id, "media_type": category}).Decode(&file)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding media file: %w", err)
	}
	return &file, nil
}
