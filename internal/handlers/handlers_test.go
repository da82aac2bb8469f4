package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventhub/internal/helpers"
	"github.com/joshua-takyi/eventhub/internal/middleware"
	"github.com/joshua-takyi/eventhub/internal/models"
	"github.com/joshua-takyi/eventhub/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testServer struct {
	router   *gin.Engine
	events   *memStore
	venues   *memStore
	bookings *memStore
	media    *memMedia
}

func setupTestServer(maxUpload int64) *testServer {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ts := &testServer{
		events:   newMemStore(models.EventEntity),
		venues:   newMemStore(models.VenueEntity),
		bookings: newMemStore(models.BookingEntity),
		media:    newMemMedia(),
	}
	eventSvc := services.NewEntityService[models.Event](models.EventEntity, ts.events)
	venueSvc := services.NewEntityService[models.Venue](models.VenueEntity, ts.venues)
	bookingSvc := services.NewEntityService[models.Booking](models.BookingEntity, ts.bookings)
	mediaSvc := services.NewMediaService(ts.media, logger)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler(logger))

	r.POST("/events", CreateEntity(eventSvc))
	r.GET("/events", ListEntities(eventSvc))
	r.PUT("/events/:id", UpdateEntity(eventSvc))
	r.DELETE("/events/:id", DeleteEntity(eventSvc))
	r.POST("/venues", CreateEntity(venueSvc))
	r.POST("/bookings", CreateEntity(bookingSvc))
	r.DELETE("/bookings/:id", DeleteEntity(bookingSvc))

	r.POST("/upload_event_poster/:event_id", UploadMedia(mediaSvc, models.EventPosterKind, maxUpload))
	r.GET("/download_event_poster/:id", DownloadMedia(mediaSvc, models.EventPosterKind))
	r.GET("/download_promo_video/:id", DownloadMedia(mediaSvc, models.PromoVideoKind))
	r.POST("/upload_venue_photo/:venue_id", UploadMedia(mediaSvc, models.VenuePhotoKind, maxUpload))

	ts.router = r
	return ts
}

func (ts *testServer) do(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) doJSON(method, path, body string) *httptest.ResponseRecorder {
	return ts.do(method, path, strings.NewReader(body), "application/json")
}

func multipartBody(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

const eventJSON = `{"name":"Jazz Night","description":"Live quartet","date":"2025-10-01","venue_id":"v1","max_attendees":80}`

func TestCreateThenListEvents(t *testing.T) {
	ts := setupTestServer(1 << 20)

	w := ts.doJSON(http.MethodPost, "/events", eventJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created helpers.CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Event created", created.Message)
	assert.Len(t, created.ID, 24)

	w = ts.doJSON(http.MethodGet, "/events", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0]["_id"])
	assert.Equal(t, "Jazz Night", list[0]["name"])
	assert.EqualValues(t, 80, list[0]["max_attendees"])
}

func TestCreate_MissingIntegerField(t *testing.T) {
	ts := setupTestServer(1 << 20)

	cases := []struct {
		path  string
		body  string
		store *memStore
	}{
		{"/events", `{"name":"a","description":"b","date":"c","venue_id":"d"}`, ts.events},
		{"/venues", `{"name":"Hall","address":"1 Main St"}`, ts.venues},
		{"/bookings", `{"event_id":"e1","attendee_id":"a1","ticket_type":"VIP"}`, ts.bookings},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := ts.doJSON(http.MethodPost, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Zero(t, tc.store.writes)
		})
	}

	w := ts.doJSON(http.MethodPost, "/venues", `{"name":"Hall","address":"1 Main St","capacity":0}`)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = ts.doJSON(http.MethodPost, "/bookings", `{"event_id":"e1","attendee_id":"a1","ticket_type":"VIP","quantity":2}`)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestListEvents_EmptyIsArray(t *testing.T) {
	ts := setupTestServer(1 << 20)

	w := ts.doJSON(http.MethodGet, "/events", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateEvent_BadRequests(t *testing.T) {
	ts := setupTestServer(1 << 20)

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name":`},
		{"missing fields", `{"name":"Jazz Night"}`},
		{"operator in value", `{"name":"$where","description":"d","date":"2025-10-01","venue_id":"v1","max_attendees":1}`},
		{"nested object", `{"name":{"$ne":""},"description":"d","date":"2025-10-01","venue_id":"v1","max_attendees":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.doJSON(http.MethodPost, "/events", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
	assert.Zero(t, ts.events.writes)
}

func TestUpdateEvent(t *testing.T) {
	ts := setupTestServer(1 << 20)
	w := ts.doJSON(http.MethodPost, "/events", eventJSON)
	var created helpers.CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = ts.doJSON(http.MethodPut, "/events/"+created.ID, `{"name":"Late Jazz","_id":"x","max_attendees":90}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Event updated"}`, w.Body.String())

	oid, err := primitive.ObjectIDFromHex(created.ID)
	require.NoError(t, err)
	doc := ts.events.docs[oid]
	assert.Equal(t, "Late Jazz", doc["name"])
	assert.Equal(t, 90, doc["max_attendees"])
	assert.Equal(t, oid, doc["_id"])
}

func TestUpdateEvent_OperatorInjectionRejected(t *testing.T) {
	ts := setupTestServer(1 << 20)
	w := ts.doJSON(http.MethodPost, "/events", eventJSON)
	var created helpers.CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	writes := ts.events.writes

	w = ts.doJSON(http.MethodPut, "/events/"+created.ID, `{"name":{"$ne":""}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "nested objects are not allowed")

	w = ts.doJSON(http.MethodPut, "/events/"+created.ID, `{"description":"$gt"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid characters in input")

	assert.Equal(t, writes, ts.events.writes)
}

func TestUpdateEvent_Errors(t *testing.T) {
	ts := setupTestServer(1 << 20)

	w := ts.doJSON(http.MethodPut, "/events/not-an-id", `{"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid ID: not-an-id")

	w = ts.doJSON(http.MethodDelete, "/events/%22"+primitive.NewObjectID().Hex()+"%22", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid ID")

	w = ts.doJSON(http.MethodPut, "/events/%20"+primitive.NewObjectID().Hex(), `{"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.doJSON(http.MethodPut, "/events/"+primitive.NewObjectID().Hex(), `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Event not found")

	w = ts.doJSON(http.MethodPut, "/events/"+primitive.NewObjectID().Hex(), `["name"]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteBooking_Absent(t *testing.T) {
	ts := setupTestServer(1 << 20)

	w := ts.doJSON(http.MethodDelete, "/bookings/"+primitive.NewObjectID().Hex(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body helpers.ApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Booking not found", body.Error)
}

func TestDeleteEvent(t *testing.T) {
	ts := setupTestServer(1 << 20)
	w := ts.doJSON(http.MethodPost, "/events", eventJSON)
	var created helpers.CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = ts.doJSON(http.MethodDelete, "/events/"+created.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Event deleted"}`, w.Body.String())

	w = ts.doJSON(http.MethodGet, "/events", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestStoreFailure_Returns500(t *testing.T) {
	ts := setupTestServer(1 << 20)
	ts.events.err = errors.New("connection pool cleared")

	w := ts.doJSON(http.MethodGet, "/events", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection pool cleared")
	assert.Contains(t, w.Body.String(), "request_id")
}

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestUploadThenDownloadPoster(t *testing.T) {
	ts := setupTestServer(1 << 20)

	body, ct := multipartBody(t, "poster final.png", "image/png", pngBytes)
	w := ts.do(http.MethodPost, "/upload_event_poster/evt-1", body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created helpers.CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Event poster uploaded", created.Message)

	w = ts.do(http.MethodGet, "/download_event_poster/"+created.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pngBytes, w.Body.Bytes())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=poster final.png", w.Header().Get("Content-Disposition"))
}

func TestDownload_CategoryMismatch(t *testing.T) {
	ts := setupTestServer(1 << 20)

	body, ct := multipartBody(t, "poster.png", "image/png", pngBytes)
	w := ts.do(http.MethodPost, "/upload_event_poster/evt-1", body, ct)
	require.Equal(t, http.StatusCreated, w.Code)
	var created helpers.CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = ts.do(http.MethodGet, "/download_promo_video/"+created.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Video not found")

	w = ts.do(http.MethodGet, "/download_event_poster/zzz", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadVenuePhoto_SniffsType(t *testing.T) {
	ts := setupTestServer(1 << 20)

	body, ct := multipartBody(t, "hall", "", pngBytes)
	w := ts.do(http.MethodPost, "/upload_venue_photo/ven-3", body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Venue photo uploaded")

	require.Len(t, ts.media.files, 1)
	for _, f := range ts.media.files {
		assert.Equal(t, "ven-3", f.VenueID)
		assert.Equal(t, "image/png", f.ContentType)
		assert.Equal(t, models.VenuePhoto, f.MediaType)
	}
}

func TestUpload_Rejections(t *testing.T) {
	ts := setupTestServer(8)

	w := ts.do(http.MethodPost, "/upload_event_poster/evt-1", strings.NewReader(""), "multipart/form-data; boundary=x")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file is required")

	body, ct := multipartBody(t, "poster.png", "image/png", pngBytes)
	w = ts.do(http.MethodPost, "/upload_event_poster/evt-1", body, ct)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	body, ct = multipartBody(t, "p.png", "image/png", []byte("tiny"))
	w = ts.do(http.MethodPost, "/upload_event_poster/$ne", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, ts.media.files)
}
