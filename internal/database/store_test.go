package database

import (
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shubh-37/social-strategist/internal/models"
	"github.com/shubh-37/social-strategist/internal/session"
)

var _ session.Store = (*Store)(nil)

func TestPostColumnsMatchPlaceholders(t *testing.T) {
	cols := 0
	for _, c := range postColumns {
		if c == ',' {
			cols++
		}
	}
	assert.Equal(t, 11, cols+1)
}

// fakeRow scans fixed values into pgx destinations; a nil value leaves the
// destination at its zero value, as pgx does for NULL into a pointer.
type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return errors.New("column count mismatch")
	}
	for i, v := range r.vals {
		if v == nil {
			continue
		}
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

func TestScanPostFillsNullableColumns(t *testing.T) {
	at := time.Date(2025, time.November, 12, 0, 0, 0, 0, time.UTC)
	post, err := scanPost(fakeRow{vals: []any{
		"p1", "linkedin", "Hello", nil, "why", "a photo",
		nil, "high", "9:00 AM", "scheduled", at,
	}})
	require.NoError(t, err)

	assert.Equal(t, models.PlatformLinkedIn, post.Platform)
	assert.Equal(t, models.StatusScheduled, post.Status)
	assert.Equal(t, "", post.ImageURL)
	assert.NotNil(t, post.Hashtags)
	assert.Empty(t, post.Hashtags)
	assert.Equal(t, at, post.CreatedAt)

	url := "https://cdn.example.com/p1.png"
	post, err = scanPost(fakeRow{vals: []any{
		"p1", "instagram", "Hi", []string{"#a"}, "", "",
		&url, "", "", "draft", at,
	}})
	require.NoError(t, err)
	assert.Equal(t, url, post.ImageURL)
	assert.Equal(t, []string{"#a"}, post.Hashtags)

	_, err = scanPost(fakeRow{err: errors.New("no rows")})
	assert.Error(t, err)
}

func TestUpsertQueryPositionsByPlacement(t *testing.T) {
	assert.Contains(t, upsertPostQuery(session.PlaceFront), "MIN(position), 0) - 1")
	assert.Contains(t, upsertPostQuery(session.PlaceBack), "MAX(position), 0) + 1")

	conflict := upsertPostQuery(session.PlaceBack)
	conflict = conflict[strings.Index(conflict, "ON CONFLICT"):]
	assert.NotContains(t, conflict, "position", "an update keeps the stored position")
}

func TestQueueOrder(t *testing.T) {
	a, b, c := &models.GeneratedPost{ID: "a"}, &models.GeneratedPost{ID: "b"}, &models.GeneratedPost{ID: "c"}
	posts := []*models.GeneratedPost{a, b, c}

	assert.Equal(t, posts, queueOrder(session.PlaceBack, posts))
	assert.Equal(t, []*models.GeneratedPost{c, b, a}, queueOrder(session.PlaceFront, posts))
	assert.Equal(t, []*models.GeneratedPost{a, b, c}, posts)
}

// newTestStore connects to TEST_DATABASE_URL and empties the tables. Tests
// that need it are skipped when the variable is unset.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := NewDB(ctx, url, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.CreateTables(ctx))
	_, err = db.Pool.Exec(ctx, `TRUNCATE personas, posts, chat_messages`)
	require.NoError(t, err)

	return NewStore(db)
}

func TestStorePersonaUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	persona, err := s.personas.GetLatest(ctx)
	require.NoError(t, err)
	assert.Nil(t, persona)

	p := &models.Persona{BrandName: "Acme", Industry: "Coffee", ContentPillars: []string{"beans"}}
	require.NoError(t, s.SavePersona(ctx, p))
	require.NotEmpty(t, p.ID)

	p.BrandName = "Acme Roasters"
	p.BrandVoiceGuide = &models.BrandVoiceGuide{Tone: "warm", Dos: []string{"short"}}
	require.NoError(t, s.SavePersona(ctx, p))

	var count int
	require.NoError(t, s.personas.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM personas`).Scan(&count))
	assert.Equal(t, 1, count)

	got, err := s.personas.GetLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "Acme Roasters", got.BrandName)
	require.NotNil(t, got.BrandVoiceGuide)
	assert.Equal(t, "warm", got.BrandVoiceGuide.Tone)
}

func TestStoreLoadKeepsChatAndPostOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, time.November, 10, 9, 0, 0, 0, time.UTC)

	first := models.NewChatMessage(models.RoleUser, "first", now)
	second := models.NewChatMessage(models.RoleModel, "second", now.Add(-time.Hour))
	require.NoError(t, s.SaveChatMessages(ctx, first, second))
	third := models.NewChatMessage(models.RoleUser, "third", now.Add(-2*time.Hour))
	require.NoError(t, s.SaveChatMessages(ctx, third))

	post := func(day int) *models.GeneratedPost {
		p := models.NewDraft(models.PlatformLinkedIn, now.AddDate(0, 0, day))
		p.Content = "post"
		return p
	}
	merged1, merged2 := post(5), post(1)
	require.NoError(t, s.SavePosts(ctx, session.PlaceBack, merged1, merged2))
	generated := post(9)
	require.NoError(t, s.SavePosts(ctx, session.PlaceFront, generated))
	merged3 := post(3)
	require.NoError(t, s.SavePosts(ctx, session.PlaceBack, merged3))

	generated.Content = "edited"
	require.NoError(t, s.SavePosts(ctx, session.PlaceBack, generated))

	snap, err := s.Load(ctx)
	require.NoError(t, err)

	var texts []string
	for _, m := range snap.Chat {
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{"first", "second", "third"}, texts)

	var ids []string
	for _, p := range snap.Posts {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{generated.ID, merged1.ID, merged2.ID, merged3.ID}, ids)
	assert.Equal(t, "edited", snap.Posts[0].Content)
}
