package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"

	"music_backend/internal/feature/catalog/domain/entity"
)

// mockCatalogRepository はテスト用のCatalogRepositoryモック実装です。
type mockCatalogRepository struct {
	listTracksFn  func(ctx context.Context) ([]entity.TrackListing, error)
	createTrackFn func(ctx context.Context, t *entity.Track) error
	listCalls     int
}

func (m *mockCatalogRepository) ListTracks(ctx context.Context) ([]entity.TrackListing, error) {
	m.listCalls++
	if m.listTracksFn != nil {
		return m.listTracksFn(ctx)
	}
	return nil, nil
}

func (m *mockCatalogRepository) CreateTrack(ctx context.Context, t *entity.Track) error {
	if m.createTrackFn != nil {
		return m.createTrackFn(ctx, t)
	}
	return nil
}

func (m *mockCatalogRepository) UpsertArtist(_ context.Context, name string) (*entity.Artist, error) {
	return &entity.Artist{ID: 1, Name: name}, nil
}

func (m *mockCatalogRepository) UpsertAlbum(_ context.Context, title string, artistID uint) (*entity.Album, error) {
	return &entity.Album{ID: 2, Title: title, ArtistID: artistID}, nil
}

func (m *mockCatalogRepository) FindTrackByID(_ context.Context, id uint) (*entity.Track, error) {
	return &entity.Track{ID: id}, nil
}

func (m *mockCatalogRepository) ListFileKeys(context.Context) ([]string, error) {
	return []string{"k1"}, nil
}

var sampleTracks = []entity.TrackListing{
	{ID: 1, Title: "Around the World", FileURL: "k1", Artist: "Daft Punk", Album: "Homework"},
}

// TestNewCachingCatalogRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingCatalogRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", 5 * time.Minute, "tracks"},
		{"negative ttl uses default", -1 * time.Minute, "", 5 * time.Minute, "tracks"},
		{"custom values preserved", 10 * time.Minute, "custom", 10 * time.Minute, "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingCatalogRepository(nil, tt.ttl, &mockCatalogRepository{}, tt.namespace)

			if repo.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, repo.ttl)
			}
			if repo.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, repo.namespace)
			}
		})
	}
}

// TestCachingCatalogRepository_ListTracks_NilRedis はRedisがnilの場合にキャッシュをバイパスすることを検証します。
func TestCachingCatalogRepository_ListTracks_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockCatalogRepository{
		listTracksFn: func(context.Context) ([]entity.TrackListing, error) { return sampleTracks, nil },
	}
	repo := NewCachingCatalogRepository(nil, 0, inner, "")

	for i := 0; i < 2; i++ {
		tracks, err := repo.ListTracks(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tracks) != 1 {
			t.Errorf("expected 1 track, got %d", len(tracks))
		}
	}
	if inner.listCalls != 2 {
		t.Errorf("expected 2 inner calls, got %d", inner.listCalls)
	}
}

// TestCachingCatalogRepository_ListTracks_CacheHit はキャッシュヒット時に内部リポジトリを呼ばないことを検証します。
func TestCachingCatalogRepository_ListTracks_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached, _ := json.Marshal(sampleTracks)
	mock.ExpectGet("tracks:gen").SetVal("3")
	mock.ExpectGet("tracks:all:3").SetVal(string(cached))

	inner := &mockCatalogRepository{}
	repo := NewCachingCatalogRepository(rdb, 5*time.Minute, inner, "tracks")

	tracks, err := repo.ListTracks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.listCalls != 0 {
		t.Error("inner repository should not be called on cache hit")
	}
	if len(tracks) != 1 || tracks[0].Artist != "Daft Punk" {
		t.Errorf("unexpected tracks: %+v", tracks)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingCatalogRepository_ListTracks_CacheMiss はキャッシュミス時にDBから取得して保存することを検証します。
func TestCachingCatalogRepository_ListTracks_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, _ := json.Marshal(sampleTracks)
	mock.ExpectGet("tracks:gen").RedisNil()
	mock.ExpectGet("tracks:all:0").RedisNil()
	mock.ExpectSet("tracks:all:0", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockCatalogRepository{
		listTracksFn: func(context.Context) ([]entity.TrackListing, error) { return sampleTracks, nil },
	}
	repo := NewCachingCatalogRepository(rdb, 5*time.Minute, inner, "tracks")

	tracks, err := repo.ListTracks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 1 {
		t.Errorf("expected 1 track, got %d", len(tracks))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingCatalogRepository_ListTracks_RedisDown はRedis障害時もDBの結果を返すことを検証します。
func TestCachingCatalogRepository_ListTracks_RedisDown(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("tracks:gen").SetErr(errors.New("connection refused"))

	inner := &mockCatalogRepository{
		listTracksFn: func(context.Context) ([]entity.TrackListing, error) { return sampleTracks, nil },
	}
	repo := NewCachingCatalogRepository(rdb, 5*time.Minute, inner, "tracks")

	tracks, err := repo.ListTracks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 1 {
		t.Errorf("expected 1 track, got %d", len(tracks))
	}
	// 世代が読めない場合は一覧キーに触れない
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingCatalogRepository_ListTracks_InnerError は内部リポジトリのエラーが伝播され、キャッシュされないことを検証します。
func TestCachingCatalogRepository_ListTracks_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("database error")
	mock.ExpectGet("tracks:gen").RedisNil()
	mock.ExpectGet("tracks:all:0").RedisNil()

	inner := &mockCatalogRepository{
		listTracksFn: func(context.Context) ([]entity.TrackListing, error) { return nil, expectedErr },
	}
	repo := NewCachingCatalogRepository(rdb, 5*time.Minute, inner, "tracks")

	_, err := repo.ListTracks(context.Background())
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingCatalogRepository_ListTracks_CorruptedCache は破損したキャッシュを削除してDBにフォールバックすることを検証します。
func TestCachingCatalogRepository_ListTracks_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, _ := json.Marshal(sampleTracks)
	mock.ExpectGet("tracks:gen").SetVal("1")
	mock.ExpectGet("tracks:all:1").SetVal("invalid json")
	mock.ExpectDel("tracks:all:1").SetVal(1)
	mock.ExpectSet("tracks:all:1", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockCatalogRepository{
		listTracksFn: func(context.Context) ([]entity.TrackListing, error) { return sampleTracks, nil },
	}
	repo := NewCachingCatalogRepository(rdb, 5*time.Minute, inner, "tracks")

	if _, err := repo.ListTracks(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingCatalogRepository_CreateTrack_Invalidates はトラック作成後に一覧の世代が進むことを検証します。
func TestCachingCatalogRepository_CreateTrack_Invalidates(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectIncr("tracks:gen").SetVal(1)

	repo := NewCachingCatalogRepository(rdb, 5*time.Minute, &mockCatalogRepository{}, "tracks")
	if err := repo.CreateTrack(context.Background(), &entity.Track{Title: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingCatalogRepository_CreateTrack_InvalidationFailure は削除失敗が書き込みを失敗させないことを検証します。
func TestCachingCatalogRepository_CreateTrack_InvalidationFailure(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectIncr("tracks:gen").SetErr(errors.New("connection refused"))

	repo := NewCachingCatalogRepository(rdb, 5*time.Minute, &mockCatalogRepository{}, "tracks")
	if err := repo.CreateTrack(context.Background(), &entity.Track{Title: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestCachingCatalogRepository_CreateTrack_InnerError は書き込み失敗時にキャッシュへ触れないことを検証します。
func TestCachingCatalogRepository_CreateTrack_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("insert error")
	inner := &mockCatalogRepository{
		createTrackFn: func(context.Context, *entity.Track) error { return expectedErr },
	}
	repo := NewCachingCatalogRepository(rdb, 5*time.Minute, inner, "tracks")

	if err := repo.CreateTrack(context.Background(), &entity.Track{}); !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingCatalogRepository_StaleFillAfterUpload は、アップロード前に読んだ一覧が
// アップロード後に書き戻されても、次の一覧取得で新しいトラックが見えることを検証します。
func TestCachingCatalogRepository_StaleFillAfterUpload(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	var repo *CachingCatalogRepository
	first := true
	inner := &mockCatalogRepository{}
	inner.listTracksFn = func(ctx context.Context) ([]entity.TrackListing, error) {
		if first {
			first = false
			// 一覧を読んだ直後、保存する前にアップロードが確定する
			if err := repo.CreateTrack(ctx, &entity.Track{Title: "Around the World"}); err != nil {
				return nil, err
			}
			return []entity.TrackListing{}, nil
		}
		return sampleTracks, nil
	}
	repo = NewCachingCatalogRepository(rdb, time.Minute, inner, "tracks")
	ctx := context.Background()

	stale, err := repo.ListTracks(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stale) != 0 {
		t.Fatalf("expected the snapshot taken before the upload, got %+v", stale)
	}

	for i := 0; i < 2; i++ {
		tracks, err := repo.ListTracks(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tracks) != 1 {
			t.Errorf("call %d: expected the uploaded track, got %+v", i+1, tracks)
		}
	}
	// 2回目は DB、3回目は新しい世代のキャッシュ
	if inner.listCalls != 2 {
		t.Errorf("expected 2 inner calls, got %d", inner.listCalls)
	}
}

// TestCachingCatalogRepository_PassThrough は一覧以外の読み書きがそのまま委譲されることを検証します。
func TestCachingCatalogRepository_PassThrough(t *testing.T) {
	t.Parallel()

	repo := NewCachingCatalogRepository(nil, 0, &mockCatalogRepository{}, "")
	ctx := context.Background()

	if a, err := repo.UpsertArtist(ctx, "Air"); err != nil || a.Name != "Air" {
		t.Errorf("UpsertArtist = %+v, %v", a, err)
	}
	if al, err := repo.UpsertAlbum(ctx, "Moon Safari", 1); err != nil || al.ArtistID != 1 {
		t.Errorf("UpsertAlbum = %+v, %v", al, err)
	}
	if tr, err := repo.FindTrackByID(ctx, 7); err != nil || tr.ID != 7 {
		t.Errorf("FindTrackByID = %+v, %v", tr, err)
	}
	if keys, err := repo.ListFileKeys(ctx); err != nil || len(keys) != 1 {
		t.Errorf("ListFileKeys = %v, %v", keys, err)
	}
}

// TestSafe はsafe関数がRedisキーで問題となる文字を正しくエスケープすることを検証します。
func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"tracks", "tracks"},
		{"my tracks", "my_tracks"},
		{"key:value", "key_value"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := safe(tt.input); got != tt.expected {
				t.Errorf("safe(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
