package notecache_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"standup/internal/api"
	"standup/internal/assist"
	"standup/internal/daemon"
	"standup/internal/logging"
	"standup/internal/notecache"
	"standup/internal/testsupport"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	d, err := daemon.New(cfg, store, assist.NewFromConfig(cfg, nil), logging.NewNop())
	require.NoError(t, err)
	srv := httptest.NewServer(d.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func newCache(t *testing.T, serverURL string) (*notecache.Cache, *notecache.Client) {
	t.Helper()
	client, err := notecache.NewClient(serverURL, "", 5*time.Second)
	require.NoError(t, err)
	return notecache.New(client, logging.NewNop()), client
}

func rawInput(text string) api.NoteInput {
	return api.NoteInput{RawText: api.Some(text)}
}

func TestSaveOverwritesWithServerRecord(t *testing.T) {
	srv := newServer(t)
	cache, _ := newCache(t, srv.URL)
	ctx := context.Background()

	saved, err := cache.Save(ctx, "2024-03-05T10:00:00Z", rawInput("first"))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", saved.Date)
	assert.NotEmpty(t, saved.ID)

	cached, ok := cache.Lookup("2024-03-05")
	require.True(t, ok)
	assert.Equal(t, saved.ID, cached.ID)
	assert.Equal(t, "first", cached.RawText)
	assert.NotNil(t, cached.ActionItems)
}

func TestFetchOneMissingLeavesCacheUntouched(t *testing.T) {
	srv := newServer(t)
	cache, _ := newCache(t, srv.URL)

	note, err := cache.FetchOne(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Nil(t, note)
	assert.Equal(t, 0, cache.Len())
}

func TestFetchMonthMergesWithoutEvicting(t *testing.T) {
	srv := newServer(t)
	cache, client := newCache(t, srv.URL)
	ctx := context.Background()

	for _, date := range []string{"2024-03-01", "2024-03-02"} {
		_, err := client.SaveNote(ctx, date, rawInput("note "+date))
		require.NoError(t, err)
	}
	_, err := cache.Save(ctx, "2024-03-03", rawInput("will be deleted elsewhere"))
	require.NoError(t, err)
	_, err = client.DeleteNote(ctx, "2024-03-03")
	require.NoError(t, err)

	list, err := cache.FetchMonth(ctx, 2024, time.March)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 3, cache.Len(), "stale entry stays until removed or invalidated")

	cache.Invalidate("2024-03-03")
	assert.Equal(t, 2, cache.Len())
}

func TestRemoveEvictsOnSuccess(t *testing.T) {
	srv := newServer(t)
	cache, _ := newCache(t, srv.URL)
	ctx := context.Background()

	_, err := cache.Save(ctx, "2024-03-05", rawInput("x"))
	require.NoError(t, err)
	require.NoError(t, cache.Remove(ctx, "2024-03-05"))
	_, ok := cache.Lookup("2024-03-05")
	assert.False(t, ok)

	require.NoError(t, cache.Remove(ctx, "2024-03-05"), "deleting a missing note succeeds")
}

func TestFailedRequestsKeepCachedEntries(t *testing.T) {
	var failing atomic.Bool
	upstream := newServer(t)
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"success":false,"error":"Failed to fetch note"}`))
			return
		}
		req, err := http.NewRequestWithContext(r.Context(), r.Method, upstream.URL+r.URL.RequestURI(), r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		req.Header = r.Header.Clone()
		resp, err := upstream.Client().Do(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()
		w.Header().Set("Content-Type", resp.Header.Get("Content-Type"))
		w.WriteHeader(resp.StatusCode)
		_, _ = io.Copy(w, resp.Body)
	}))
	t.Cleanup(proxy.Close)

	cache, _ := newCache(t, proxy.URL)
	ctx := context.Background()
	_, err := cache.Save(ctx, "2024-03-05", rawInput("kept"))
	require.NoError(t, err)

	failing.Store(true)
	note, err := cache.FetchOne(ctx, "2024-03-05")
	require.Error(t, err)
	assert.Nil(t, note)

	var apiErr *notecache.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Failed to fetch note", apiErr.Message)

	_, err = cache.FetchMonth(ctx, 2024, time.March)
	require.Error(t, err)
	require.Error(t, cache.Remove(ctx, "2024-03-05"))

	cached, ok := cache.Lookup("2024-03-05")
	require.True(t, ok)
	assert.Equal(t, "kept", cached.RawText)
}

func TestWatchersSeeSelectionAndEntryChanges(t *testing.T) {
	srv := newServer(t)
	cache, _ := newCache(t, srv.URL)
	ctx := context.Background()

	var views []notecache.View
	stop := cache.Watch(func(v notecache.View) { views = append(views, v) })

	require.NoError(t, cache.Select("2024-03-05"))
	require.Len(t, views, 1)
	assert.Equal(t, "2024-03-05", views[0].Date)
	assert.Nil(t, views[0].Note)

	require.NoError(t, cache.Select("2024-03-05T08:00:00Z"))
	assert.Len(t, views, 1, "reselecting the same day is not a change")

	_, err := cache.Save(ctx, "2024-03-05", rawInput("hello"))
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.NotNil(t, views[1].Note)
	assert.Equal(t, "hello", views[1].Note.RawText)

	current := cache.Current()
	require.NotNil(t, current.Note)
	assert.Equal(t, "hello", current.Note.RawText)

	stop()
	require.NoError(t, cache.Select("2024-03-06"))
	assert.Len(t, views, 2)
	assert.Nil(t, cache.Current().Note)
}

func TestCachedEntriesAreIsolatedFromCallers(t *testing.T) {
	srv := newServer(t)
	cache, _ := newCache(t, srv.URL)
	ctx := context.Background()
	require.NoError(t, cache.Select("2024-03-05"))

	cache.Watch(func(v notecache.View) {
		if v.Note == nil {
			return
		}
		v.Note.Yesterday[0] = "edited by watcher"
		v.Note.ActionItems[0].Completed = true
		*v.Note.TaskSummary = "edited by watcher"
	})

	in := rawInput("hello")
	in.Yesterday = api.Some(api.ListField{"fixed login"})
	in.ActionItems = api.Some(api.ActionItemList{{ID: "1", Text: "ship it"}})
	in.TaskSummary = api.Some("Fixed login")
	saved, err := cache.Save(ctx, "2024-03-05", in)
	require.NoError(t, err)
	saved.Today = append(saved.Today, "edited by caller")
	saved.Yesterday[0] = "edited by caller"

	looked, ok := cache.Lookup("2024-03-05")
	require.True(t, ok)
	looked.ActionItems[0].Text = "edited by lookup"

	cached, ok := cache.Lookup("2024-03-05")
	require.True(t, ok)
	assert.Equal(t, api.ListField{"fixed login"}, cached.Yesterday)
	assert.Empty(t, cached.Today)
	assert.Equal(t, api.ActionItem{ID: "1", Text: "ship it"}, cached.ActionItems[0])
	require.NotNil(t, cached.TaskSummary)
	assert.Equal(t, "Fixed login", *cached.TaskSummary)
}

func TestSelectRejectsInvalidDate(t *testing.T) {
	cache := notecache.New(nil, nil)
	before := cache.Selected()
	require.Error(t, cache.Select("yesterday-ish"))
	assert.Equal(t, before, cache.Selected())
}

func TestLoadDerivesEditorState(t *testing.T) {
	srv := newServer(t)
	cache, client := newCache(t, srv.URL)
	ctx := context.Background()

	_, err := client.SaveNote(ctx, "2024-03-05", api.NoteInput{
		RawText:         api.Some("did things"),
		Yesterday:       api.Some(api.ListField{"shipped"}),
		ProseSummary:    api.Some("Shipped."),
		TaskCategory:    api.Some("Development"),
		TaskDescription: api.Some("Deployment"),
	})
	require.NoError(t, err)

	require.NoError(t, cache.Select("2024-03-05"))
	state, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "did things", state.RawText)
	require.NotNil(t, state.Processed)
	assert.Equal(t, []string{"shipped"}, state.Processed.Yesterday)
	assert.Empty(t, state.Processed.Today)
	assert.Equal(t, "Shipped.", state.Processed.ProseSummary)
	require.NotNil(t, state.Classification)
	assert.Equal(t, "Work completed for the day", state.Classification.TaskSummary)

	require.NoError(t, cache.Select("2024-03-06"))
	state, err = cache.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, notecache.EditorState{Date: "2024-03-06"}, state)
}

func TestAssistCallsPassThrough(t *testing.T) {
	srv := newServer(t)
	cache, client := newCache(t, srv.URL)
	ctx := context.Background()

	processed, err := cache.Process(ctx, "Today\n- write tests")
	require.NoError(t, err)
	assert.Equal(t, []string{"write tests"}, processed.Today)

	classification, err := cache.Classify(ctx, api.ClassifyRequest{RawText: "misc"})
	require.NoError(t, err)
	assert.Equal(t, "Other", classification.TaskCategory)

	_, err = cache.Transcribe(ctx, []byte("audio"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OpenAI API key is not configured")

	_, err = client.SaveNote(ctx, "2024-03-05", api.NoteInput{RawText: api.Some("x"), TaskCategory: api.Some("Testing")})
	require.NoError(t, err)
	body, err := cache.ExportCSV(ctx, 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, "Date,Task Category,Task Description,Task Summary\n2024-03-05,Testing,,", string(body))
}

func TestNilClientReportsUnavailable(t *testing.T) {
	client, err := notecache.NewClient("", "", 0)
	require.NoError(t, err)
	require.Nil(t, client)

	_, err = client.GetNote(context.Background(), "2024-03-05")
	assert.True(t, notecache.IsAPIUnavailable(err))
}

func TestClientSendsBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true,"data":null}`))
	}))
	t.Cleanup(srv.Close)

	client, err := notecache.NewClient(srv.URL, "secret", time.Second)
	require.NoError(t, err)
	note, err := client.GetNote(context.Background(), "2024-03-05")
	require.NoError(t, err)
	assert.Nil(t, note)
	assert.Equal(t, "Bearer secret", got)
}

func TestClientDecodesLegacyActionItemString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"a","date":"2024-03-05","rawText":"x","yesterday":"- a\n- b","actionItems":"[{\"id\":1,\"text\":\"call\",\"completed\":true}]"}}`))
	}))
	t.Cleanup(srv.Close)

	cache, _ := newCache(t, srv.URL)
	note, err := cache.FetchOne(context.Background(), "2024-03-05")
	require.NoError(t, err)
	require.NotNil(t, note)
	require.Len(t, note.ActionItems, 1)
	assert.Equal(t, api.ActionItem{ID: "1", Text: "call", Completed: true}, note.ActionItems[0])
	assert.Equal(t, api.ListField{"a", "b"}, note.Yesterday)
}
