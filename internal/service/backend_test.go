package service

import (
	"encoding/json"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/backend"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/domain"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/events"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/query"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// fakeBackend is an in-memory stand-in for the menu backend
type fakeBackend struct {
	mutex     sync.Mutex
	items     []domain.MenuItem
	failReads int
	failWrite bool
	reads     int
	writes    int
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		f.reads++
		if f.failReads > 0 {
			f.failReads--
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"unavailable"}`))
			return
		}
		json.NewEncoder(w).Encode(f.items)
	case http.MethodPost:
		f.writes++
		if f.failWrite {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"unavailable"}`))
			return
		}
		var item domain.NewItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.items = append(f.items, domain.MenuItem{
			ID:    f.nextID(),
			Title: item.Title,
			Price: item.Price,
			Image: item.Image,
		})
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeBackend) nextID() int64 {
	if len(f.items) == 0 {
		return 1
	}
	return f.items[len(f.items)-1].ID + 1
}

func (f *fakeBackend) counts() (int, int) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.reads, f.writes
}

type fixture struct {
	backend  *fakeBackend
	client   backend.Client
	cache    *query.Cache
	eventBus *events.EventBus[any]
}

func newFixture(t *testing.T, fb *fakeBackend) *fixture {
	t.Helper()
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	c, err := backend.NewClient(backend.Config{
		APIURL:       srv.URL,
		Retries:      2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
		Timeout:      5 * time.Second,
	}, hclog.NewNullLogger())
	require.NoError(t, err)

	cache := query.NewCache(hclog.NewNullLogger())
	t.Cleanup(func() { cache.Close() })

	return &fixture{
		backend:  fb,
		client:   c,
		cache:    cache,
		eventBus: events.NewEventBus[any](),
	}
}

func (f *fixture) menuData(t *testing.T) MenuData {
	t.Helper()
	md, err := NewMenuData(f.cache, f.client, f.eventBus, hclog.NewNullLogger())
	require.NoError(t, err)
	return md
}
