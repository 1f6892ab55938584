package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/leapstack-labs/leapdash/pkg/core"
)

// FakeAPI serves fixture users, posts and comments the way the public API
// does. It records how often each path was requested.
type FakeAPI struct {
	Server   *httptest.Server
	Users    []core.User
	Posts    []core.Post
	Comments []core.Comment

	mu       sync.Mutex
	hits     map[string]int
	failures map[string]int
	gate     chan struct{}
}

// NewFakeAPI starts a fake API with the default fixtures. The server is
// closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		Users:    SampleUsers(),
		Posts:    SamplePosts(),
		Comments: SampleComments(),
		hits:     make(map[string]int),
		failures: make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(f.record)
	r.Get("/users", func(w http.ResponseWriter, _ *http.Request) {
		f.writeJSON(w, f.Users)
	})
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		for _, u := range f.Users {
			if u.ID == id {
				f.writeJSON(w, u)
				return
			}
		}
		f.writeJSON(w, struct{}{}, http.StatusNotFound)
	})
	r.Get("/users/{id}/posts", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		out := []core.Post{}
		for _, p := range f.Posts {
			if p.UserID == id {
				out = append(out, p)
			}
		}
		f.writeJSON(w, out)
	})
	r.Get("/posts", func(w http.ResponseWriter, _ *http.Request) {
		f.writeJSON(w, f.Posts)
	})
	r.Get("/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		for _, p := range f.Posts {
			if p.ID == id {
				f.writeJSON(w, p)
				return
			}
		}
		f.writeJSON(w, struct{}{}, http.StatusNotFound)
	})
	r.Get("/posts/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		out := []core.Comment{}
		for _, c := range f.Comments {
			if c.PostID == id {
				out = append(out, c)
			}
		}
		f.writeJSON(w, out)
	})

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL of the fake.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// Hits returns how many requests reached path.
func (f *FakeAPI) Hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

// FailWith makes every request to path answer with the given status code.
func (f *FakeAPI) FailWith(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[path] = status
}

// Hold blocks every request until the returned release function is called.
func (f *FakeAPI) Hold() (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gate = gate
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			f.gate = nil
			f.mu.Unlock()
			close(gate)
		})
	}
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.URL.Path]++
		status, failing := f.failures[r.URL.Path]
		gate := f.gate
		f.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}
		if failing {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) writeJSON(w http.ResponseWriter, v any, status ...int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if len(status) > 0 {
		w.WriteHeader(status[0])
	}
	_ = json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	return id
}

// SampleUsers returns three users with full profiles.
func SampleUsers() []core.User {
	return []core.User{
		{
			ID: 1, Name: "Leanne Graham", Username: "Bret", Email: "Sincere@april.biz",
			Phone: "1-770-736-8031 x56442", Website: "hildegard.org",
			Address: core.Address{Street: "Kulas Light", Suite: "Apt. 556", City: "Gwenborough", Zipcode: "92998-3874"},
			Company: core.Company{Name: "Romaguera-Crona", CatchPhrase: "Multi-layered client-server neural-net", BS: "harness real-time e-markets"},
		},
		{
			ID: 2, Name: "Ervin Howell", Username: "Antonette", Email: "Shanna@melissa.tv",
			Phone: "010-692-6593 x09125", Website: "anastasia.net",
			Address: core.Address{Street: "Victor Plains", Suite: "Suite 879", City: "Wisokyburgh", Zipcode: "90566-7771"},
			Company: core.Company{Name: "Deckow-Crist", CatchPhrase: "Proactive didactic contingency", BS: "synergize scalable supply-chains"},
		},
		{
			ID: 3, Name: "Clementine Bauch", Username: "Samantha", Email: "Nathan@yesenia.net",
			Phone: "1-463-123-4447", Website: "ramiro.info",
			Address: core.Address{Street: "Douglas Extension", Suite: "Suite 847", City: "McKenziehaven", Zipcode: "59590-4157"},
			Company: core.Company{Name: "Romaguera-Jacobson", CatchPhrase: "Face to face bifurcated interface", BS: "e-enable strategic applications"},
		},
	}
}

// SamplePosts returns twelve posts: user 1 wrote posts 1-5, user 2 posts
// 6-10 and user 3 posts 11-12.
func SamplePosts() []core.Post {
	titles := []string{
		"sunt aut facere", "qui est esse", "ea molestias quasi", "eum et est occaecati",
		"nesciunt quas odio", "dolorem eum magni", "magnam facilis autem", "dolorem dolore est",
		"nesciunt iure omnis", "optio molestias id", "Et ea vero quia", "in quibusdam tempore",
	}
	posts := make([]core.Post, len(titles))
	for i, title := range titles {
		id := i + 1
		userID := 3
		switch {
		case id <= 5:
			userID = 1
		case id <= 10:
			userID = 2
		}
		posts[i] = core.Post{ID: id, UserID: userID, Title: title, Body: fmt.Sprintf("body of post %d", id)}
	}
	return posts
}

// SampleComments returns three comments on post 1 and one on post 2.
func SampleComments() []core.Comment {
	return []core.Comment{
		{ID: 1, PostID: 1, Name: "id labore ex et", Email: "Eliseo@gardner.biz", Body: "laudantium enim quasi"},
		{ID: 2, PostID: 1, Name: "quo vero reiciendis", Email: "Jayne_Kuhic@sydney.com", Body: "est natus enim nihil"},
		{ID: 3, PostID: 1, Name: "odio adipisci rerum", Email: "Nikita@garfield.biz", Body: "quia molestiae reprehenderit"},
		{ID: 4, PostID: 2, Name: "et fugit eligendi", Email: "Lew@alysha.tv", Body: "non et atque"},
	}
}
