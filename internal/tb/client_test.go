package tb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/data/environment", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data_location": "/tmp/logs", "tensorboard_version": "2.16.2"}`))
	})
	mux.HandleFunc("/data/logdir", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"logdir": "/tmp/logs"}`))
	})
	mux.HandleFunc("/data/runs", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["train", "eval"]`))
	})
	mux.HandleFunc("/data/plugins_listing", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"scalars": "/data/plugin/scalars", "images": "/data/plugin/images"}`))
	})
	mux.HandleFunc("/data/plugin/scalars/tags", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("run") == "" {
			http.Error(w, "run is required", http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"loss": {"displayName": "loss", "description": ""}}`))
	})
	mux.HandleFunc("/data/plugin/scalars/scalars", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[1700000000.5, 0, 2.5], [1700000001.5, 1, 1.25]]`))
	})
	mux.HandleFunc("/data/plugin/text/text", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"wall_time": 1700000000.5, "step": 3, "text": "hello"}]`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientRuns(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, 0)
	defer c.Close()

	runs, err := c.Runs(context.Background())
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 || runs[0] != "train" || runs[1] != "eval" {
		t.Errorf("Runs = %v, want [train eval]", runs)
	}
}

func TestClientEnvironment(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, 0)
	defer c.Close()

	env, err := c.Environment(context.Background())
	if err != nil {
		t.Fatalf("Environment: %v", err)
	}
	if env.Version != "2.16.2" {
		t.Errorf("Version = %q, want 2.16.2", env.Version)
	}
	if env.DataLocation != "/tmp/logs" {
		t.Errorf("DataLocation = %q, want /tmp/logs", env.DataLocation)
	}
}

func TestClientScalars(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, 0)
	defer c.Close()

	points, err := c.Scalars(context.Background(), "train", "loss")
	if err != nil {
		t.Fatalf("Scalars: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[1].Step != 1 || points[1].Value != 1.25 {
		t.Errorf("points[1] = %+v, want step 1 value 1.25", points[1])
	}
}

func TestClientTexts(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, 0)
	defer c.Close()

	texts, err := c.Texts(context.Background(), "train", "notes")
	if err != nil {
		t.Fatalf("Texts: %v", err)
	}
	if len(texts) != 1 || texts[0].Text != "hello" {
		t.Errorf("Texts = %+v, want one entry with text hello", texts)
	}
}

func TestClientAPIError(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, 0)
	defer c.Close()

	// Missing run parameter makes the tags handler return 400.
	_, err := c.ScalarTags(context.Background(), "")
	if !errors.Is(err, ErrAPI) {
		t.Errorf("expected ErrAPI, got %v", err)
	}
}

func TestClientConnectionError(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second)
	_, err := c.Runs(context.Background())
	if !errors.Is(err, ErrConnection) {
		t.Errorf("expected ErrConnection, got %v", err)
	}
}

func TestClientDefaults(t *testing.T) {
	c := NewClient("", 0)
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.BaseURL(), DefaultBaseURL)
	}

	// Trailing slashes must not produce double-slash request paths.
	c = NewClient("http://localhost:6006/", 0)
	if c.BaseURL() != "http://localhost:6006" {
		t.Errorf("BaseURL = %q, want trailing slash stripped", c.BaseURL())
	}
}
