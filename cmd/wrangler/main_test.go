package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"embedding-wrangler/internal/app"
	"embedding-wrangler/internal/config"
)

func newBackend(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, `{"detail":"Word not found in the embedding vocabulary"}`, status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/similarity":
			w.Write([]byte(`{"cosine_similarity":0.87982,"euclidean_distance":2.68114}`))
		case "/nearest_neighbors":
			if r.URL.Query().Get("n") == "1" {
				w.Write([]byte(`[{"word":"kitten","similarity":0.76344}]`))
				return
			}
			w.Write([]byte(`[{"word":"kitten","similarity":0.76344},{"word":"dog","similarity":0.74091}]`))
		case "/word_arithmetic":
			w.Write([]byte(`[{"word":"queen","similarity":0.69781}]`))
		case "/visualize_embeddings":
			var body struct {
				Words []string `json:"words"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			coords := [][]float64{{1.5, -0.25}, {-1.5, 0.25}, {0, 0}}
			_ = json.NewEncoder(w).Encode(map[string]any{"words": body.Words, "coordinates": coords[:len(body.Words)]})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCommands(t *testing.T) {
	backend := newBackend(t, http.StatusOK)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "compare",
			args: []string{"compare", "cat", "dog"},
			want: "Cosine Similarity: 0.8798\nEuclidean Distance: 2.6811\n",
		},
		{
			name: "neighbors",
			args: []string{"neighbors", "cat"},
			want: "kitten: 0.7634\ndog: 0.7409\n",
		},
		{
			name: "neighbors with count",
			args: []string{"neighbors", "cat", "--n", "1"},
			want: "kitten: 0.7634\n",
		},
		{
			name: "arithmetic",
			args: []string{"arithmetic", "king", "man"},
			want: "queen: 0.6978\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, append(tt.args, "--api-url", backend.URL)...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.want {
				t.Errorf("got %q, want %q", out, tt.want)
			}
		})
	}
}

func TestVisualizeCommand(t *testing.T) {
	backend := newBackend(t, http.StatusOK)

	out, _, err := runCLI(t, "visualize", "king", "queen", "--api-url", backend.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", out)
	}
	if fields := strings.Fields(lines[0]); strings.Join(fields, " ") != "WORD X Y" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if fields := strings.Fields(lines[1]); strings.Join(fields, " ") != "king 1.5000 -0.2500" {
		t.Errorf("unexpected row %q", lines[1])
	}
}

func TestCommandFailuresUseStaticMessages(t *testing.T) {
	backend := newBackend(t, http.StatusNotFound)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"compare", "cat", "qwxz"}, "Failed to fetch similarity"},
		{[]string{"neighbors", "qwxz"}, "Failed to fetch neighbors"},
		{[]string{"arithmetic", "king", "qwxz"}, "Failed to perform word arithmetic"},
		{[]string{"visualize", "qwxz"}, "Failed to visualize embeddings"},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			out, stderr, err := runCLI(t, append(tt.args, "--api-url", backend.URL, "--log-level", "error")...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if err.Error() != tt.want {
				t.Errorf("got %q, want %q", err.Error(), tt.want)
			}
			if out != "" {
				t.Errorf("expected no output, got %q", out)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("expected error on stderr, got %q", stderr)
			}
		})
	}
}

func TestCommandsValidateWords(t *testing.T) {
	var calls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cosine_similarity":0.5,"euclidean_distance":1}`))
	}))
	t.Cleanup(backend.Close)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"compare", " ", "dog"}, "Please enter both words"},
		{[]string{"neighbors", ""}, "Please enter a word"},
		{[]string{"arithmetic", "king", "  "}, "Please enter both words"},
		{[]string{"visualize", " ", ""}, "Please enter a word"},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			_, _, err := runCLI(t, append(tt.args, "--api-url", backend.URL)...)
			if err == nil || err.Error() != tt.want {
				t.Errorf("got %v, want %q", err, tt.want)
			}
		})
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("expected no backend requests, got %d", n)
	}

	out, _, err := runCLI(t, "compare", " cat ", "dog", "--api-url", backend.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "Cosine Similarity: 0.5000") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestArgumentValidation(t *testing.T) {
	for _, args := range [][]string{
		{"compare", "cat"},
		{"neighbors"},
		{"arithmetic", "king"},
		{"visualize"},
		{"serve", "extra"},
	} {
		if _, _, err := runCLI(t, args...); err == nil {
			t.Errorf("%v: expected argument error", args)
		}
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	deps, err := app.Build(config.Config{Port: 0, LogLevel: "error", APIURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("build deps: %v", err)
	}
	defer deps.Sessions.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, deps) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
