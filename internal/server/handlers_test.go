package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytscribe/internal/models"
	"github.com/desertthunder/ytscribe/internal/shared"
	itesting "github.com/desertthunder/ytscribe/internal/testing"
)

func newTestServer(t *testing.T, engine *itesting.MockEngine) *httptest.Server {
	t.Helper()

	logger := log.New(io.Discard)
	router := NewBasicRouter()
	router.Use(RequestLogger(logger))

	api := NewAPIHandler(engine, NewJobStore(), logger)
	api.Register(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func sampleResult() *models.ResolutionResult {
	transcript := "hello there"
	return &models.ResolutionResult{
		Items: []models.ResolvedItem{
			{
				VideoMetadata: models.VideoMetadata{
					ID:    "dQw4w9WgXcQ",
					URL:   shared.WatchURL("dQw4w9WgXcQ"),
					Title: "A Video",
				},
				Transcript: &transcript,
			},
		},
	}
}

func decodeStatus(t *testing.T, resp *http.Response) models.JobStatus {
	t.Helper()
	defer resp.Body.Close()

	var status models.JobStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decoding job status: %v", err)
	}
	return status
}

func waitForStatus(t *testing.T, server *httptest.Server, jobID, want string) models.JobStatus {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(server.URL + "/jobs/" + jobID)
		if err != nil {
			t.Fatalf("fetching job status: %v", err)
		}
		status := decodeStatus(t, resp)
		if status.Status == want {
			return status
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("job %s never reached status %q", jobID, want)
	return models.JobStatus{}
}

func TestHealth(t *testing.T) {
	server := newTestServer(t, &itesting.MockEngine{})

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"status":"ok"`) {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestDetails(t *testing.T) {
	t.Run("resolves synchronously", func(t *testing.T) {
		engine := &itesting.MockEngine{ResolveResult: sampleResult()}
		server := newTestServer(t, engine)

		payload := `{"urls": ["https://www.youtube.com/watch?v=dQw4w9WgXcQ"], "ids": ["jNQXAC9IVRw"]}`
		resp, err := http.Post(server.URL+"/youtube/details", "application/json", strings.NewReader(payload))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var result models.ResolutionResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("decoding result: %v", err)
		}
		if len(result.Items) != 1 || result.Items[0].ID != "dQw4w9WgXcQ" {
			t.Errorf("unexpected result: %+v", result)
		}

		calls := engine.ResolveCalls()
		if len(calls) != 1 || len(calls[0]) != 2 {
			t.Errorf("expected one call with both references, got %v", calls)
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		server := newTestServer(t, &itesting.MockEngine{})

		resp, err := http.Post(server.URL+"/youtube/details", "application/json", strings.NewReader("{not json"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("maps empty input to 400", func(t *testing.T) {
		engine := &itesting.MockEngine{ResolveErr: fmt.Errorf("%w: no references", shared.ErrEmptyInput)}
		server := newTestServer(t, engine)

		resp, err := http.Post(server.URL+"/youtube/details", "application/json", strings.NewReader(`{"urls": []}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("rejects non-POST methods", func(t *testing.T) {
		server := newTestServer(t, &itesting.MockEngine{})

		resp, err := http.Get(server.URL + "/youtube/details")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", resp.StatusCode)
		}
	})
}

func TestDetailsBulk(t *testing.T) {
	t.Run("starts a background job from a line-based upload", func(t *testing.T) {
		engine := &itesting.MockEngine{ResolveResult: sampleResult()}
		server := newTestServer(t, engine)

		upload := "dQw4w9WgXcQ\n# a comment\nhttps://youtu.be/jNQXAC9IVRw\n"
		resp, err := http.Post(server.URL+"/youtube/details/bulk", "text/plain", strings.NewReader(upload))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", resp.StatusCode)
		}

		status := decodeStatus(t, resp)
		if status.JobID == "" || status.Status != models.JobRunning {
			t.Errorf("unexpected initial status: %+v", status)
		}

		final := waitForStatus(t, server, status.JobID, models.JobCompleted)
		if final.Result == nil {
			t.Error("expected completed job to carry its result")
		}

		calls := engine.ResolveCalls()
		if len(calls) != 1 || len(calls[0]) != 2 {
			t.Errorf("expected comment line skipped, got %v", calls)
		}
	})

	t.Run("rejects empty uploads", func(t *testing.T) {
		server := newTestServer(t, &itesting.MockEngine{})

		resp, err := http.Post(server.URL+"/youtube/details/bulk", "text/plain", strings.NewReader("# only comments\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestChannelExport(t *testing.T) {
	t.Run("starts a background job", func(t *testing.T) {
		engine := &itesting.MockEngine{ChannelResult: &models.ChannelExport{
			ChannelID:    "UCabcdefghijklmnopqrstuv",
			ChannelTitle: "Some Creator",
			Data:         *sampleResult(),
		}}
		server := newTestServer(t, engine)

		payload := `{"channel": "@somecreator", "include_transcripts": true}`
		resp, err := http.Post(server.URL+"/youtube/channel/export", "application/json", strings.NewReader(payload))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", resp.StatusCode)
		}

		status := decodeStatus(t, resp)
		waitForStatus(t, server, status.JobID, models.JobCompleted)

		if calls := engine.ChannelCalls(); len(calls) != 1 || calls[0] != "@somecreator" {
			t.Errorf("unexpected channel calls: %v", calls)
		}
	})

	t.Run("unresolvable channel fails the job with its kind", func(t *testing.T) {
		engine := &itesting.MockEngine{
			ChannelErr: fmt.Errorf("%w: @nobody", shared.ErrChannelNotFound),
		}
		server := newTestServer(t, engine)

		resp, err := http.Post(server.URL+"/youtube/channel/export", "application/json", strings.NewReader(`{"channel": "@nobody"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		status := decodeStatus(t, resp)

		final := waitForStatus(t, server, status.JobID, models.JobError)
		if final.Kind != models.KindChannelNotFound {
			t.Errorf("expected kind %s, got %q", models.KindChannelNotFound, final.Kind)
		}
		if !strings.Contains(final.Message, "channel not found") {
			t.Errorf("expected message to carry the failure, got %q", final.Message)
		}
	})

	t.Run("requires a channel reference", func(t *testing.T) {
		server := newTestServer(t, &itesting.MockEngine{})

		resp, err := http.Post(server.URL+"/youtube/channel/export", "application/json", strings.NewReader(`{"channel": "  "}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestJobs(t *testing.T) {
	startBulkJob := func(t *testing.T, server *httptest.Server) models.JobStatus {
		t.Helper()
		resp, err := http.Post(server.URL+"/youtube/details/bulk", "text/plain", strings.NewReader("dQw4w9WgXcQ\n"))
		if err != nil {
			t.Fatalf("starting job: %v", err)
		}
		if resp.StatusCode != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", resp.StatusCode)
		}
		return decodeStatus(t, resp)
	}

	t.Run("unknown job is 404", func(t *testing.T) {
		server := newTestServer(t, &itesting.MockEngine{})

		resp, err := http.Get(server.URL + "/jobs/nope")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("cancel stops a running job", func(t *testing.T) {
		server := newTestServer(t, itesting.NewBlockingEngine())
		status := startBulkJob(t, server)

		resp, err := http.Post(server.URL+"/jobs/"+status.JobID+"/cancel", "application/json", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", resp.StatusCode)
		}
		resp.Body.Close()

		waitForStatus(t, server, status.JobID, models.JobCancelled)
	})

	t.Run("cancel of a finished job conflicts", func(t *testing.T) {
		engine := &itesting.MockEngine{ResolveResult: sampleResult()}
		server := newTestServer(t, engine)
		status := startBulkJob(t, server)
		waitForStatus(t, server, status.JobID, models.JobCompleted)

		resp, err := http.Post(server.URL+"/jobs/"+status.JobID+"/cancel", "application/json", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusConflict {
			t.Errorf("expected 409, got %d", resp.StatusCode)
		}
	})

	t.Run("download before completion conflicts", func(t *testing.T) {
		server := newTestServer(t, itesting.NewBlockingEngine())
		status := startBulkJob(t, server)

		resp, err := http.Get(server.URL + "/jobs/" + status.JobID + "/download")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusConflict {
			t.Errorf("expected 409, got %d", resp.StatusCode)
		}
	})

	t.Run("download formats", func(t *testing.T) {
		engine := &itesting.MockEngine{ResolveResult: sampleResult()}
		server := newTestServer(t, engine)
		status := startBulkJob(t, server)
		waitForStatus(t, server, status.JobID, models.JobCompleted)

		t.Run("json", func(t *testing.T) {
			resp, err := http.Get(server.URL + "/jobs/" + status.JobID + "/download?format=json")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), "dQw4w9WgXcQ") {
				t.Errorf("unexpected payload: %s", body)
			}
		})

		t.Run("csv", func(t *testing.T) {
			resp, err := http.Get(server.URL + "/jobs/" + status.JobID + "/download?format=csv")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
				t.Errorf("expected text/csv, got %s", ct)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.HasPrefix(string(body), "ID,URL,Title") {
				t.Errorf("unexpected payload: %s", body)
			}
		})

		t.Run("unknown format", func(t *testing.T) {
			resp, err := http.Get(server.URL + "/jobs/" + status.JobID + "/download?format=yaml")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
		})
	})
}
