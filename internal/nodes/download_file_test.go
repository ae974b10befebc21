package nodes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func TestDownloadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assets/video.mp4" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("fake video bytes"))
	}))
	defer srv.Close()

	resp := execOp(t, &DownloadFile{}, map[string]any{
		"url": srv.URL + "/assets/video.mp4",
	})

	path, _ := resp.Outputs["path"].(string)
	if !strings.HasSuffix(path, "video.mp4") {
		t.Errorf("expected filename from URL, got %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != "fake video bytes" {
		t.Errorf("unexpected content: %q", data)
	}
	if resp.Outputs["bytes"] != len(data) {
		t.Errorf("expected %d bytes, got %v", len(data), resp.Outputs["bytes"])
	}
	if resp.Outputs["status_code"] != http.StatusOK {
		t.Errorf("expected status 200, got %v", resp.Outputs["status_code"])
	}
}

func TestDownloadFile_ExplicitFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	resp := execOp(t, &DownloadFile{}, map[string]any{
		"url":      srv.URL + "/some/opaque/id",
		"path":     dir,
		"filename": "asset.bin",
	})

	data, err := os.ReadFile(dir + "/asset.bin")
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("unexpected content: %q", data)
	}
	if resp.Outputs["path"] != dir+"/asset.bin" {
		t.Errorf("unexpected path: %v", resp.Outputs["path"])
	}
}

func TestDownloadFile_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := tryOp(t, &DownloadFile{}, map[string]any{"url": srv.URL + "/missing"})
	if err == nil || !strings.Contains(err.Error(), "HTTP 404") {
		t.Fatalf("expected HTTP 404 error, got %v", err)
	}
}
