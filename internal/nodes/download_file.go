package nodes

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/syncflow/syncflow/internal/node"
)

const defaultDownloadTimeout = 30 * time.Second

// DownloadFile скачивает файл по HTTP(S) в рабочую директорию узла.
//
// Имя файла по умолчанию берётся из последнего сегмента URL.
type DownloadFile struct{}

func (op *DownloadFile) Ports() (map[string]*node.InputPort, map[string]*node.OutputPort) {
	inputs := map[string]*node.InputPort{
		"url": {
			Name: "url", Type: node.PortTypeString, Required: true,
			Description: "HTTP(S) URL файла",
			Validator: func(v any) bool {
				s, ok := v.(string)
				return ok && (strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://"))
			},
		},
		"path": {
			Name: "path", Type: node.PortTypeDirectory, Default: "",
			Description: "Директория назначения, по умолчанию рабочая директория узла",
		},
		"filename": {
			Name: "filename", Type: node.PortTypeString, Default: "",
			Description: "Имя файла, по умолчанию из URL",
		},
		"timeout_sec": {
			Name: "timeout_sec", Type: node.PortTypeInteger, Default: 30,
			Description: "Таймаут запроса в секундах",
		},
		"validate_ssl": {
			Name: "validate_ssl", Type: node.PortTypeBoolean, Default: true,
			Description: "Проверять TLS-сертификат сервера",
		},
		"follow_redirects": {
			Name: "follow_redirects", Type: node.PortTypeBoolean, Default: true,
			Description: "Следовать HTTP-редиректам",
		},
	}
	outputs := map[string]*node.OutputPort{
		"path": {
			Name: "path", Type: node.PortTypeFile,
			Description: "Путь к скачанному файлу",
		},
		"bytes": {
			Name: "bytes", Type: node.PortTypeInteger,
			Description: "Размер файла в байтах",
		},
		"status_code": {
			Name: "status_code", Type: node.PortTypeInteger,
			Description: "HTTP статус ответа",
		},
	}
	return inputs, outputs
}

func (op *DownloadFile) Execute(ctx context.Context, req *node.Request) (*node.Response, error) {
	rawURL := asString(req.Inputs["url"])
	dir := asString(req.Inputs["path"])
	filename := asString(req.Inputs["filename"])

	if dir == "" {
		dir = req.WorkDir
	}
	if filename == "" {
		name, err := filenameFromURL(rawURL)
		if err != nil {
			return nil, err
		}
		filename = name
	}

	client := op.buildClient(req.Inputs)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("download %s: HTTP %d", rawURL, resp.StatusCode)
	}

	target := filepath.Join(dir, filename)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	written, err := io.Copy(f, resp.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(target)
		return nil, fmt.Errorf("write file: %w", err)
	}

	req.Logger.Info("file downloaded", "url", rawURL, "path", target, "bytes", written)

	return &node.Response{Outputs: map[string]any{
		"path":        target,
		"bytes":       int(written),
		"status_code": resp.StatusCode,
	}}, nil
}

func (op *DownloadFile) buildClient(inputs map[string]any) *http.Client {
	timeout := defaultDownloadTimeout
	if sec := asInt(inputs["timeout_sec"]); sec > 0 {
		timeout = time.Duration(sec) * time.Second
	}

	var checkRedirect func(*http.Request, []*http.Request) error
	if !asBool(inputs["follow_redirects"]) {
		checkRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &http.Client{
		Timeout:       timeout,
		CheckRedirect: checkRedirect,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: !asBool(inputs["validate_ssl"]),
			},
		},
	}
}

func filenameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("bad url %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		name = "download"
	}
	return name, nil
}
