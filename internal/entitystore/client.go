package entitystore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/clearpathclaims/inspectdesk/internal/config"
	"github.com/clearpathclaims/inspectdesk/internal/domain"
)

// Client talks to the remote entity service. All portal persistence lives
// there; this client is the only component that performs network I/O
// against it. Per-entity access goes through the typed collections.
type Client struct {
	baseURL *url.URL
	appID   string
	apiKey  string
	http    *http.Client
	log     *slog.Logger

	Requests  *Collection[domain.InspectionRequest]
	Documents *Collection[domain.ClientDocument]
	Tasks     *Collection[domain.Task]
	Notes     *Collection[domain.Note]
	Statuses  *Collection[domain.StatusOption]
	Archives  *Collection[domain.ArchivedProfile]
	Users     *Collection[domain.UserAccount]
}

// New creates a Client from configuration.
func New(cfg config.EntityStoreConfig, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("entitystore: parse base url: %w", err)
	}

	c := &Client{
		baseURL: base,
		appID:   cfg.AppID,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     logger.With("component", "entitystore"),
	}

	c.Requests = newCollection[domain.InspectionRequest](c, "InspectionRequest")
	c.Documents = newCollection[domain.ClientDocument](c, "ClientDocument")
	c.Tasks = newCollection[domain.Task](c, "Task")
	c.Notes = newCollection[domain.Note](c, "Note")
	c.Statuses = newCollection[domain.StatusOption](c, "StatusOption")
	c.Archives = newCollection[domain.ArchivedProfile](c, "ArchivedProfile")
	c.Users = newCollection[domain.UserAccount](c, "User")

	return c, nil
}

// Me returns the identity behind the service credentials.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, http.MethodGet, c.appPath("auth", "me"), nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Ping checks reachability of the entity service.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Me(ctx)
	return err
}

// UploadFile stores a file in the entity service and returns its public URL.
func (c *Client) UploadFile(ctx context.Context, filename string, r io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("entitystore: upload %s: %w", filename, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("entitystore: upload %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("entitystore: upload %s: %w", filename, err)
	}

	u := c.endpoint(c.appPath("files"), nil)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &body)
	if err != nil {
		return "", fmt.Errorf("entitystore: upload %s: %w", filename, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("entitystore: upload %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", statusError(http.MethodPost, c.appPath("files"), resp)
	}

	var out struct {
		FileURL string `json:"file_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("entitystore: upload %s: decode: %w", filename, err)
	}
	return out.FileURL, nil
}

func (c *Client) appPath(parts ...string) string {
	all := append([]string{"api", "apps", c.appID}, parts...)
	return strings.Join(all, "/")
}

func (c *Client) entityPath(entity string, parts ...string) string {
	all := append([]string{"entities", entity}, parts...)
	return c.appPath(all...)
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do runs one JSON request against the store. A 404 on DELETE is treated
// as success: deletes are idempotent on already-missing records.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("entitystore: %s %s: marshal: %w", method, path, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), rd)
	if err != nil {
		return fmt.Errorf("entitystore: %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("entitystore: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		if method == http.MethodDelete {
			io.Copy(io.Discard, resp.Body) //nolint:errcheck
			return nil
		}
		return fmt.Errorf("entitystore: %s %s: %w", method, path, domain.ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("entitystore: %s %s: %w", method, path, domain.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("entitystore: %s %s: %w", method, path, domain.ErrForbidden)
	case resp.StatusCode >= 400:
		return statusError(method, path, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("entitystore: %s %s: decode: %w", method, path, err)
		}
	} else {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
	}

	return nil
}

func statusError(method, path string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("entitystore: %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
}
