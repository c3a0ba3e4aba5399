package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"quill/internal/media"
	"quill/internal/reconcile"
	"quill/internal/submission"
)

// Category is one entry of the server's category taxonomy.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PostImage is a persisted image record attached to a post.
type PostImage struct {
	ID   int64  `json:"id"`
	URL  string `json:"image"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// PostFile is a persisted non-image attachment record.
type PostFile struct {
	ID       int64  `json:"id"`
	URL      string `json:"file_url"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	FileType string `json:"file_type"`
}

// Post is the server representation loaded for editing.
type Post struct {
	ID         int64       `json:"id"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	CategoryID int64       `json:"category_id"`
	Link       string      `json:"link"`
	Images     []PostImage `json:"post_images"`
	Files      []PostFile  `json:"post_files"`
}

// PersistedMedia converts the post's media records into reconciliation
// entries, images first, then files, each in server order.
func (p *Post) PersistedMedia() []reconcile.PersistedMedia {
	entries := make([]reconcile.PersistedMedia, 0, len(p.Images)+len(p.Files))
	for _, img := range p.Images {
		entries = append(entries, reconcile.PersistedMedia{
			ID:        img.ID,
			Kind:      reconcile.KindImage,
			Category:  media.CategoryImage,
			Name:      img.Name,
			URL:       img.URL,
			SizeBytes: img.Size,
		})
	}
	for _, file := range p.Files {
		category, _ := media.ParseCategory(file.FileType)
		entries = append(entries, reconcile.PersistedMedia{
			ID:        file.ID,
			Kind:      reconcile.KindFile,
			Category:  category,
			Name:      file.Name,
			URL:       file.URL,
			SizeBytes: file.Size,
		})
	}
	return entries
}

// SubmitResult is the server acknowledgement for a create or update.
type SubmitResult struct {
	PostID int64 `json:"id"`
}

// PostAPI defines the server operations the session depends on.
type PostAPI interface {
	GetPost(ctx context.Context, id int64) (*Post, error)
	ListCategories(ctx context.Context) ([]Category, error)
	CreatePost(ctx context.Context, payload submission.Payload) (*SubmitResult, error)
	UpdatePost(ctx context.Context, id int64, payload submission.Payload) (*SubmitResult, error)
}

// Client talks to the posts service over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ PostAPI = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a posts client.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("api base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// GetPost loads the post for editing.
func (c *Client) GetPost(ctx context.Context, id int64) (*Post, error) {
	const operation = "load post"
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/posts/%d/", id), nil, "")
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransientError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	if err := c.checkStatus(operation, id, resp); err != nil {
		return nil, err
	}
	var post Post
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		return nil, &TransientError{Operation: operation, Err: fmt.Errorf("decode response: %w", err)}
	}
	if post.ID == 0 {
		post.ID = id
	}
	return &post, nil
}

// ListCategories loads the category taxonomy.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	const operation = "list categories"
	req, err := c.newRequest(ctx, http.MethodGet, "/api/categories/", nil, "")
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransientError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	if err := c.checkStatus(operation, 0, resp); err != nil {
		return nil, err
	}
	var categories []Category
	if err := json.NewDecoder(resp.Body).Decode(&categories); err != nil {
		return nil, &TransientError{Operation: operation, Err: fmt.Errorf("decode response: %w", err)}
	}
	return categories, nil
}

// CreatePost submits a new post with its staged attachments.
func (c *Client) CreatePost(ctx context.Context, payload submission.Payload) (*SubmitResult, error) {
	return c.submit(ctx, "create post", http.MethodPost, "/api/posts/", 0, payload)
}

// UpdatePost submits field changes, new attachments, and deletion ids for an
// existing post.
func (c *Client) UpdatePost(ctx context.Context, id int64, payload submission.Payload) (*SubmitResult, error) {
	return c.submit(ctx, "update post", http.MethodPatch, fmt.Sprintf("/api/posts/%d/", id), id, payload)
}

func (c *Client) submit(ctx context.Context, operation, method, path string, postID int64, payload submission.Payload) (*SubmitResult, error) {
	body, contentType, err := encodeMultipart(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransientError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		return nil, decodeFieldErrors(resp.Body)
	}
	if err := c.checkStatus(operation, postID, resp); err != nil {
		return nil, err
	}
	var result SubmitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &TransientError{Operation: operation, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &result, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func (c *Client) checkStatus(operation string, postID int64, resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthorizationError{Operation: operation, Status: resp.StatusCode}
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Operation: operation, PostID: postID}
	default:
		return &TransientError{Operation: operation, Status: resp.StatusCode}
	}
}

// encodeMultipart renders the payload as multipart form data. Part order
// follows the payload's deterministic ordering.
func encodeMultipart(payload submission.Payload) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":       payload.Fields.Title,
		"content":     payload.Fields.Content,
		"category_id": strconv.FormatInt(payload.Fields.CategoryID, 10),
	}
	for _, name := range []string{"title", "content", "category_id"} {
		if err := writer.WriteField(name, fields[name]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}
	if payload.Fields.Link != "" {
		if err := writer.WriteField("link", payload.Fields.Link); err != nil {
			return nil, "", fmt.Errorf("write field link: %w", err)
		}
	}
	for _, part := range payload.Parts {
		if err := writeFilePart(writer, part); err != nil {
			return nil, "", err
		}
	}
	for _, id := range payload.DeleteImages {
		if err := writer.WriteField("delete_images", strconv.FormatInt(id, 10)); err != nil {
			return nil, "", fmt.Errorf("write delete_images: %w", err)
		}
	}
	for _, id := range payload.DeleteFiles {
		if err := writer.WriteField("delete_files", strconv.FormatInt(id, 10)); err != nil {
			return nil, "", fmt.Errorf("write delete_files: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize form: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

func writeFilePart(writer *multipart.Writer, part submission.FilePart) error {
	source, err := os.Open(part.SourcePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", part.SourcePath, err)
	}
	defer source.Close()

	dest, err := writer.CreateFormFile(part.FieldName, part.FileName)
	if err != nil {
		return fmt.Errorf("create part %s: %w", part.FieldName, err)
	}
	if _, err := io.Copy(dest, source); err != nil {
		return fmt.Errorf("copy %s: %w", part.FileName, err)
	}
	return nil
}

// decodeFieldErrors turns a 400 response body into field-keyed validation
// errors. Values may be a string or a list of strings per field.
func decodeFieldErrors(body io.Reader) error {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return submission.FieldErrors{"non_field_errors": {"submission rejected"}}
	}
	errs := submission.FieldErrors{}
	for field, value := range raw {
		var many []string
		if err := json.Unmarshal(value, &many); err == nil {
			for _, msg := range many {
				errs.Add(field, msg)
			}
			continue
		}
		var one string
		if err := json.Unmarshal(value, &one); err == nil {
			errs.Add(field, one)
			continue
		}
		errs.Add(field, string(value))
	}
	if len(errs) == 0 {
		errs.Add("non_field_errors", "submission rejected")
	}
	return errs
}
