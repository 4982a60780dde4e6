package release

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

// The release API boundary.
//
// The pipeline only defines call order and failure handling around this
// boundary; the transport behind it is an external collaborator.
type Client interface {

	// Creates one release entity for the tag and returns the URL assets
	// are uploaded to. Releases are always public: draft and prerelease
	// are never set.
	CreateRelease(ctx context.Context, tag, title string) (string, error)

	// Uploads one file as a named release asset with the given content
	// type.
	UploadAsset(ctx context.Context, uploadURL, filePath, assetName, contentType string) error
}

// A GitHub-style releases client.
//
// Release creation retries at the connection level; asset uploads do not
// retry at all, mirroring the pipeline's no-silent-retry policy, so a
// flaky upload surfaces instead of masking a partially-written asset.
type HTTPClient struct {
	api    string               // Base API URL, no trailing slash.
	repo   string               // "owner/name" the release is created in.
	token  string               // Bearer token.
	create *retryablehttp.Client // Client for release creation.
	upload *retryablehttp.Client // Client for asset uploads, retries disabled.
}

// Creates a release client for the given API endpoint and repository.
func NewHTTPClient(apiURL, repo, token string) *HTTPClient {
	create := retryablehttp.NewClient()
	create.RetryMax = 3
	create.Logger = nil

	upload := retryablehttp.NewClient()
	upload.RetryMax = 0
	upload.Logger = nil

	return &HTTPClient{
		api:    strings.TrimRight(apiURL, "/"),
		repo:   repo,
		token:  token,
		create: create,
		upload: upload,
	}
}

// Creates a non-draft, non-prerelease release for the tag.
func (c *HTTPClient) CreateRelease(ctx context.Context, tag, title string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"tag_name":   tag,
		"name":       title,
		"draft":      false,
		"prerelease": false,
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/repos/%s/releases", c.api, c.repo)
	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", endpoint, body)
	if err != nil {
		return "", err
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.create.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("release API returned %s: %s", resp.Status, readTail(resp.Body))
	}

	var created struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decoding release response: %w", err)
	}
	if created.UploadURL == "" {
		return "", fmt.Errorf("release response carried no upload URL")
	}

	return stripURITemplate(created.UploadURL), nil
}

// Uploads a file as a release asset.
func (c *HTTPClient) UploadAsset(ctx context.Context, uploadURL, filePath, assetName, contentType string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	endpoint := uploadURL + "?name=" + url.QueryEscape(assetName)
	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", endpoint, f)
	if err != nil {
		return err
	}
	c.authorize(req)
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = info.Size()

	resp, err := c.upload.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("asset upload returned %s: %s", resp.Status, readTail(resp.Body))
	}

	return nil
}

// Sets the bearer token when one is configured.
func (c *HTTPClient) authorize(req *retryablehttp.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// Strips the RFC 6570 template suffix ("{?name,label}") GitHub appends to
// upload URLs.
func stripURITemplate(u string) string {
	if i := strings.IndexByte(u, '{'); i >= 0 {
		return u[:i]
	}
	return u
}

// Reads a bounded amount of an error response body for diagnostics.
func readTail(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(data))
}
