package objectstore

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client uploads audio objects to an S3-compatible public bucket over
// plain HTTP PUT with signature-v2 authorization. The bucket grants
// public read, so the durable URL is just endpoint/bucket/key.
type Client struct {
	httpClient *http.Client
	endpoint   string
	bucket     string
	accessKey  string
	secretKey  string
	publicURL  string
}

// NewClient creates an object store client. publicURL overrides the
// derived endpoint/bucket URL when a CDN fronts the bucket.
func NewClient(httpClient *http.Client, endpoint, bucket, accessKey, secretKey, publicURL string) *Client {
	return &Client{
		httpClient: httpClient,
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		bucket:     bucket,
		accessKey:  accessKey,
		secretKey:  secretKey,
		publicURL:  strings.TrimSuffix(publicURL, "/"),
	}
}

// Upload stores the audio buffer under key and returns its durable URL
func (c *Client) Upload(ctx context.Context, key string, audio []byte, contentType string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}

	date := time.Now().UTC().Format(http.TimeFormat)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Date", date)
	req.Header.Set("x-amz-acl", "public-read")
	req.ContentLength = int64(len(audio))

	stringToSign := strings.Join([]string{
		http.MethodPut,
		"",
		contentType,
		date,
		"x-amz-acl:public-read",
		"/" + c.bucket + "/" + key,
	}, "\n")
	req.Header.Set("Authorization", fmt.Sprintf("AWS %s:%s", c.accessKey, c.sign(stringToSign)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("object store returned status %d", resp.StatusCode)
	}

	publicURL := endpoint
	if c.publicURL != "" {
		publicURL = c.publicURL + "/" + key
	}

	slog.Debug("Uploaded audio object",
		"key", key,
		"size_bytes", len(audio),
		"url", publicURL,
	)

	return publicURL, nil
}

func (c *Client) sign(stringToSign string) string {
	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
