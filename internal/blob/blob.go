package blob

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"
)

// Store uploads user files to Cloudinary using their REST API. Paths are
// namespaced per uploading user and timestamped, so nothing collides;
// superseded files are never deleted (orphaned blobs accumulate, accepted).
type Store struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	HTTP      *http.Client
}

// New creates a Cloudinary-backed store.
func New(cloudName, apiKey, apiSecret, folder string) *Store {
	return &Store{
		CloudName: cloudName,
		APIKey:    apiKey,
		APISecret: apiSecret,
		Folder:    folder,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
	}
}

// UploadResult holds the response after a successful upload.
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Format    string `json:"format"`
	Bytes     int    `json:"bytes"`
}

// UserPath builds the namespaced target for an upload: the uploading
// user's id, the kind of slot being filled (avatar, banner, material) and
// a timestamp keep concurrent uploads from colliding.
func UserPath(uid, kind, filename string) string {
	base := strings.ReplaceAll(path.Base(filename), " ", "_")
	return fmt.Sprintf("users/%s/%s_%d_%s", uid, kind, time.Now().Unix(), base)
}

// UploadBytes uploads raw file bytes under the given namespaced id.
// resourceType is "image" for avatars/banners and "raw" for PDFs.
func (s *Store) UploadBytes(data []byte, publicID, resourceType string) (*UploadResult, error) {
	if resourceType == "" {
		resourceType = "image"
	}
	params := map[string]string{
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
		"api_key":   s.APIKey,
		"public_id": publicID,
	}
	if s.Folder != "" {
		params["folder"] = s.Folder
	}
	params["signature"] = s.sign(params)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range params {
		_ = w.WriteField(k, v)
	}
	part, err := w.CreateFormFile("file", path.Base(publicID))
	if err != nil {
		return nil, fmt.Errorf("blob: create form file failed: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("blob: write file failed: %w", err)
	}
	w.Close()

	return s.post(resourceType, &buf, w.FormDataContentType())
}

// UploadBase64 uploads a base64 data URL ("data:image/png;base64,...").
func (s *Store) UploadBase64(data, publicID string) (*UploadResult, error) {
	params := map[string]string{
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
		"api_key":   s.APIKey,
		"public_id": publicID,
	}
	if s.Folder != "" {
		params["folder"] = s.Folder
	}
	params["signature"] = s.sign(params)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range params {
		_ = w.WriteField(k, v)
	}
	_ = w.WriteField("file", data)
	w.Close()

	return s.post("image", &buf, w.FormDataContentType())
}

func (s *Store) post(resourceType string, body io.Reader, contentType string) (*UploadResult, error) {
	url := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/%s/upload", s.CloudName, resourceType)
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("blob: create request failed: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("blob: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("blob: upload failed (%d): %s", resp.StatusCode, string(raw))
	}
	var result UploadResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("blob: decode response failed: %w", err)
	}
	return &result, nil
}

// sign computes the API signature from the given params. api_key and file
// are excluded from the signature per Cloudinary's signing rules.
func (s *Store) sign(params map[string]string) string {
	excludeKeys := map[string]bool{"api_key": true, "file": true, "resource_type": true}
	pairs := make([]string, 0, len(params))
	for k, v := range params {
		if !excludeKeys[k] && v != "" {
			pairs = append(pairs, k+"="+v)
		}
	}
	sort.Strings(pairs)
	payload := strings.Join(pairs, "&") + s.APISecret
	h := sha1.New()
	h.Write([]byte(payload))
	return fmt.Sprintf("%x", h.Sum(nil))
}
