// Package cloudinary implements the provider-facing pieces of the gateway:
// request signing, signed upload URL assembly and the admin destroy call.
package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cloudinary-gateway/internal/config"
	"cloudinary-gateway/utils/apperrors"
)

const defaultBaseURL = "https://api.cloudinary.com/v1_1"

// Client signs upload requests locally and talks to the Cloudinary admin
// API for destroys. Signing involves no network I/O.
type Client struct {
	baseURL string
	bucket  string
	folder  string
	apiKey  string
	secret  string

	httpClient *http.Client
	log        zerolog.Logger
	now        func() time.Time
}

func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		bucket:  cfg.CloudinaryBucket,
		folder:  cfg.CloudinaryFolder,
		apiKey:  cfg.CloudinaryKey,
		secret:  cfg.CloudinarySecret,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log.With().Str("component", "cloudinary-client").Logger(),
		now: time.Now,
	}
}

// SignParams computes Cloudinary's request signature over the given
// parameter set: keys sorted, multi-values joined by commas, empty values
// omitted, serialized as k=v pairs joined by "&" with the API secret
// appended, SHA-1, hex. The caller must send exactly this parameter set in
// the request or the provider will reject the signature.
func (c *Client) SignParams(params url.Values) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		value := strings.Join(params[key], ",")
		if value == "" {
			continue
		}
		pairs = append(pairs, key+"="+value)
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.secret))
	return hex.EncodeToString(sum[:])
}

// SignUploadURL builds a time-boxed signed upload URL for the given public
// id and allowed formats.
func (c *Client) SignUploadURL(publicID string, allowedFormats []string) string {
	timestamp := strconv.FormatInt(c.now().Unix(), 10)

	signature := c.SignParams(url.Values{
		"folder":          {c.folder},
		"public_id":       {publicID},
		"allowed_formats": allowedFormats,
		"timestamp":       {timestamp},
	})

	query := url.Values{
		"folder":          {c.folder},
		"api_key":         {c.apiKey},
		"public_id":       {publicID},
		"allowed_formats": {strings.Join(allowedFormats, ",")},
		"signature":       {signature},
		"timestamp":       {timestamp},
	}

	return fmt.Sprintf("%s/%s/image/upload/?%s", c.baseURL, c.bucket, query.Encode())
}

type destroyResponse struct {
	Result string `json:"result"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Destroy removes the asset identified by publicID from the provider,
// invalidating cached CDN copies when invalidate is set. A "not found"
// result is treated as success: the asset is gone either way.
func (c *Client) Destroy(ctx context.Context, publicID string, invalidate bool) error {
	timestamp := strconv.FormatInt(c.now().Unix(), 10)

	params := url.Values{
		"public_id":  {publicID},
		"invalidate": {strconv.FormatBool(invalidate)},
		"timestamp":  {timestamp},
	}
	signature := c.SignParams(params)
	params.Set("api_key", c.apiKey)
	params.Set("signature", signature)

	endpoint := fmt.Sprintf("%s/%s/image/destroy", c.baseURL, c.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("build destroy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Upstream("cloudinary destroy call failed", err)
	}
	defer resp.Body.Close()

	var out destroyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return apperrors.Upstream("decode cloudinary destroy response", err)
	}

	if resp.StatusCode != http.StatusOK {
		message := out.Error.Message
		if message == "" {
			message = resp.Status
		}
		return apperrors.Upstream(fmt.Sprintf("cloudinary destroy rejected: %s", message), nil)
	}

	switch out.Result {
	case "ok", "not found":
		return nil
	default:
		return apperrors.Upstream(fmt.Sprintf("cloudinary destroy returned %q", out.Result), nil)
	}
}
