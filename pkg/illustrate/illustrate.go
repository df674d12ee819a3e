// Package illustrate asks an image generation service for a picture of a
// real-world object shaped like the selected solid. It never touches fold
// state; a failure only means there is no picture.
package illustrate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chazu/foldnet/pkg/shape"
)

var (
	// ErrNoImage is returned when the response carries no inline image.
	ErrNoImage = errors.New("illustrate: response has no image")
	// ErrNoAPIKey is returned when the provider has no key configured.
	ErrNoAPIKey = errors.New("illustrate: no API key")
)

// Image is a decoded picture.
type Image struct {
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// DataURL returns the image as a data: URL for direct use in a page.
func (i Image) DataURL() string {
	mt := i.MIMEType
	if mt == "" {
		mt = "image/png"
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Provider generates an image from a text prompt.
type Provider interface {
	Illustrate(ctx context.Context, prompt string) (Image, error)
}

// Prompt builds the generation prompt for an example object.
func Prompt(ex shape.Example) string {
	return fmt.Sprintf("3D educational illustration of a %s (%s). Style: Modern 3D isometric, white background, soft lighting.",
		ex.Title, ex.Description)
}

// HTTPProvider calls a generate-content style endpoint:
// POST {Endpoint}/{Model}:generateContent.
type HTTPProvider struct {
	Endpoint string
	Model    string
	APIKey   string
	Client   *http.Client
}

// NewHTTPProvider returns a provider with its own client and timeout.
func NewHTTPProvider(endpoint, model, apiKey string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		Endpoint: strings.TrimRight(endpoint, "/"),
		Model:    model,
		APIKey:   apiKey,
		Client:   &http.Client{Timeout: timeout},
	}
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content `json:"contents"`
	GenerationConfig struct {
		ImageConfig struct {
			AspectRatio string `json:"aspectRatio"`
		} `json:"imageConfig"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Illustrate implements Provider.
func (p *HTTPProvider) Illustrate(ctx context.Context, prompt string) (Image, error) {
	if p.APIKey == "" {
		return Image{}, ErrNoAPIKey
	}

	var body generateRequest
	body.Contents = []content{{Parts: []part{{Text: prompt}}}}
	body.GenerationConfig.ImageConfig.AspectRatio = "1:1"
	data, err := json.Marshal(body)
	if err != nil {
		return Image{}, fmt.Errorf("illustrate: %w", err)
	}

	url := p.Endpoint + "/" + p.Model + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("illustrate: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.APIKey)

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("illustrate: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return Image{}, fmt.Errorf("illustrate: read response: %w", err)
	}
	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Image{}, fmt.Errorf("illustrate: %s", resp.Status)
		}
		return Image{}, fmt.Errorf("illustrate: decode response: %w", err)
	}
	if out.Error != nil {
		return Image{}, fmt.Errorf("illustrate: %s (%d)", out.Error.Message, out.Error.Code)
	}
	if resp.StatusCode != http.StatusOK {
		return Image{}, fmt.Errorf("illustrate: %s", resp.Status)
	}

	if len(out.Candidates) == 0 {
		return Image{}, ErrNoImage
	}
	for _, pt := range out.Candidates[0].Content.Parts {
		if pt.InlineData == nil {
			continue
		}
		img, err := base64.StdEncoding.DecodeString(pt.InlineData.Data)
		if err != nil {
			return Image{}, fmt.Errorf("illustrate: decode image: %w", err)
		}
		return Image{MIMEType: pt.InlineData.MIMEType, Data: img}, nil
	}
	return Image{}, ErrNoImage
}

// Example looks up example i of family f in the catalog.
func Example(f shape.Family, i int) (shape.Example, error) {
	info, ok := shape.Lookup(f)
	if !ok {
		return shape.Example{}, fmt.Errorf("illustrate: %w", shape.ErrUnknownFamily)
	}
	if i < 0 || i >= len(info.Examples) {
		return shape.Example{}, fmt.Errorf("illustrate: %s has no example %d", f, i)
	}
	return info.Examples[i], nil
}
