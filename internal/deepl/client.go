package deepl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultURL is the DeepL free-tier endpoint.
const DefaultURL = "https://api-free.deepl.com/v2/translate"

var (
	ErrTransport   = errors.New("deepl: transport error")
	ErrProvider    = errors.New("deepl: provider error")
	ErrEmptyResult = errors.New("deepl: empty result")
)

// TranslateError describes why a single translate call failed. Kind is one
// of ErrTransport, ErrProvider or ErrEmptyResult and matches with errors.Is.
type TranslateError struct {
	Kind   error
	Status int
	Body   string
	Err    error
}

func (e *TranslateError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%v: status=%d body=%s", e.Kind, e.Status, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	default:
		return e.Kind.Error()
	}
}

func (e *TranslateError) Is(target error) bool {
	return target == e.Kind
}

func (e *TranslateError) Unwrap() error {
	return e.Err
}

type Client struct {
	url  string
	http *resty.Client
}

func New(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:  url,
		http: resty.New().SetTimeout(timeout),
	}
}

type translateResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// Translate sends one request for one text. Language codes are upper-cased.
// There is no retry, failures come back as *TranslateError.
func (c *Client) Translate(ctx context.Context, apiKey, text, sourceLang, targetLang string) (string, error) {
	var resp translateResponse
	r, err := c.http.R().SetContext(ctx).
		SetHeader("Authorization", "DeepL-Auth-Key "+apiKey).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{
			"text":        text,
			"source_lang": strings.ToUpper(sourceLang),
			"target_lang": strings.ToUpper(targetLang),
		}).
		Post(c.url)
	if err != nil {
		return "", &TranslateError{Kind: ErrTransport, Err: err}
	}
	if r.StatusCode() != 200 {
		return "", &TranslateError{Kind: ErrProvider, Status: r.StatusCode(), Body: abbreviate(r.String(), 500)}
	}

	if err := json.Unmarshal(r.Body(), &resp); err != nil {
		return "", &TranslateError{Kind: ErrEmptyResult, Err: err}
	}
	if len(resp.Translations) == 0 || resp.Translations[0].Text == "" {
		return "", &TranslateError{Kind: ErrEmptyResult}
	}
	return resp.Translations[0].Text, nil
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
