package statestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// FirebaseConfig configures the RTDB REST client.
type FirebaseConfig struct {
	BaseURL   string // e.g. https://agri-hub-default-rtdb.firebaseio.com
	AuthToken string // optional database secret / id token
	Timeout   time.Duration
}

// Firebase talks to a Firebase Realtime Database over its REST interface.
// RTDB returns JSON null for absent nodes, which maps onto the Store
// contract's (nil, nil).
type Firebase struct {
	base  string
	token string
	http  *http.Client
}

func NewFirebase(cfg FirebaseConfig) (*Firebase, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("firebase: database URL required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Firebase{
		base:  base,
		token: cfg.AuthToken,
		http:  &http.Client{Timeout: timeout},
	}, nil
}

func (f *Firebase) endpoint(path string) string {
	u := f.base + "/" + strings.Trim(path, "/") + ".json"
	if f.token != "" {
		u += "?auth=" + url.QueryEscape(f.token)
	}
	return u
}

func (f *Firebase) Get(ctx context.Context, path string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint(path), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	res, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: GET %s -> %s", ErrRead, path, res.Status)
	}
	var out any
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrRead, path, err)
	}
	return out, nil
}

func (f *Firebase) Set(ctx context.Context, path string, value any) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrWrite, path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, f.endpoint(path), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := f.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("%w: PUT %s -> %s", ErrWrite, path, res.Status)
	}
	return nil
}
