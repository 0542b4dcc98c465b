package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// User is an authenticated account.
type User struct {
	ID    string `json:"uid"`
	Email string `json:"email"`
}

// firebaseClient talks to the Firebase Identity Toolkit REST API.
type firebaseClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func newFirebaseClient(apiKey, baseURL string) *firebaseClient {
	return &firebaseClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type identityRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type identityResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *firebaseClient) signIn(ctx context.Context, email, password string) (User, error) {
	return c.call(ctx, "accounts:signInWithPassword", email, password)
}

func (c *firebaseClient) signUp(ctx context.Context, email, password string) (User, error) {
	return c.call(ctx, "accounts:signUp", email, password)
}

func (c *firebaseClient) call(ctx context.Context, endpoint, email, password string) (User, error) {
	body, err := json.Marshal(identityRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return User{}, fmt.Errorf("marshal identity request: %w", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.baseURL, endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return User{}, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	var out identityResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return User{}, fmt.Errorf("decode identity response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		code := ""
		if out.Error != nil {
			code = out.Error.Message
		}
		return User{}, newError(classify(code), fmt.Sprintf("authentication failed (%s)", code))
	}

	return User{ID: out.LocalID, Email: out.Email}, nil
}
