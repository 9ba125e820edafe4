package tandemsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to one tandem server. It holds the session cookie, so a
// Client represents at most one logged-in user at a time.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a Client with its own cookie jar.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}
}

// Photo is an optional file part for registration and profile updates.
type Photo struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, expectedStatus int) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	resp, err := c.doRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	if out == nil {
		return checkStatus(resp, expectedStatus)
	}
	return decodeJSON(resp, out, expectedStatus)
}

func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}
	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response, expectedStatus int) error {
	defer resp.Body.Close()

	if resp.StatusCode != expectedStatus {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, bodyBytes)
	}
	return nil
}

// multipartBody encodes fields and an optional photo part.
func multipartBody(fields url.Values, photo *Photo) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for key, values := range fields {
		for _, v := range values {
			if err := mw.WriteField(key, v); err != nil {
				return nil, "", err
			}
		}
	}

	if photo != nil {
		fw, err := mw.CreateFormFile("profilePhoto", photo.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(fw, photo.Body); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

// ============================================================================
// Accounts
// ============================================================================

// Register creates an account. photo may be nil.
func (c *Client) Register(ctx context.Context, req RegisterRequest, photo *Photo) (*RegisterResponse, error) {
	fields := url.Values{
		"username": {req.Username},
		"email":    {req.Email},
		"password": {req.Password},
	}
	if req.ConfirmPassword != "" {
		fields.Set("confirmPassword", req.ConfirmPassword)
	}
	if len(req.LanguagesFluent) > 0 {
		fields.Set("languagesFluent", strings.Join(req.LanguagesFluent, ","))
	}
	if len(req.LanguagesLearning) > 0 {
		fields.Set("languagesLearning", strings.Join(req.LanguagesLearning, ","))
	}

	body, contentType, err := multipartBody(fields, photo)
	if err != nil {
		return nil, err
	}
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/register", body, contentType)
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmail consumes the token from a verification link.
func (c *Client) VerifyEmail(ctx context.Context, token string) (*AccountResponse, error) {
	var out AccountResponse
	err := c.doJSON(ctx, http.MethodGet, "/v1/verify-email?token="+url.QueryEscape(token), nil, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login starts a session; the cookie is kept by the Client.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/login", LoginRequest{Username: username, Password: password}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/logout", nil, nil, http.StatusNoContent)
}

func (c *Client) Me(ctx context.Context) (*AccountResponse, error) {
	var out AccountResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/me", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req ProfileUpdateRequest) (*AccountResponse, error) {
	var out AccountResponse
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/me", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfilePhoto replaces the profile photo.
func (c *Client) UpdateProfilePhoto(ctx context.Context, photo Photo) (*AccountResponse, error) {
	body, contentType, err := multipartBody(nil, &photo)
	if err != nil {
		return nil, err
	}
	resp, err := c.doRequest(ctx, http.MethodPatch, "/v1/me", body, contentType)
	if err != nil {
		return nil, err
	}

	var out AccountResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestPasswordReset issues the form token needed by ResetPassword.
func (c *Client) RequestPasswordReset(ctx context.Context) (*FormTokenResponse, error) {
	var out FormTokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/password/reset/request", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResetPassword(ctx context.Context, req PasswordResetRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/password/reset", req, nil, http.StatusNoContent)
}

// ============================================================================
// Social graph
// ============================================================================

func (c *Client) Contacts(ctx context.Context) (*ContactsResponse, error) {
	var out ContactsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/contacts", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddContact(ctx context.Context, username string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/contacts/"+url.PathEscape(username), nil, nil, http.StatusNoContent)
}

func (c *Client) RemoveContact(ctx context.Context, username string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/contacts/"+url.PathEscape(username), nil, nil, http.StatusNoContent)
}

func (c *Client) Block(ctx context.Context, username string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/blocked/"+url.PathEscape(username), nil, nil, http.StatusNoContent)
}

func (c *Client) Unblock(ctx context.Context, username string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/blocked/"+url.PathEscape(username), nil, nil, http.StatusNoContent)
}

// Matches lists partners fluent in languages. Empty languages means the
// caller's own learning set; limit 0 means the server default.
func (c *Client) Matches(ctx context.Context, languages []string, limit int) (*MatchesResponse, error) {
	q := url.Values{}
	if len(languages) > 0 {
		q.Set("languages", strings.Join(languages, ","))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	path := "/v1/matches"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out MatchesResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Users(ctx context.Context, usernames []string) (*UsersResponse, error) {
	q := url.Values{"usernames": {strings.Join(usernames, ",")}}

	var out UsersResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/users?"+q.Encode(), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Messaging
// ============================================================================

func (c *Client) SendMessage(ctx context.Context, to, text string) (*MessageResponse, error) {
	var out MessageResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/messages/"+url.PathEscape(to), SendMessageRequest{Message: text}, &out, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Conversation(ctx context.Context, with string) (*ConversationResponse, error) {
	var out ConversationResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/messages/"+url.PathEscape(with), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Badges
// ============================================================================

func (c *Client) Badges(ctx context.Context) (*BadgesResponse, error) {
	var out BadgesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/badges", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AssignBadges(ctx context.Context) (*AssignBadgesResponse, error) {
	var out AssignBadgesResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/badges/assign", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Health
// ============================================================================

func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
