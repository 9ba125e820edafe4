package tandemsdk

import "time"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// ============================================================================
// Accounts
// ============================================================================

// RegisterRequest is accepted as JSON or as multipart form fields (with an
// optional profilePhoto file part).
type RegisterRequest struct {
	Username          string   `json:"username"`
	Email             string   `json:"email"`
	Password          string   `json:"password"`
	ConfirmPassword   string   `json:"confirmPassword,omitempty"`
	LanguagesFluent   []string `json:"languagesFluent,omitempty"`
	LanguagesLearning []string `json:"languagesLearning,omitempty"`
}

type RegisterResponse struct {
	Username string `json:"username"`
	Verified bool   `json:"verified"`
	// VerificationLink is only returned when the server is configured to
	// expose it (development and tests).
	VerificationLink string `json:"verificationLink,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserProfile is the public view of a user.
type UserProfile struct {
	Username          string   `json:"username"`
	ProfilePhotoURL   string   `json:"profilePhotoUrl,omitempty"`
	LanguagesFluent   []string `json:"languagesFluent"`
	LanguagesLearning []string `json:"languagesLearning"`
	Badges            []string `json:"badges"`
}

// AccountResponse is the owner's view of their own account.
type AccountResponse struct {
	UserProfile

	Email        string    `json:"email"`
	ProfilePhoto string    `json:"profilePhoto,omitempty"`
	Verified     bool      `json:"verified"`
	UserType     string    `json:"userType"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProfileUpdateRequest is a partial update. Omitted fields are unchanged;
// an empty list clears a language set.
type ProfileUpdateRequest struct {
	Email             *string   `json:"email,omitempty"`
	LanguagesFluent   *[]string `json:"languagesFluent,omitempty"`
	LanguagesLearning *[]string `json:"languagesLearning,omitempty"`
}

// FormTokenResponse carries a one-time code that must be echoed back with
// the follow-up request.
type FormTokenResponse struct {
	FormToken string    `json:"formToken"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type PasswordResetRequest struct {
	FormToken       string `json:"formToken"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

// ============================================================================
// Social graph
// ============================================================================

type ContactsResponse struct {
	Contacts []string `json:"contacts"`
	Blocked  []string `json:"blocked"`
}

type MatchesResponse struct {
	Users []UserProfile `json:"users"`
}

// UsersResponse keeps the requested order; unknown usernames are null.
type UsersResponse struct {
	Users []*UserProfile `json:"users"`
}

// ============================================================================
// Messaging
// ============================================================================

type SendMessageRequest struct {
	Message string `json:"message"`
}

type MessageResponse struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type ConversationResponse struct {
	Messages []MessageResponse `json:"messages"`
}

// ============================================================================
// Badges
// ============================================================================

type BadgeCriteria struct {
	Kind      string `json:"kind"`
	Threshold int    `json:"threshold,omitempty"`
}

type BadgeResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Criteria    BadgeCriteria `json:"criteria"`
	Earned      bool          `json:"earned"`
}

type BadgesResponse struct {
	Badges []BadgeResponse `json:"badges"`
}

type AssignBadgesResponse struct {
	Badges []string `json:"badges"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}
