package models

import "time"

// ============================================
// Auth DTOs
// ============================================

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthResponse struct {
	Admin        AdminResponse `json:"admin"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AdminResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// ============================================
// Membership DTOs
// ============================================

type MembershipRequest struct {
	Name               string `json:"name" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	Course             string `json:"course" binding:"required"`
	RegistrationNumber string `json:"registration_number" binding:"required"`
	PhoneNumber        string `json:"phone_number" binding:"required"`
	YearOfStudy        string `json:"year_of_study"`
	ReasonForJoining   string `json:"reason_for_joining"`
}

type MembershipResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Course             string    `json:"course"`
	RegistrationNumber string    `json:"registration_number"`
	PhoneNumber        string    `json:"phone_number"`
	YearOfStudy        *string   `json:"year_of_study,omitempty"`
	ReasonForJoining   *string   `json:"reason_for_joining,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// CurrentMemberResponse is what the browser gets back for its cached identity.
type CurrentMemberResponse struct {
	Member *IdentityResponse `json:"member"`
}

type IdentityResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	RegistrationNumber string    `json:"registration_number"`
	RegisteredAt       time.Time `json:"registered_at"`
	Greeting           string    `json:"greeting"`
}

type InterestResponse struct {
	ID          string    `json:"id"`
	MemberID    string    `json:"member_id"`
	EventID     string    `json:"event_id"`
	EventTitle  string    `json:"event_title"`
	EventDate   time.Time `json:"event_date"`
	MemberName  string    `json:"member_name"`
	MemberEmail string    `json:"member_email"`
	CreatedAt   time.Time `json:"created_at"`
}

type RegistrationResponse struct {
	ID                 string    `json:"id"`
	EventID            string    `json:"event_id"`
	Name               string    `json:"name"`
	Course             string    `json:"course"`
	RegistrationNumber string    `json:"registration_number"`
	PhoneNumber        string    `json:"phone_number"`
	CreatedAt          time.Time `json:"created_at"`
}

// ============================================
// Interest Workflow DTOs
// ============================================

// Bodies are optional on submit routes; absent fields keep what was already
// entered in the dialog.
type CheckFormRequest struct {
	Email              string `json:"email"`
	RegistrationNumber string `json:"registration_number"`
}

type RegistrationFormRequest struct {
	Name               string `json:"name"`
	Course             string `json:"course"`
	RegistrationNumber string `json:"registration_number"`
	PhoneNumber        string `json:"phone_number"`
}

// ============================================
// Event DTOs
// ============================================

type EventRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	EventDate   string `json:"event_date" binding:"required"`
	EventTime   string `json:"event_time"`
	Location    string `json:"location"`
	EventType   string `json:"event_type"`
	ImageURL    string `json:"image_url"`
	Highlight   string `json:"highlight"`
}

type EventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   string    `json:"event_date"`
	EventTime   string    `json:"event_time"`
	Location    string    `json:"location"`
	EventType   string    `json:"event_type"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Highlight   *string   `json:"highlight,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ============================================
// News DTOs
// ============================================

type NewsRequest struct {
	Title       string     `json:"title" binding:"required"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content" binding:"required"`
	Author      string     `json:"author"`
	Category    string     `json:"category"`
	ImageURL    string     `json:"image_url"`
	Featured    bool       `json:"featured"`
	PublishedAt *time.Time `json:"published_at"`
}

type NewsResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Featured    bool      `json:"featured"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ============================================
// Contact DTOs
// ============================================

type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type ContactStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ContactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
