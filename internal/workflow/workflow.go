// Package workflow implements the membership-aware event interest wizard.
//
// A Flow belongs to one visitor and one event. It moves between three states:
//
//	check -> offer_registration -> new_registration
//
// and lets an existing member record interest in one step, or anyone fill in a
// full event registration. All persistence goes through the interfaces below.
package workflow

import (
	"context"
	"errors"
	"time"
)

type State string

const (
	StateCheck             State = "check"
	StateOfferRegistration State = "offer_registration"
	StateNewRegistration   State = "new_registration"
)

var (
	ErrStaleCache              = errors.New("cached membership no longer exists")
	ErrCheckFailed             = errors.New("membership check failed")
	ErrInterestRecordingFailed = errors.New("failed to record event interest")
	ErrRegistrationFailed      = errors.New("event registration failed")

	ErrMissingFields     = errors.New("required fields are missing")
	ErrInvalidTransition = errors.New("action not allowed in current state")
	ErrBusy              = errors.New("another request is in progress")
	ErrSuperseded        = errors.New("result discarded after the dialog was reset")
)

// Event is the externally defined event the flow is bound to.
type Event struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Member is the minimal membership record returned by lookups.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CheckForm struct {
	Email              string `json:"email"`
	RegistrationNumber string `json:"registration_number"`
}

type RegistrationForm struct {
	Name               string `json:"name"`
	Course             string `json:"course"`
	RegistrationNumber string `json:"registration_number"`
	PhoneNumber        string `json:"phone_number"`
}

// Registration is what gets persisted by the fallback registration path.
type Registration struct {
	ID                 string
	EventID            string
	Name               string
	Course             string
	RegistrationNumber string
	PhoneNumber        string
	CreatedAt          time.Time
}

// MembershipLookup returns (nil, nil) when no membership matches.
type MembershipLookup interface {
	FindMemberByID(ctx context.Context, id string) (*Member, error)
	FindMemberByEmailOrRegistrationNumber(ctx context.Context, email, registrationNumber string) (*Member, error)
}

type InterestStore interface {
	InterestExists(ctx context.Context, memberID, eventID string) (bool, error)
	// AddInterest inserts the (member, event) pair unless it already exists and
	// reports whether a new record was created.
	AddInterest(ctx context.Context, memberID, eventID string) (bool, error)
}

type RegistrationStore interface {
	CreateRegistration(ctx context.Context, registration *Registration) error
}

type OutcomeKind string

const (
	OutcomeInterestRecorded  OutcomeKind = "interest_recorded"
	OutcomeAlreadyInterested OutcomeKind = "already_interested"
	OutcomeMemberNotFound    OutcomeKind = "member_not_found"
	OutcomeRegistered        OutcomeKind = "registered"
)

// Outcome is the successful result of a submit.
type Outcome struct {
	Kind         OutcomeKind   `json:"kind"`
	Member       *Member       `json:"member,omitempty"`
	Registration *Registration `json:"-"`
	Notice       Notice        `json:"notice"`
}

// Closed reports whether the outcome ends the interaction.
func (o *Outcome) Closed() bool {
	return o.Kind != OutcomeMemberNotFound
}

// View is a snapshot of a flow for rendering.
type View struct {
	EventID          string           `json:"event_id"`
	EventTitle       string           `json:"event_title"`
	State            State            `json:"state"`
	Open             bool             `json:"open"`
	Busy             bool             `json:"busy"`
	CachedMember     *Member          `json:"cached_member,omitempty"`
	CheckForm        CheckForm        `json:"check_form"`
	RegistrationForm RegistrationForm `json:"registration_form"`
}
