package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ekusa/ekusa-backend/internal/identity"
)

// Deps are the collaborators a Flow talks to.
type Deps struct {
	Members       MembershipLookup
	Interests     InterestStore
	Registrations RegistrationStore
	Cache         identity.Cache

	// ApplicationURL is where visitors are sent to apply for membership.
	ApplicationURL string
}

// Flow is one visitor's wizard for one event.
//
// The mutex guards local state only; remote calls run without it. At most one
// submit sequence is in flight at a time (busy). Every reset bumps generation,
// and a sequence that finishes under a different generation is discarded.
type Flow struct {
	mu    sync.Mutex
	event Event
	deps  Deps

	state        State
	open         bool
	busy         bool
	generation   uint64
	cached       *identity.Identity
	check        CheckForm
	registration RegistrationForm
}

func New(event Event, deps Deps) *Flow {
	return &Flow{
		event: event,
		deps:  deps,
		state: StateCheck,
	}
}

func (f *Flow) Event() Event {
	return f.event
}

// Open shows the dialog and loads the cached identity, if any. A cache that
// cannot be read is treated as empty.
func (f *Flow) Open(ctx context.Context) View {
	cached, err := f.deps.Cache.Read(ctx)
	if err != nil {
		log.Printf("[Workflow] Identity cache unavailable for event %s: %v", f.event.ID, err)
		cached = nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = true
	if !f.busy {
		f.cached = cached
	}
	return f.viewLocked()
}

func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewLocked()
}

func (f *Flow) viewLocked() View {
	v := View{
		EventID:          f.event.ID,
		EventTitle:       f.event.Title,
		State:            f.state,
		Open:             f.open,
		Busy:             f.busy,
		CheckForm:        f.check,
		RegistrationForm: f.registration,
	}
	if f.cached != nil {
		v.CachedMember = &Member{ID: f.cached.ID, Name: f.cached.Name}
	}
	return v
}

func (f *Flow) SetCheckForm(form CheckForm) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return ErrBusy
	}
	if f.state != StateCheck {
		return ErrInvalidTransition
	}
	f.check = form
	return nil
}

func (f *Flow) SetRegistrationForm(form RegistrationForm) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return ErrBusy
	}
	if f.state != StateNewRegistration {
		return ErrInvalidTransition
	}
	f.registration = form
	return nil
}

// SubmitCheck runs verify/lookup, existence check and insert for the current
// check form or cached identity.
func (f *Flow) SubmitCheck(ctx context.Context) (*Outcome, error) {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	if f.state != StateCheck {
		f.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	cached := f.cached
	form := CheckForm{
		Email:              strings.TrimSpace(f.check.Email),
		RegistrationNumber: strings.TrimSpace(f.check.RegistrationNumber),
	}
	if cached == nil && (form.Email == "" || form.RegistrationNumber == "") {
		f.mu.Unlock()
		return nil, ErrMissingFields
	}
	f.busy = true
	gen := f.generation
	f.mu.Unlock()

	outcome, err := f.runCheck(ctx, cached, form)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	if errors.Is(err, ErrStaleCache) {
		f.cached = nil
	}
	if gen != f.generation {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}

	if outcome.Kind == OutcomeMemberNotFound {
		f.state = StateOfferRegistration
	} else {
		f.resetLocked()
	}
	return outcome, nil
}

func (f *Flow) runCheck(ctx context.Context, cached *identity.Identity, form CheckForm) (*Outcome, error) {
	var member *Member

	if cached != nil {
		found, err := f.deps.Members.FindMemberByID(ctx, cached.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCheckFailed, err)
		}
		if found == nil {
			if err := f.deps.Cache.Delete(ctx); err != nil {
				log.Printf("[Workflow] Failed to clear stale identity %s: %v", cached.ID, err)
			}
			return nil, ErrStaleCache
		}
		member = found
	} else {
		found, err := f.deps.Members.FindMemberByEmailOrRegistrationNumber(ctx, form.Email, form.RegistrationNumber)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCheckFailed, err)
		}
		if found == nil {
			return &Outcome{Kind: OutcomeMemberNotFound, Notice: memberNotFoundNotice()}, nil
		}
		member = found
	}

	exists, err := f.deps.Interests.InterestExists(ctx, member.ID, f.event.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInterestRecordingFailed, err)
	}
	if exists {
		return &Outcome{Kind: OutcomeAlreadyInterested, Member: member, Notice: alreadyInterestedNotice(member, f.event)}, nil
	}

	created, err := f.deps.Interests.AddInterest(ctx, member.ID, f.event.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInterestRecordingFailed, err)
	}
	if !created {
		// Lost a race with another client between the check and the insert.
		return &Outcome{Kind: OutcomeAlreadyInterested, Member: member, Notice: alreadyInterestedNotice(member, f.event)}, nil
	}

	return &Outcome{Kind: OutcomeInterestRecorded, Member: member, Notice: interestRecordedNotice(member, f.event)}, nil
}

func (f *Flow) ChooseNewRegistration() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return ErrBusy
	}
	if f.state != StateOfferRegistration {
		return ErrInvalidTransition
	}
	f.state = StateNewRegistration
	return nil
}

// ApplyForMembership leaves the workflow for the external application page.
func (f *Flow) ApplyForMembership() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateOfferRegistration {
		return "", ErrInvalidTransition
	}
	return f.deps.ApplicationURL, nil
}

func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return ErrBusy
	}
	if f.state != StateNewRegistration {
		return ErrInvalidTransition
	}
	f.state = StateOfferRegistration
	return nil
}

func (f *Flow) SubmitRegistration(ctx context.Context) (*Outcome, error) {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	if f.state != StateNewRegistration {
		f.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	reg := &Registration{
		EventID:            f.event.ID,
		Name:               strings.TrimSpace(f.registration.Name),
		Course:             strings.TrimSpace(f.registration.Course),
		RegistrationNumber: strings.TrimSpace(f.registration.RegistrationNumber),
		PhoneNumber:        strings.TrimSpace(f.registration.PhoneNumber),
	}
	if reg.Name == "" || reg.Course == "" || reg.RegistrationNumber == "" || reg.PhoneNumber == "" {
		f.mu.Unlock()
		return nil, ErrMissingFields
	}
	f.busy = true
	gen := f.generation
	f.mu.Unlock()

	err := f.deps.Registrations.CreateRegistration(ctx, reg)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	if gen != f.generation {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}

	f.resetLocked()
	return &Outcome{Kind: OutcomeRegistered, Registration: reg, Notice: registeredNotice(f.event)}, nil
}

// Close dismisses the dialog from any state. The cached identity is kept.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
}

func (f *Flow) resetLocked() {
	f.state = StateCheck
	f.open = false
	f.check = CheckForm{}
	f.registration = RegistrationForm{}
	f.generation++
}
