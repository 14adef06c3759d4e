package workflow

import (
	"errors"
	"fmt"
)

const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Notice is the dismissible message shown to the visitor.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}

func interestRecordedNotice(member *Member, event Event) Notice {
	return Notice{
		Title:       "Interest Recorded!",
		Description: fmt.Sprintf("Thanks %s, we have noted your interest in %s.", member.Name, event.Title),
		Variant:     VariantDefault,
	}
}

func alreadyInterestedNotice(member *Member, event Event) Notice {
	return Notice{
		Title:       "Already Interested",
		Description: fmt.Sprintf("%s, you have already shown interest in %s.", member.Name, event.Title),
		Variant:     VariantDefault,
	}
}

func memberNotFoundNotice() Notice {
	return Notice{
		Title:       "Membership Not Found",
		Description: "We could not find a membership with those details. You can join EKUSA or register for this event directly.",
		Variant:     VariantDefault,
	}
}

func registeredNotice(event Event) Notice {
	return Notice{
		Title:       "Registration Successful!",
		Description: fmt.Sprintf("You have been registered for %s", event.Title),
		Variant:     VariantDefault,
	}
}

// NoticeFor maps a workflow error to the message shown to the visitor.
func NoticeFor(err error) Notice {
	n := Notice{Variant: VariantDestructive}
	switch {
	case errors.Is(err, ErrStaleCache):
		n.Title = "Membership Check Failed"
		n.Description = "Your saved membership could not be found. Please enter your email and registration number and try again."
	case errors.Is(err, ErrCheckFailed):
		n.Title = "Membership Check Failed"
		n.Description = "We could not check your membership right now. Please try again."
	case errors.Is(err, ErrInterestRecordingFailed):
		n.Title = "Could Not Record Interest"
		n.Description = "There was an error recording your interest. Please try again."
	case errors.Is(err, ErrRegistrationFailed):
		n.Title = "Registration Failed"
		n.Description = "There was an error submitting your registration. Please try again."
	case errors.Is(err, ErrMissingFields):
		n.Title = "Missing Details"
		n.Description = "Please fill in all required fields."
	case errors.Is(err, ErrBusy):
		n.Title = "Please Wait"
		n.Description = "Your previous request is still being processed."
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrSuperseded):
		n.Title = "Action Unavailable"
		n.Description = "This action is no longer available. Please start again."
	default:
		n.Title = "Error"
		n.Description = "Something went wrong. Please try again."
	}
	return n
}
