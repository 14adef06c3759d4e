package types

// Event Type values
const (
	EventMeeting   = "Meeting"
	EventAdventure = "Adventure"
	EventWorkshop  = "Workshop"
	EventCharity   = "Charity"
	EventSocial    = "Social"
	EventOther     = "Other"
)

// Contact message status values
const (
	ContactNew      = "new"
	ContactRead     = "read"
	ContactArchived = "archived"
)

// Year of study values offered on the membership form
const (
	Year1        = "1st Year"
	Year2        = "2nd Year"
	Year3        = "3rd Year"
	Year4        = "4th Year"
	YearGraduate = "Graduate"
	YearPostgrad = "Postgraduate"
)

var ValidEventTypes = []string{
	EventMeeting, EventAdventure, EventWorkshop,
	EventCharity, EventSocial, EventOther,
}

var ValidContactStatuses = []string{
	ContactNew, ContactRead, ContactArchived,
}

var ValidYearsOfStudy = []string{
	Year1, Year2, Year3, Year4, YearGraduate, YearPostgrad,
}

// Helper functions for validation
func IsValidEventType(eventType string) bool {
	return contains(ValidEventTypes, eventType)
}

func IsValidContactStatus(status string) bool {
	return contains(ValidContactStatuses, status)
}

func IsValidYearOfStudy(year string) bool {
	return contains(ValidYearsOfStudy, year)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
