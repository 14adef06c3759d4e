package socket

import "log"

// Broadcaster provides high-level methods for broadcasting activity to
// connected admin dashboards
type Broadcaster struct {
	hub *Hub
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// BroadcastMembershipCreated announces a new membership application
func (b *Broadcaster) BroadcastMembershipCreated(member map[string]interface{}) {
	b.hub.SendToRoom(RoomAdmin, MessageMembershipCreated, member)
}

// BroadcastInterestRecorded announces a member's interest to the admin room
// and to dashboards watching the event
func (b *Broadcaster) BroadcastInterestRecorded(eventID string, interest map[string]interface{}) {
	log.Printf("📡 BroadcastInterestRecorded: event=%s, member=%v", eventID, interest["memberId"])
	b.hub.SendToRoom(RoomAdmin, MessageInterestRecorded, interest)
	b.hub.SendToRoom(EventRoom(eventID), MessageInterestRecorded, interest)
}

// BroadcastRegistrationCreated announces a new event registration
func (b *Broadcaster) BroadcastRegistrationCreated(eventID string, registration map[string]interface{}) {
	log.Printf("📡 BroadcastRegistrationCreated: event=%s, id=%v", eventID, registration["id"])
	b.hub.SendToRoom(RoomAdmin, MessageRegistrationCreated, registration)
	b.hub.SendToRoom(EventRoom(eventID), MessageRegistrationCreated, registration)
}

// BroadcastContactReceived announces a new contact form message
func (b *Broadcaster) BroadcastContactReceived(contact map[string]interface{}) {
	b.hub.SendToRoom(RoomAdmin, MessageContactReceived, contact)
}
