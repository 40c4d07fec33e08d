package stream

import "time"

// StreamResponse represents livestream state for a hub
type StreamResponse struct {
	HubID           string     `json:"hub_id"`
	RoomName        string     `json:"room_name,omitempty"`
	IsStreaming     bool       `json:"is_streaming"`
	IsRecording     bool       `json:"is_recording"`
	StreamStartedAt *time.Time `json:"stream_started_at,omitempty"`
	StreamEndedAt   *time.Time `json:"stream_ended_at,omitempty"`
}

// JoinStreamResponse represents the credentials to join a livestream
type JoinStreamResponse struct {
	Token      string `json:"token"`
	RoomName   string `json:"room_name"`
	LivekitURL string `json:"livekit_url"`
	CanPublish bool   `json:"can_publish"`
}

// ParticipantResponse represents a livestream participant
type ParticipantResponse struct {
	Identity string    `json:"identity"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
}

// ParticipantListResponse represents the participants of a livestream
type ParticipantListResponse struct {
	Participants []*ParticipantResponse `json:"participants"`
	Total        int                    `json:"total"`
}
