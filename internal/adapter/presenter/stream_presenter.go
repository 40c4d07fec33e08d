package presenter

import (
	streamDTO "github.com/classhub-team/classhub/internal/adapter/dto/stream"
	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/classhub-team/classhub/internal/infrastructure/external/livekit"
	"github.com/classhub-team/classhub/internal/usecase/stream"
)

// ToStreamResponse converts a hub's livestream state to StreamResponse
func ToStreamResponse(h *entities.Hub) *streamDTO.StreamResponse {
	if h == nil {
		return nil
	}

	response := &streamDTO.StreamResponse{
		HubID:           h.ID.String(),
		IsStreaming:     h.IsStreaming(),
		IsRecording:     h.EgressID != nil,
		StreamStartedAt: h.StreamStartedAt,
		StreamEndedAt:   h.StreamEndedAt,
	}
	if h.StreamRoomName != nil {
		response.RoomName = *h.StreamRoomName
	}

	return response
}

// ToJoinStreamResponse converts a usecase JoinToken to JoinStreamResponse
func ToJoinStreamResponse(token *stream.JoinToken, livekitURL string) *streamDTO.JoinStreamResponse {
	if token == nil {
		return nil
	}

	return &streamDTO.JoinStreamResponse{
		Token:      token.Token,
		RoomName:   token.RoomName,
		LivekitURL: livekitURL,
		CanPublish: token.CanPub,
	}
}

// ToParticipantListResponse converts LiveKit participants to
// ParticipantListResponse
func ToParticipantListResponse(participants []*livekit.ParticipantInfo) *streamDTO.ParticipantListResponse {
	participantResponses := make([]*streamDTO.ParticipantResponse, len(participants))
	for i, p := range participants {
		participantResponses[i] = &streamDTO.ParticipantResponse{
			Identity: p.Identity,
			Name:     p.Name,
			JoinedAt: p.JoinedAt,
		}
	}

	return &streamDTO.ParticipantListResponse{
		Participants: participantResponses,
		Total:        len(participantResponses),
	}
}
