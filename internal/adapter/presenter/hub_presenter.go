package presenter

import (
	"encoding/json"

	hubDTO "github.com/classhub-team/classhub/internal/adapter/dto/hub"
	"github.com/classhub-team/classhub/internal/domain/entities"
)

// ToHubResponse converts a Hub entity to HubResponse DTO
func ToHubResponse(h *entities.Hub) *hubDTO.HubResponse {
	if h == nil {
		return nil
	}

	var settings map[string]interface{}
	if h.Settings != nil {
		json.Unmarshal(h.Settings, &settings)
	}

	response := &hubDTO.HubResponse{
		ID:              h.ID.String(),
		Name:            h.Name,
		Description:     h.Description,
		Slug:            h.Slug,
		TeacherID:       h.TeacherID.String(),
		Status:          string(h.Status),
		MemberCount:     h.MemberCount,
		Settings:        settings,
		IsStreaming:     h.IsStreaming(),
		StreamStartedAt: h.StreamStartedAt,
		CreatedAt:       h.CreatedAt,
		UpdatedAt:       h.UpdatedAt,
	}

	if h.Teacher != nil {
		response.Teacher = ToUserResponse(h.Teacher)
	}

	return response
}

// ToHubListResponse converts a slice of Hub entities to HubListResponse
func ToHubListResponse(hubs []*entities.Hub, total int64, page, pageSize int) *hubDTO.HubListResponse {
	hubResponses := make([]*hubDTO.HubResponse, len(hubs))
	for i, h := range hubs {
		hubResponses[i] = ToHubResponse(h)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return &hubDTO.HubListResponse{
		Hubs:       hubResponses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// ToMemberResponse converts a Membership entity to MemberResponse DTO
func ToMemberResponse(m *entities.Membership) *hubDTO.MemberResponse {
	if m == nil {
		return nil
	}

	response := &hubDTO.MemberResponse{
		ID:       m.ID.String(),
		HubID:    m.HubID.String(),
		UserID:   m.UserID.String(),
		Status:   string(m.Status),
		JoinedAt: m.JoinedAt,
	}

	if m.User != nil {
		response.User = ToUserResponse(m.User)
	}

	return response
}

// ToMemberListResponse converts a slice of Membership entities to
// MemberListResponse
func ToMemberListResponse(members []*entities.Membership) *hubDTO.MemberListResponse {
	memberResponses := make([]*hubDTO.MemberResponse, len(members))
	for i, m := range members {
		memberResponses[i] = ToMemberResponse(m)
	}

	return &hubDTO.MemberListResponse{
		Members: memberResponses,
		Total:   len(memberResponses),
	}
}
