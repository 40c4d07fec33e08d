package hub

// CreateHubRequest represents the request to create a hub
type CreateHubRequest struct {
	Name        string                 `json:"name" validate:"required,min=3,max=255"`
	Description *string                `json:"description,omitempty"`
	Settings    map[string]interface{} `json:"settings,omitempty"`
}

// UpdateHubRequest represents the request to update a hub
type UpdateHubRequest struct {
	Name        *string                `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	Description *string                `json:"description,omitempty"`
	Settings    map[string]interface{} `json:"settings,omitempty"`
}

// ListHubsRequest represents query parameters for listing hubs
type ListHubsRequest struct {
	Status    *string `query:"status" validate:"omitempty,oneof=active archived"`
	Search    string  `query:"search"`
	Page      int     `query:"page" validate:"min=0"`
	PageSize  int     `query:"page_size" validate:"min=0,max=100"`
	SortBy    string  `query:"sort_by" validate:"omitempty,oneof=created_at name member_count"`
	SortOrder string  `query:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// JoinHubRequest represents the request to join a hub by invite slug
type JoinHubRequest struct {
	Slug string `json:"slug" validate:"required,min=1,max=100"`
}
