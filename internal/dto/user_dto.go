package dto

import "github.com/google/uuid"

type UpdateProfileRequest struct {
	DisplayName         *string `json:"display_name,omitempty"`
	OnboardingCompleted *bool   `json:"onboarding_completed,omitempty"`
}

type FavoriteRequest struct {
	PlaceID string `json:"place_id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type FriendRequest struct {
	FriendID uuid.UUID `json:"friend_id"`
}

type FriendResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
}
