package dto

import "socialhub/internal/http-api/models"

// UserInfo is the hydrated participant shape embedded in message,
// conversation and notification responses.
type UserInfo struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// ToUserInfo combines a user row with its optional profile row. A nil user
// yields a nil info so callers can drop unresolvable participants.
func ToUserInfo(user *models.User, profile *models.Profile) *UserInfo {
	if user == nil {
		return nil
	}
	info := &UserInfo{
		ID:       user.ID,
		Username: user.Username,
	}
	if profile != nil {
		info.DisplayName = profile.DisplayName
		info.AvatarURL = profile.AvatarURL
	}
	return info
}
