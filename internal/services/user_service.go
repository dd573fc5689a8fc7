package services

import (
	"errors"
	"fmt"

	"github.com/forkcast/forkcast-backend/internal/dto"
	"github.com/forkcast/forkcast-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAlreadyFriends   = errors.New("already friends")
	ErrAlreadyFavorited = errors.New("place already favorited")
	ErrNotFound         = errors.New("record not found")
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Profile(userID uuid.UUID) (*dto.UserResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &dto.UserResponse{
		ID:                  user.ID,
		Email:               user.Email,
		DisplayName:         user.DisplayName,
		EmailVerified:       user.EmailVerified,
		OnboardingCompleted: user.OnboardingCompleted,
	}, nil
}

// UpdateProfile applies only the fields present in the request. The
// onboarding flag replaces the app's old on-device key-value store.
func (s *UserService) UpdateProfile(userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.OnboardingCompleted != nil {
		updates["onboarding_completed"] = *req.OnboardingCompleted
	}
	if len(updates) > 0 {
		if err := s.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}
	return s.Profile(userID)
}

func (s *UserService) AddFavorite(userID uuid.UUID, req *dto.FavoriteRequest) (*models.Favorite, error) {
	if req.PlaceID == "" {
		return nil, errors.New("place_id is required")
	}

	var existing models.Favorite
	if err := s.db.Where("user_id = ? AND place_id = ?", userID, req.PlaceID).First(&existing).Error; err == nil {
		return nil, ErrAlreadyFavorited
	}

	fav := models.Favorite{
		ID:      uuid.New(),
		UserID:  userID,
		PlaceID: req.PlaceID,
		Name:    req.Name,
		Address: req.Address,
	}
	if err := s.db.Create(&fav).Error; err != nil {
		return nil, fmt.Errorf("failed to save favorite: %w", err)
	}
	return &fav, nil
}

func (s *UserService) RemoveFavorite(userID uuid.UUID, placeID string) error {
	result := s.db.Where("user_id = ? AND place_id = ?", userID, placeID).Delete(&models.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserService) ListFavorites(userID uuid.UUID, limit, offset int) ([]models.Favorite, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var favorites []models.Favorite
	var total int64

	s.db.Model(&models.Favorite{}).Where("user_id = ?", userID).Count(&total)
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&favorites).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch favorites: %w", err)
	}
	return favorites, total, nil
}

func (s *UserService) AddFriend(userID, friendID uuid.UUID) error {
	if userID == friendID {
		return errors.New("cannot befriend yourself")
	}

	var target models.User
	if err := s.db.First(&target, "id = ?", friendID).Error; err != nil {
		return ErrUserNotFound
	}

	var existing models.Friend
	if err := s.db.Where("user_id = ? AND friend_id = ?", userID, friendID).First(&existing).Error; err == nil {
		return ErrAlreadyFriends
	}

	link := models.Friend{ID: uuid.New(), UserID: userID, FriendID: friendID}
	if err := s.db.Create(&link).Error; err != nil {
		return fmt.Errorf("failed to add friend: %w", err)
	}
	return nil
}

func (s *UserService) RemoveFriend(userID, friendID uuid.UUID) error {
	result := s.db.Where("user_id = ? AND friend_id = ?", userID, friendID).Delete(&models.Friend{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserService) ListFriends(userID uuid.UUID) ([]dto.FriendResponse, error) {
	var links []models.Friend
	if err := s.db.Where("user_id = ?", userID).Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch friends: %w", err)
	}
	if len(links) == 0 {
		return []dto.FriendResponse{}, nil
	}

	ids := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.FriendID)
	}

	var users []models.User
	if err := s.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch friend profiles: %w", err)
	}

	out := make([]dto.FriendResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.FriendResponse{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName})
	}
	return out, nil
}
