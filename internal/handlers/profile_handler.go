package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"hobbymatch-api/internal/cache"
	"hobbymatch-api/internal/database"
	"hobbymatch-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// UpdateProfileRequest represents the request payload for updating a profile
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
	City        *string `json:"city"`
	ImageURL    *string `json:"imageUrl"`
}

// ProfileCard is the public shape of a user profile in lists.
type ProfileCard struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	Bio         string   `json:"bio"`
	City        string   `json:"city"`
	ImageURL    string   `json:"imageUrl"`
	Hobbies     []string `json:"hobbies"`
}

func toProfileCard(u models.User) ProfileCard {
	return ProfileCard{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		City:        u.City,
		ImageURL:    u.ImageURL,
		Hobbies: lo.Map(u.Hobbies, func(h models.Hobby, _ int) string {
			return h.Name
		}),
	}
}

// discoverCache holds each user's candidate feed for a short while so
// repeated browsing does not re-run the exclusion query every time.
var discoverCache = cache.New[string, []ProfileCard](30 * time.Second)

/*
*
GetProfile handles GET /api/profile
Returns the authenticated user's own profile including hobbies.
*/
func GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var user models.User
	if err := database.GetDB().Preload("Hobbies").Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

/*
*
UpdateProfile handles PUT /api/profile
Partially updates the authenticated user's profile fields.
*/
func UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var user models.User
	if err := database.GetDB().Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.ImageURL != nil {
		user.ImageURL = *req.ImageURL
	}

	if err := database.GetDB().Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

/*
*
GetOnboardingStatus handles GET /api/profile/onboarding
Onboarding completeness is derived, never stored: a profile is complete when
it has a display name, a city and at least one hobby.
*/
func GetOnboardingStatus(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var user models.User
	if err := database.GetDB().Preload("Hobbies").Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	missing := []string{}
	if user.DisplayName == "" {
		missing = append(missing, "displayName")
	}
	if user.City == "" {
		missing = append(missing, "city")
	}
	if len(user.Hobbies) == 0 {
		missing = append(missing, "hobbies")
	}

	c.JSON(http.StatusOK, gin.H{
		"complete": len(missing) == 0,
		"missing":  missing,
	})
}

/*
*
GetHobbies handles GET /api/hobbies
Returns the selectable hobby list.
*/
func GetHobbies(c *gin.Context) {
	var hobbies []models.Hobby
	if err := database.GetDB().Order("name asc").Find(&hobbies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch hobbies"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"hobbies": hobbies,
		"count":   len(hobbies),
	})
}

// SetHobbiesRequest represents the hobby selection payload
type SetHobbiesRequest struct {
	HobbyIDs []string `json:"hobbyIds" binding:"required"`
}

/*
*
SetHobbies handles PUT /api/profile/hobbies
Replaces the authenticated user's hobby selection.
*/
func SetHobbies(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var req SetHobbiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hobbyIds is required"})
		return
	}

	var user models.User
	if err := database.GetDB().Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var hobbies []models.Hobby
	if len(req.HobbyIDs) > 0 {
		if err := database.GetDB().Where("id IN ?", req.HobbyIDs).Find(&hobbies).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch hobbies"})
			return
		}
		if len(hobbies) != len(req.HobbyIDs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "One or more hobby ids are unknown"})
			return
		}
	}

	if err := database.GetDB().Model(&user).Association("Hobbies").Replace(hobbies); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update hobbies"})
		return
	}

	user.Hobbies = hobbies
	c.JSON(http.StatusOK, user)
}

/*
*
Discover handles GET /api/discover
Returns browseable profiles for the authenticated user, excluding the user
itself and anyone already swiped on. The candidate list is cached per user
for a short TTL; pagination happens on the cached list.
Query params: page (default 1), limit (default 10).
*/
func Discover(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	cards, ok := discoverCache.Get(userID)
	if !ok {
		var users []models.User
		err := database.GetDB().Preload("Hobbies").
			Where("id <> ?", userID).
			Where("id NOT IN (?)", database.GetDB().Model(&models.Swipe{}).Select("target_id").Where("swiper_id = ?", userID)).
			Order("created_at desc").
			Limit(200).
			Find(&users).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profiles"})
			return
		}
		cards = lo.Map(users, func(u models.User, _ int) ProfileCard {
			return toProfileCard(u)
		})
		discoverCache.Set(userID, cards)
	}

	start := (page - 1) * limit
	if start > len(cards) {
		start = len(cards)
	}
	end := start + limit
	if end > len(cards) {
		end = len(cards)
	}

	c.JSON(http.StatusOK, gin.H{
		"profiles": cards[start:end],
		"count":    end - start,
		"total":    len(cards),
		"page":     page,
		"limit":    limit,
	})
}
