package entity

import "time"

type User struct {
	ID       string `json:"id" firestore:"id"`
	Email    string `json:"email" firestore:"email"`
	Username string `json:"username" firestore:"username"`
	Bio      string `json:"bio,omitempty" firestore:"bio,omitempty"`
	Role     string `json:"role" firestore:"role"`     // "user", "admin"
	Status   string `json:"status" firestore:"status"` // "pending", "approved", "suspended"

	Following []string `json:"following" firestore:"following"`

	AvatarURL string    `json:"avatar_url,omitempty" firestore:"avatarURL,omitempty"`
	LastSeen  time.Time `json:"last_seen" firestore:"lastSeen"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

func (u *User) IsFollowing(userID string) bool {
	for _, id := range u.Following {
		if id == userID {
			return true
		}
	}
	return false
}
