package models

// User owns zero or more tierlists. Email is unique across users.
type User struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"size:255;not null"`
	Email string `gorm:"size:255;not null;uniqueIndex"`
}

func (User) TableName() string { return "users" }

type UserView struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Tierlists []TierlistView `json:"tierlists"`
}

// Serialize returns the JSON view of u with its already serialized tierlists.
func (u User) Serialize(tierlists []TierlistView) UserView {
	if tierlists == nil {
		tierlists = []TierlistView{}
	}
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Tierlists: tierlists,
	}
}
