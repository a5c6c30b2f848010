package models

type Tierlist struct {
	ID          uint    `gorm:"primaryKey"`
	Title       string  `gorm:"size:255;not null"`
	Description *string `gorm:"type:text"`
	CreatedBy   uint    `gorm:"not null;index"`

	// Creator only exists so AutoMigrate emits the foreign key; it is never loaded.
	Creator *User `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Tierlist) TableName() string { return "tierlists" }

type TierlistView struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	CreatedBy   uint           `json:"created_by"`
	Categories  []CategoryView `json:"categories"`
}

func (t Tierlist) Serialize(categories []CategoryView) TierlistView {
	if categories == nil {
		categories = []CategoryView{}
	}
	return TierlistView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		CreatedBy:   t.CreatedBy,
		Categories:  categories,
	}
}
