package models

// Category is an ordered bucket (a "tier") within a tierlist. Order decides
// display position; it is neither unique nor contiguous.
type Category struct {
	ID         uint   `gorm:"primaryKey"`
	TierlistID uint   `gorm:"not null;index"`
	Name       string `gorm:"size:255;not null"`
	Order      int    `gorm:"column:order;not null"`

	Tierlist *Tierlist `gorm:"foreignKey:TierlistID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Category) TableName() string { return "categories" }

type CategoryView struct {
	ID         uint          `json:"id"`
	TierlistID uint          `json:"tierlist_id"`
	Name       string        `json:"name"`
	Order      int           `json:"order"`
	Elements   []ElementView `json:"elements"`
}

func (c Category) Serialize(elements []ElementView) CategoryView {
	if elements == nil {
		elements = []ElementView{}
	}
	return CategoryView{
		ID:         c.ID,
		TierlistID: c.TierlistID,
		Name:       c.Name,
		Order:      c.Order,
		Elements:   elements,
	}
}
