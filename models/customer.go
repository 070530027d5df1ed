package models

// Customer links a user to the ordering side. Customers are not restaurant-scoped.
type Customer struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Phone  string `gorm:"type:varchar(255)" json:"phone"`
}
