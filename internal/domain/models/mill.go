package models

import "time"

// Worker is a mill employee who operates looms and is paid per meter.
type Worker struct {
	ID        string    `bson:"_id" json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name      string    `bson:"name" json:"name" gorm:"size:255;not null;index"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty" gorm:"size:64"`
	IsActive  bool      `bson:"is_active" json:"is_active" gorm:"default:true;not null"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Shed is a physical hall grouping a set of looms, e.g. "A".
type Shed struct {
	ID        string    `bson:"_id" json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name      string    `bson:"name" json:"name" gorm:"size:64;not null;index"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	// Looms is only populated by hierarchy reads.
	Looms []Loom `bson:"-" json:"-" gorm:"foreignKey:ShedID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Loom is a weaving machine identified within its shed by LoomNumber.
type Loom struct {
	ID         string    `bson:"_id" json:"id" gorm:"primaryKey;type:varchar(64)"`
	ShedID     string    `bson:"shed_id" json:"shed_id" gorm:"type:varchar(64);not null;index"`
	LoomNumber string    `bson:"loom_number" json:"loom_number" gorm:"size:32;not null"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// LoomNode is the loom entry of the shed hierarchy view.
type LoomNode struct {
	ID         string `json:"id"`
	LoomNumber string `json:"loom_number"`
}

// ShedNode is one shed of the shed -> loom hierarchy.
type ShedNode struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Looms []LoomNode `json:"looms"`
}
