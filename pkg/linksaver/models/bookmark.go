package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// TagList stores a bookmark's tags as a JSON-encoded TEXT column.
// SQLite has no array type, so the slice round-trips through JSON.
type TagList []string

// Value implements driver.Valuer.
func (t TagList) Value() (driver.Value, error) {
	if len(t) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *TagList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = TagList{}
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("cannot scan tag list from %T", value)
	}
}

// Bookmark represents one saved link owned by exactly one user.
// Position is a user-scoped zero-based rank: at all times the positions
// of one user's bookmarks form the dense set {0, 1, ..., count-1}.
type Bookmark struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	URL       string         `gorm:"not null" json:"url"`
	Title     string         `json:"title"`
	Favicon   string         `json:"favicon"`
	Summary   string         `json:"summary"`
	Tags      TagList        `gorm:"type:text" json:"tags"`
	Position  int            `gorm:"not null;index" json:"position"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}
