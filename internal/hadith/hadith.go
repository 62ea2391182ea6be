package hadith

import (
	"time"

	"github.com/google/uuid"
)

// Hadith is a static entry from the bundled reference collection.
type Hadith struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Collection string    `json:"collection" db:"collection"` // "bukhari", "muslim", ...
	Reference  string    `json:"reference" db:"reference"`
	Narrator   string    `json:"narrator" db:"narrator"`
	TextEn     string    `json:"text_en" db:"text_en"`
	TextAr     string    `json:"text_ar" db:"text_ar"`
}

// Favorite links a user to a hadith, keyed (user_id, hadith_id); adding twice
// is a no-op, the second toggle removes it.
type Favorite struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	HadithID  uuid.UUID `json:"hadith_id" db:"hadith_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
