package model

import "time"

// Exception represents a server-side failure that is persisted
// for auditing and debugging.
type Exception struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Where the error happened
	Service string `gorm:"size:100;index" json:"service"` // e.g. "tradejournal"
	Module  string `gorm:"size:100;index" json:"module"`  // e.g. "performance"
	Method  string `gorm:"size:100" json:"method"`        // e.g. "Summary"

	Message string `gorm:"type:text" json:"message"`
	Stack   string `gorm:"type:text" json:"stack"`

	// debug | info | warn | error | fatal
	Level string `gorm:"size:20;index" json:"level"`

	// Extra context stored as JSON (optional)
	Context string `gorm:"type:text" json:"context,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
