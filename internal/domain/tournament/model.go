package tournament

import (
	"fmt"
	"strings"
	"time"
)

const defaultTitle = "Torneo"

// Tournament is one club competition day with its own teams and matches.
type Tournament struct {
	ID        string
	Title     string
	Date      *time.Time
	Structure string
}

func (t Tournament) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("tournament id is required")
	}
	return nil
}

// Heading is the display title, "Torneo" when blank, followed by the date as dd/mm/yyyy.
func (t Tournament) Heading() string {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		title = defaultTitle
	}
	if t.Date == nil || t.Date.IsZero() {
		return title
	}
	return title + " - " + t.Date.Format("02/01/2006")
}
