package recommend

import (
	"fmt"
	"strings"

	"verve/internal/models"
)

// Explain renders a recommendation as display text: title, attributes,
// the score at two decimals, and the reasons joined by a comma. Pure
// formatting, no scoring logic.
func Explain(rec models.Recommendation, item models.ContentItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", item.Title)
	fmt.Fprintf(&b, "  Category: %s | Format: %s | %.0f min\n", item.Category, item.Format, item.DurationMinutes)
	fmt.Fprintf(&b, "  Score: %.2f\n", rec.Score)
	if len(rec.Reasons) > 0 {
		fmt.Fprintf(&b, "  Why: %s\n", strings.Join(rec.Reasons, ", "))
	}
	return b.String()
}
