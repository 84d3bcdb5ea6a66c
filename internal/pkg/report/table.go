package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Vodeneev/specialsbot/internal/pkg/recon"
)

// Description column truncation: anything over maxDescriptionLen is cut
// to truncatedLen plus an ellipsis. Display-only, the stored value is
// never touched.
const (
	maxDescriptionLen = 48
	truncatedLen      = 45
)

// Print writes the run summary table. Every processed snapshot is
// listed, including rejected ones with their raw sentinel fields.
func Print(w io.Writer, results []recon.Result) {
	fmt.Fprintf(w, "%-12s | %-8s | %-50s | %-6s | %-10s | %-6s | %-10s\n",
		"MARKET ID", "TIME", "DESCRIPTION", "BACK", "LIQUIDITY", "LAY", "LIQUIDITY")
	fmt.Fprintln(w, strings.Repeat("-", 130))

	for _, res := range results {
		snap := res.Snapshot
		fmt.Fprintf(w, "%-12s | %-8s | %-50s | %-6s | %-10s | %-6s | %-10s\n",
			snap.MarketID, snap.EventTime, truncateDescription(snap.Description),
			snap.BackPrice, snap.BackLiquidity, snap.LayPrice, snap.LayLiquidity)
	}
}

func truncateDescription(desc string) string {
	if len(desc) <= maxDescriptionLen {
		return desc
	}
	return desc[:truncatedLen] + "..."
}
