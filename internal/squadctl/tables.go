package squadctl

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/okian/fplsquad/internal/domain/model"
	"github.com/okian/fplsquad/internal/domain/transfer"
	"github.com/okian/fplsquad/internal/domain/types"
)

// Table layout constants.
const (
	tabMinWidth = 0
	tabWidth    = 4
	tabPadding  = 2
	tabPadChar  = ' '
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, tabMinWidth, tabWidth, tabPadding, tabPadChar, 0)
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
}

func printRows(w io.Writer, rows []types.PlayerRow) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tID\tNAME\tTEAM\tPOS\tCOST\tPROJ\tROLE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
			r.Rank, r.ID, r.Name, r.Team, r.Position, r.Cost, r.Projection, r.Role)
	}
	return tw.Flush()
}

// PrintPlan writes the roster, lineup, roles, outlook and diagnostics of p.
func PrintPlan(w io.Writer, p *model.Plan) error {
	fmt.Fprintf(w, "run %s  period %d  spend %s / %s  pool %d\n",
		p.RunID, p.Period, p.Spend.StringFixed(1), p.Budget.StringFixed(1), p.PoolSize)

	section(w, "Roster")
	if err := printRows(w, types.Rows(p.Roster, 1, p.RoleOf)); err != nil {
		return err
	}

	if p.Lineup != nil {
		section(w, "Active")
		if err := printRows(w, types.Rows(p.Lineup.Active, 1, p.RoleOf)); err != nil {
			return err
		}
		section(w, "Reserves")
		if err := printRows(w, types.Rows(p.Lineup.Reserves, 1, nil)); err != nil {
			return err
		}
	}

	if p.Roles != nil {
		section(w, "Roles")
		fmt.Fprintf(w, "primary    %s\nsecondary  %s\n", p.Roles.Primary.Name, p.Roles.Secondary.Name)
	}

	horizons := make([]int, 0, len(p.Outlook))
	for h := range p.Outlook {
		horizons = append(horizons, h)
	}
	sort.Ints(horizons)
	for _, h := range horizons {
		section(w, fmt.Sprintf("Outlook: next %d", h))
		if err := printRows(w, types.Rows(p.Outlook[h], h, nil)); err != nil {
			return err
		}
	}

	if len(p.Exclusions) > 0 {
		section(w, "Excluded")
		tw := newTable(w)
		fmt.Fprintln(tw, "ID\tNAME\tREASON\tFIELD")
		for _, e := range p.Exclusions {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.PlayerID, e.Name, e.Reason, e.Field)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if p.Degraded {
		section(w, "Unmet quotas")
		for _, sf := range p.Shortfalls {
			fmt.Fprintln(w, sf.String())
		}
	}
	return nil
}

// PrintTransfers writes the IN rows followed by the OUT rows.
func PrintTransfers(w io.Writer, recs []model.Recommendation) error {
	section(w, "Transfers")
	if len(recs) == 0 {
		fmt.Fprintln(w, "no changes")
		return nil
	}
	in, out := transfer.Split(recs)
	tw := newTable(w)
	fmt.Fprintln(tw, "DIR\tID\tNAME\tTEAM\tCOST")
	for _, r := range append(types.Transfers(in), types.Transfers(out)...) {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", r.Direction, r.ID, r.Name, r.Team, r.Cost)
	}
	return tw.Flush()
}

// PrintPlayers writes search hits in the order given.
func PrintPlayers(w io.Writer, hits []model.RosterEntry) error {
	section(w, "Players")
	if len(hits) == 0 {
		fmt.Fprintln(w, "no matches")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tTEAM\tPOS\tCOST")
	for _, h := range hits {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", h.ID, h.Name, h.Team, h.Position, h.Cost.StringFixed(1))
	}
	return tw.Flush()
}
