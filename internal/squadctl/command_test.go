package squadctl_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/fplsquad/internal/config"
	"github.com/okian/fplsquad/internal/domain/lineup"
	"github.com/okian/fplsquad/internal/squadctl"
	. "github.com/smartystreets/goconvey/convey"
)

// writeLeague saves a 120-player bootstrap payload and a fixtures payload
// into dir and returns their paths.
func writeLeague(dir string) (string, string) {
	teams := make([]map[string]any, 0, 20)
	for i := 1; i <= 20; i++ {
		teams = append(teams, map[string]any{"id": i, "name": fmt.Sprintf("Club %02d", i), "short_name": fmt.Sprintf("C%02d", i)})
	}
	elements := make([]map[string]any, 0, 120)
	for i := 1; i <= 120; i++ {
		elements = append(elements, map[string]any{
			"id":              i,
			"web_name":        fmt.Sprintf("Player %d", i),
			"second_name":     fmt.Sprintf("Surname%d", i),
			"team":            i%20 + 1,
			"element_type":    i%4 + 1,
			"now_cost":        40 + (i*7)%45,
			"form":            fmt.Sprintf("%.1f", float64((i*13)%90)/10),
			"points_per_game": "3.0",
			"minutes":         900,
		})
	}
	bootstrap, err := json.Marshal(map[string]any{
		"events":   []map[string]any{{"id": 2, "is_next": false}, {"id": 3, "is_next": true}},
		"teams":    teams,
		"elements": elements,
	})
	if err != nil {
		panic(err)
	}
	fixtures := `[{"id": 1, "event": 3, "team_h": 1, "team_a": 2, "team_h_difficulty": 2, "team_a_difficulty": 4, "finished": false}]`

	bootstrapPath := filepath.Join(dir, "bootstrap.json")
	fixturesPath := filepath.Join(dir, "fixtures.json")
	if err := os.WriteFile(bootstrapPath, bootstrap, 0o600); err != nil {
		panic(err)
	}
	if err := os.WriteFile(fixturesPath, []byte(fixtures), 0o600); err != nil {
		panic(err)
	}
	return bootstrapPath, fixturesPath
}

func execute(args ...string) (string, error) {
	cmd := squadctl.NewCommand(config.New(context.Background()))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommand(t *testing.T) {
	Convey("Given saved payloads on disk", t, func() {
		dir := t.TempDir()
		bootstrap, fixtures := writeLeague(dir)
		base := []string{"--bootstrap", bootstrap, "--fixtures", fixtures}

		Convey("When run with defaults", func() {
			out, err := execute(base...)

			Convey("Then every table is printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "period 3")
				So(out, ShouldContainSubstring, "Roster")
				So(out, ShouldContainSubstring, "Active")
				So(out, ShouldContainSubstring, "Reserves")
				So(out, ShouldContainSubstring, "Roles")
				So(out, ShouldContainSubstring, "Outlook: next 5")
				So(out, ShouldContainSubstring, "Outlook: next 10")
				So(out, ShouldNotContainSubstring, "Unmet quotas")
				So(out, ShouldNotContainSubstring, "Transfers")
			})
		})

		Convey("When a prior roster is given", func() {
			prior := filepath.Join(dir, "roster.csv")
			So(os.WriteFile(prior, []byte("id,name\n999,Gone\n"), 0o600), ShouldBeNil)

			out, err := execute(append(base, "--prior", prior)...)

			Convey("Then the transfer table lists both directions", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Transfers")
				So(out, ShouldContainSubstring, "IN")
				So(out, ShouldContainSubstring, "OUT")
				So(out, ShouldContainSubstring, "Gone")
			})
		})

		Convey("When the prior roster repeats an id", func() {
			prior := filepath.Join(dir, "roster.csv")
			So(os.WriteFile(prior, []byte("id\n5\n5\n"), 0o600), ShouldBeNil)

			_, err := execute(append(base, "--prior", prior)...)

			So(err, ShouldNotBeNil)
		})

		Convey("When looking a player up", func() {
			out, err := execute(append(base, "--find", "player 7", "--limit", "2")...)

			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "Players")
			So(out, ShouldContainSubstring, "Player 7")
		})

		Convey("When saving the run", func() {
			history := filepath.Join(dir, "history.csv")

			_, err := execute(append(base, "--save", "--history", history)...)

			Convey("Then the ledger holds a header and fifteen rows", func() {
				So(err, ShouldBeNil)
				data, err := os.ReadFile(history)
				So(err, ShouldBeNil)
				lines := strings.Split(strings.TrimSpace(string(data)), "\n")
				So(lines, ShouldHaveLength, 16)
				So(lines[0], ShouldStartWith, "run_id,")
			})
		})

		Convey("When the budget cannot cover a full roster", func() {
			out, err := execute(append(base, "--budget", "5")...)

			Convey("Then the partial roster is printed with its unmet quotas", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Unmet quotas")
				So(out, ShouldNotContainSubstring, "Reserves")
			})
		})

		Convey("When the formation does not fit the quotas", func() {
			_, err := execute(append(base, "--formation", "6-3-1")...)

			So(errors.Is(err, lineup.ErrInvalidFormation), ShouldBeTrue)
		})

		Convey("When positional arguments are passed", func() {
			_, err := execute(append(base, "extra")...)

			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a bootstrap file that does not exist", t, func() {
		_, err := execute("--bootstrap", filepath.Join(t.TempDir(), "missing.json"))

		So(err, ShouldNotBeNil)
	})
}
