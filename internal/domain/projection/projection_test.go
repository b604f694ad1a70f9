package projection_test

import (
	"errors"
	"testing"

	"github.com/okian/fplsquad/internal/domain/model"
	"github.com/okian/fplsquad/internal/domain/projection"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func player(id, team int, form, ppg float64) model.Player {
	return model.Player{
		ID:            id,
		Name:          "p",
		TeamID:        team,
		Position:      model.MID,
		Cost:          decimal.New(55, -1),
		Form:          form,
		PointsPerGame: ppg,
	}
}

func TestDifficulty(t *testing.T) {
	Convey("Given fixtures across two periods", t, func() {
		fixtures := []model.Fixture{
			{ID: 1, Period: 5, HomeTeamID: 1, AwayTeamID: 2, HomeDifficulty: 2, AwayDifficulty: 4},
			{ID: 2, Period: 5, HomeTeamID: 3, AwayTeamID: 1, HomeDifficulty: 3, AwayDifficulty: 5},
			{ID: 3, Period: 6, HomeTeamID: 2, AwayTeamID: 3, HomeDifficulty: 1, AwayDifficulty: 5},
		}
		d := projection.NewDifficulty(fixtures)

		Convey("Then a double period averages the team's ratings", func() {
			So(d.Rating(1, 5), ShouldEqual, 3.5)
		})

		Convey("Then single fixtures resolve to their side's rating", func() {
			So(d.Rating(2, 5), ShouldEqual, 4)
			So(d.Rating(2, 6), ShouldEqual, 1)
		})

		Convey("Then blank periods and unknown teams are neutral", func() {
			So(d.Rating(1, 6), ShouldEqual, projection.NeutralRating)
			So(d.Rating(99, 5), ShouldEqual, projection.NeutralRating)
			So(d.Periods(), ShouldEqual, 2)
		})

		Convey("Then an empty fixture list is neutral everywhere", func() {
			So(projection.NewDifficulty(nil).Rating(1, 5), ShouldEqual, projection.NeutralRating)
		})
	})

	Convey("Given ratings on the 1-5 scale", t, func() {
		Convey("Then the factor falls with difficulty and never goes negative", func() {
			So(projection.Factor(2), ShouldEqual, 1)
			So(projection.Factor(5), ShouldEqual, 0)
			So(projection.Factor(6), ShouldEqual, 0)
			So(projection.Factor(3), ShouldAlmostEqual, 2.0/3.0)
		})
	})
}

func TestLinearProjection(t *testing.T) {
	Convey("Given a linear projector", t, func() {
		d := projection.NewDifficulty([]model.Fixture{
			{Period: 3, HomeTeamID: 1, AwayTeamID: 2, HomeDifficulty: 2, AwayDifficulty: 4},
		})
		lin := projection.NewLinear(d, 3)

		Convey("When projecting the same player over 1, 5 and 10 periods", func() {
			for _, rate := range []float64{0.1, 1.3, 4.7, 7.9, 12.35} {
				for _, team := range []int{1, 2, 9} {
					p1 := lin.Project(rate, team, 1)
					p5 := lin.Project(rate, team, 5)
					p10 := lin.Project(rate, team, 10)

					So(p10, ShouldEqual, 2*p5)
					So(p10, ShouldEqual, 10*p1)
				}
			}
		})

		Convey("Then the easier fixture projects higher", func() {
			So(lin.Project(6, 1, 1), ShouldEqual, 6)
			So(lin.Project(6, 2, 1), ShouldAlmostEqual, 2)
			So(lin.Project(6, 9, 1), ShouldAlmostEqual, 4)
		})
	})
}

func TestFixtureRunProjection(t *testing.T) {
	Convey("Given a fixture-run projector over a varied run", t, func() {
		d := projection.NewDifficulty([]model.Fixture{
			{Period: 1, HomeTeamID: 1, AwayTeamID: 2, HomeDifficulty: 2, AwayDifficulty: 2},
			{Period: 2, HomeTeamID: 2, AwayTeamID: 1, HomeDifficulty: 5, AwayDifficulty: 5},
		})
		run := projection.NewFixtureRun(d, 1)

		Convey("Then each period uses its own difficulty", func() {
			So(run.Project(3, 1, 1), ShouldEqual, 3)
			So(run.Project(3, 1, 2), ShouldEqual, 3)
			So(run.Project(3, 1, 3), ShouldAlmostEqual, 5)
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given configured names", t, func() {
		s, err := projection.ParseSignal("")
		So(err, ShouldBeNil)
		So(s, ShouldEqual, projection.SignalForm)

		s, err = projection.ParseSignal("points_per_game")
		So(err, ShouldBeNil)
		So(s, ShouldEqual, projection.SignalPointsPerGame)

		_, err = projection.ParseSignal("xg")
		So(errors.Is(err, projection.ErrUnknownSignal), ShouldBeTrue)

		k, err := projection.ParseKind("fixture_run")
		So(err, ShouldBeNil)
		So(k, ShouldEqual, projection.KindFixtureRun)

		_, err = projection.New("neural", nil, 1)
		So(errors.Is(err, projection.ErrUnknownModel), ShouldBeTrue)
	})
}

func TestEngineScore(t *testing.T) {
	Convey("Given a pool with avoided and incomplete players", t, func() {
		players := []model.Player{
			player(1, 1, 9.0, 2.0),
			player(2, 1, 8.0, 3.0),
			player(3, 2, 1.0, 1.0),
		}
		incomplete := player(4, 0, 5, 5)
		players = append(players, incomplete)

		names := map[int]string{1: "Arsenal", 2: "Brentford"}
		engine := projection.NewEngine(
			projection.NewLinear(nil, 1),
			projection.WithAvoid(1),
			projection.WithHorizons(10, 1, 5, 5, 0),
		)

		pool, excluded := engine.Score(players, func(id int) string { return names[id] })

		Convey("Then avoided players never appear in the pool, however high they score", func() {
			for _, p := range pool {
				So(p.ID, ShouldNotEqual, 1)
			}
			So(excluded[0], ShouldResemble, model.Exclusion{PlayerID: 1, Name: "p", Reason: model.ReasonAvoidList})
		})

		Convey("Then players missing a field are excluded with the field named", func() {
			So(excluded, ShouldHaveLength, 2)
			So(excluded[1].PlayerID, ShouldEqual, 4)
			So(excluded[1].Reason, ShouldEqual, model.ReasonMissingField)
			So(excluded[1].Field, ShouldEqual, model.FieldTeam)
		})

		Convey("Then the rest are projected for each distinct horizon with team names", func() {
			So(pool, ShouldHaveLength, 2)
			So(engine.Horizons(), ShouldResemble, []int{1, 5, 10})
			So(pool[0].TeamName, ShouldEqual, "Arsenal")
			So(pool[0].Projections, ShouldHaveLength, 3)
			So(pool[0].Projection(1), ShouldAlmostEqual, 8.0*2/3)
		})

		Convey("When the points-per-game signal is selected", func() {
			ppg := projection.NewEngine(projection.NewLinear(nil, 1), projection.WithSignal(projection.SignalPointsPerGame))
			pool, _ := ppg.Score(players[:1], nil)

			Convey("Then that rate drives the projection", func() {
				So(pool[0].Projection(1), ShouldAlmostEqual, 2.0*2/3)
				So(pool[0].TeamName, ShouldEqual, "")
			})
		})
	})
}
