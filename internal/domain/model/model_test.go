package model_test

import (
	"errors"
	"testing"

	model "github.com/okian/fplsquad/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/smartystreets/goconvey/convey"
)

func TestParsePosition(t *testing.T) {
	convey.Convey("Given position codes from different sources", t, func() {
		cases := map[string]model.Position{
			"GK": model.GK, "gkp": model.GK, "1": model.GK,
			"DEF": model.DEF, "Defender": model.DEF,
			"MID": model.MID, "3": model.MID,
			" fwd ": model.FWD, "Forward": model.FWD,
		}

		convey.Convey("Then each resolves to the expected position", func() {
			for in, want := range cases {
				got, err := model.ParsePosition(in)
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldEqual, want)
			}
		})

		convey.Convey("When the code is unknown", func() {
			_, err := model.ParsePosition("keeper")

			convey.Convey("Then ErrUnknownPosition is returned", func() {
				convey.So(errors.Is(err, model.ErrUnknownPosition), convey.ShouldBeTrue)
			})
		})
	})
}

func TestQuotas(t *testing.T) {
	convey.Convey("Given the default quotas", t, func() {
		q := model.DefaultQuotas()

		convey.Convey("Then they total 15 and render in position order", func() {
			convey.So(q.Total(), convey.ShouldEqual, 15)
			convey.So(q.String(), convey.ShouldEqual, "GK:2 DEF:5 MID:5 FWD:3")
		})

		convey.Convey("When parsed from configuration keys", func() {
			parsed, err := model.ParseQuotas(map[string]int{"gk": 1, "def": 2, "mid": 2, "fwd": 1})

			convey.So(err, convey.ShouldBeNil)
			convey.So(parsed, convey.ShouldResemble, model.Quotas{model.GK: 1, model.DEF: 2, model.MID: 2, model.FWD: 1})
		})

		convey.Convey("When a quota is negative", func() {
			_, err := model.ParseQuotas(map[string]int{"gk": -1})

			convey.So(errors.Is(err, model.ErrInvalidQuota), convey.ShouldBeTrue)
		})
	})
}

func TestPlayerValidate(t *testing.T) {
	convey.Convey("Given player records", t, func() {
		valid := model.Player{ID: 7, TeamID: 2, Position: model.MID, Cost: decimal.RequireFromString("6.5")}

		convey.Convey("Then a complete record validates", func() {
			convey.So(valid.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When each required field is missing", func() {
			noCost := valid
			noCost.Cost = decimal.Zero
			noPos := valid
			noPos.Position = model.PositionUnknown
			noTeam := valid
			noTeam.TeamID = 0

			convey.Convey("Then the missing field is named", func() {
				for field, p := range map[string]model.Player{
					model.FieldCost:     noCost,
					model.FieldPosition: noPos,
					model.FieldTeam:     noTeam,
				} {
					err := p.Validate()
					var fe *model.FieldError
					convey.So(errors.As(err, &fe), convey.ShouldBeTrue)
					convey.So(fe.Field, convey.ShouldEqual, field)
					convey.So(errors.Is(err, model.ErrMissingPlayerField), convey.ShouldBeTrue)
				}
			})
		})
	})
}

func TestNewSnapshot(t *testing.T) {
	convey.Convey("Given upstream records", t, func() {
		teams := []model.Team{{ID: 1, Name: "Arsenal"}, {ID: 2, Name: "Burnley"}}
		players := []model.Player{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}

		convey.Convey("When ids are unique", func() {
			snap, err := model.NewSnapshot(players, teams, nil, 4)

			convey.Convey("Then the snapshot is built", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(snap.Players, convey.ShouldHaveLength, 2)
				convey.So(snap.TeamName(2), convey.ShouldEqual, "Burnley")
				convey.So(snap.TeamName(9), convey.ShouldEqual, "")
				convey.So(snap.NextPeriod, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When two players share an id", func() {
			_, err := model.NewSnapshot(append(players, model.Player{ID: 2, Name: "Other"}), teams, nil, 1)

			convey.Convey("Then the collision is fatal and not merged", func() {
				var ce *model.CollisionError
				convey.So(errors.As(err, &ce), convey.ShouldBeTrue)
				convey.So(ce.Kind, convey.ShouldEqual, "player")
				convey.So(ce.ID, convey.ShouldEqual, 2)
				convey.So(errors.Is(err, model.ErrIdentityCollision), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When two teams share an id", func() {
			_, err := model.NewSnapshot(players, append(teams, model.Team{ID: 1, Name: "Aston Villa"}), nil, 1)

			convey.So(errors.Is(err, model.ErrIdentityCollision), convey.ShouldBeTrue)
		})
	})
}

func TestSortedBy(t *testing.T) {
	convey.Convey("Given players with tied projections", t, func() {
		mk := func(id int, cost string, score float64) model.ScoredPlayer {
			return model.ScoredPlayer{
				Player:      model.Player{ID: id, Cost: decimal.RequireFromString(cost)},
				Projections: map[int]float64{1: score},
			}
		}
		in := []model.ScoredPlayer{mk(4, "5.0", 3), mk(3, "4.5", 3), mk(2, "4.5", 3), mk(1, "9.0", 8)}

		convey.Convey("When sorted by the one-period projection", func() {
			out := model.SortedBy(in, 1)

			convey.Convey("Then score desc, cost asc, id asc decides the order", func() {
				ids := []int{}
				for _, p := range out {
					ids = append(ids, p.ID)
				}
				convey.So(ids, convey.ShouldResemble, []int{1, 2, 3, 4})
			})

			convey.Convey("Then the input is left untouched", func() {
				convey.So(in[0].ID, convey.ShouldEqual, 4)
			})
		})
	})
}

func TestPlanHelpers(t *testing.T) {
	convey.Convey("Given a plan with roles and a lineup", t, func() {
		a := model.ScoredPlayer{Player: model.Player{ID: 1}}
		b := model.ScoredPlayer{Player: model.Player{ID: 2}}
		c := model.ScoredPlayer{Player: model.Player{ID: 3}}
		plan := &model.Plan{
			Lineup: &model.Lineup{Active: []model.ScoredPlayer{a, b}, Reserves: []model.ScoredPlayer{c}},
			Roles:  &model.Roles{Primary: a, Secondary: b},
		}

		convey.Convey("Then roles and activity are reported per id", func() {
			convey.So(plan.RoleOf(1), convey.ShouldEqual, "primary")
			convey.So(plan.RoleOf(2), convey.ShouldEqual, "secondary")
			convey.So(plan.RoleOf(3), convey.ShouldEqual, "")
			convey.So(plan.IsActive(2), convey.ShouldBeTrue)
			convey.So(plan.IsActive(3), convey.ShouldBeFalse)
		})

		convey.Convey("Then a degraded plan has no roles", func() {
			empty := &model.Plan{Degraded: true}
			convey.So(empty.RoleOf(1), convey.ShouldEqual, "")
			convey.So(empty.IsActive(1), convey.ShouldBeFalse)
		})
	})
}
