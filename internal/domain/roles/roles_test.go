package roles_test

import (
	"errors"
	"testing"

	"github.com/okian/fplsquad/internal/domain/model"
	"github.com/okian/fplsquad/internal/domain/roles"
	"github.com/shopspring/decimal"
	"github.com/smartystreets/goconvey/convey"
)

func scored(id int, cost string, score float64) model.ScoredPlayer {
	return model.ScoredPlayer{
		Player:      model.Player{ID: id, Cost: decimal.RequireFromString(cost)},
		Projections: map[int]float64{1: score},
	}
}

func TestAssign(t *testing.T) {
	convey.Convey("Given an active lineup", t, func() {
		active := []model.ScoredPlayer{
			scored(1, "5.0", 4),
			scored(2, "12.0", 9),
			scored(3, "7.0", 7),
			scored(4, "6.5", 7),
		}

		convey.Convey("When roles are assigned", func() {
			r, err := roles.Assign(active)

			convey.Convey("Then the top scorer is primary and the cheaper tie wins second", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(r.Primary.ID, convey.ShouldEqual, 2)
				convey.So(r.Secondary.ID, convey.ShouldEqual, 4)
			})

			convey.Convey("Then projections are not multiplied", func() {
				convey.So(r.Primary.Projection(1), convey.ShouldEqual, 9)
				convey.So(active[1].Projection(1), convey.ShouldEqual, 9)
			})
		})

		convey.Convey("When the lineup has a single player", func() {
			_, err := roles.Assign(active[:1])

			convey.Convey("Then ErrTooFewPlayers is returned", func() {
				convey.So(errors.Is(err, roles.ErrTooFewPlayers), convey.ShouldBeTrue)
			})
		})
	})
}
