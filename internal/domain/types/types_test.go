package types_test

import (
	"testing"

	"github.com/okian/fplsquad/internal/domain/model"
	types "github.com/okian/fplsquad/internal/domain/types"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRows(t *testing.T) {
	Convey("Given scored players", t, func() {
		players := []model.ScoredPlayer{
			{
				Player:      model.Player{ID: 7, Name: "Saka", Position: model.MID, Cost: decimal.New(10, 0)},
				TeamName:    "Arsenal",
				Projections: map[int]float64{1: 6, 5: 30},
			},
			{
				Player:      model.Player{ID: 9, Name: "Wissa", Position: model.FWD, Cost: decimal.New(65, -1)},
				TeamName:    "Brentford",
				Projections: map[int]float64{1: 4},
			},
		}

		Convey("When converted for horizon five", func() {
			rows := types.Rows(players, 5, func(id int) string {
				if id == 7 {
					return "primary"
				}
				return ""
			})

			Convey("Then ranks, costs and roles are rendered", func() {
				So(rows, ShouldHaveLength, 2)
				So(rows[0], ShouldResemble, types.PlayerRow{
					Rank: 1, ID: 7, Name: "Saka", Team: "Arsenal", Position: "MID",
					Cost: "10.0", Projection: 30, Role: "primary",
				})
				So(rows[1].Rank, ShouldEqual, 2)
				So(rows[1].Cost, ShouldEqual, "6.5")
				So(rows[1].Projection, ShouldEqual, 0)
				So(rows[1].Role, ShouldBeEmpty)
			})
		})

		Convey("When converted without a role function", func() {
			rows := types.Rows(players, 1, nil)

			So(rows[0].Role, ShouldBeEmpty)
			So(rows[0].Projection, ShouldEqual, 6)
		})
	})
}

func TestTransfers(t *testing.T) {
	Convey("Given recommendations", t, func() {
		recs := []model.Recommendation{
			{Direction: model.DirectionIn, PlayerID: 1, Name: "A", Team: "X", Cost: decimal.New(45, -1)},
			{Direction: model.DirectionOut, PlayerID: 2, Name: "B", Team: "Y", Cost: decimal.New(5, 0)},
		}

		rows := types.Transfers(recs)

		Convey("Then each becomes a table row", func() {
			So(rows, ShouldResemble, []types.TransferRow{
				{Direction: "IN", ID: 1, Name: "A", Team: "X", Cost: "4.5"},
				{Direction: "OUT", ID: 2, Name: "B", Team: "Y", Cost: "5.0"},
			})
		})

		Convey("Then an empty list renders as an empty table", func() {
			So(types.Transfers(nil), ShouldBeEmpty)
		})
	})
}
