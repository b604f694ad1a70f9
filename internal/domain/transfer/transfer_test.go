package transfer_test

import (
	"errors"
	"testing"

	"github.com/okian/fplsquad/internal/domain/model"
	"github.com/okian/fplsquad/internal/domain/transfer"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func entry(id int, name string) model.RosterEntry {
	return model.RosterEntry{ID: id, Name: name, Team: "Club", Position: model.MID, Cost: decimal.New(int64(40+id), -1)}
}

func TestDiff(t *testing.T) {
	Convey("Given prior {A,B,C} and new {B,C,D}", t, func() {
		prior := []model.RosterEntry{entry(1, "A"), entry(2, "B"), entry(3, "C")}
		next := []model.RosterEntry{entry(2, "B"), entry(3, "C"), entry(4, "D")}

		recs, err := transfer.Diff(prior, next)

		Convey("Then D comes in and A goes out", func() {
			So(err, ShouldBeNil)
			So(recs, ShouldHaveLength, 2)
			So(recs[0].Direction, ShouldEqual, model.DirectionIn)
			So(recs[0].PlayerID, ShouldEqual, 4)
			So(recs[0].Name, ShouldEqual, "D")
			So(recs[0].Cost.String(), ShouldEqual, "4.4")
			So(recs[1].Direction, ShouldEqual, model.DirectionOut)
			So(recs[1].PlayerID, ShouldEqual, 1)
		})

		Convey("When A is renamed without changing its id", func() {
			renamed := []model.RosterEntry{entry(1, "A. Renamed"), entry(2, "B"), entry(3, "C")}
			recs, err := transfer.Diff(prior, renamed)

			Convey("Then no rows are produced", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldBeEmpty)
			})
		})

		Convey("When two players share a surname but not an id", func() {
			a := []model.RosterEntry{{ID: 10, Name: "Silva"}}
			b := []model.RosterEntry{{ID: 11, Name: "Silva"}}
			recs, _ := transfer.Diff(a, b)

			Convey("Then they are treated as different players", func() {
				in, out := transfer.Split(recs)
				So(in, ShouldHaveLength, 1)
				So(out, ShouldHaveLength, 1)
				So(in[0].PlayerID, ShouldEqual, 11)
				So(out[0].PlayerID, ShouldEqual, 10)
			})
		})

		Convey("When swapping the arguments", func() {
			back, _ := transfer.Diff(next, prior)

			Convey("Then the directions are mirrored", func() {
				in, out := transfer.Split(back)
				So(in[0].PlayerID, ShouldEqual, 1)
				So(out[0].PlayerID, ShouldEqual, 4)
			})
		})
	})

	Convey("Given a prior roster listing an id twice", t, func() {
		prior := []model.RosterEntry{entry(1, "A"), entry(1, "A again")}

		_, err := transfer.Diff(prior, nil)

		Convey("Then the collision is reported", func() {
			So(errors.Is(err, model.ErrIdentityCollision), ShouldBeTrue)
		})
	})

	Convey("Given an empty prior roster", t, func() {
		recs, err := transfer.Diff(nil, []model.RosterEntry{entry(1, "A"), entry(2, "B")})

		Convey("Then every new player is an IN in roster order", func() {
			So(err, ShouldBeNil)
			So(recs, ShouldHaveLength, 2)
			So(recs[0].PlayerID, ShouldEqual, 1)
			So(recs[1].PlayerID, ShouldEqual, 2)
		})
	})
}
