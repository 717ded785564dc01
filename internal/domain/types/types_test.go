package types_test

import (
	"testing"

	"github.com/okian/fetalbio/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseMeasurement(t *testing.T) {
	Convey("Given the measurement alias table", t, func() {
		Convey("When parsing canonical keys", func() {
			m, err := types.ParseMeasurement("head_circumference")
			So(err, ShouldBeNil)
			So(m, ShouldEqual, types.HeadCircumference)
		})

		Convey("When parsing short codes", func() {
			m, err := types.ParseMeasurement("bpd")
			So(err, ShouldBeNil)
			So(m, ShouldEqual, types.BiparietalDiameter)
		})

		Convey("When parsing human-readable labels with mixed case", func() {
			m, err := types.ParseMeasurement("Occipito-Frontal Diameter")
			So(err, ShouldBeNil)
			So(m, ShouldEqual, types.OccipitofrontalDiameter)
		})

		Convey("When parsing with surrounding whitespace", func() {
			m, err := types.ParseMeasurement("  femur_length ")
			So(err, ShouldBeNil)
			So(m, ShouldEqual, types.FemurLength)
		})

		Convey("When parsing an unknown name", func() {
			_, err := types.ParseMeasurement("crown_rump_length")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestMeasurementReferenceSet(t *testing.T) {
	Convey("Given the canonical measurement set", t, func() {
		Convey("Then it excludes estimated fetal weight", func() {
			for _, m := range types.Canonical() {
				So(m, ShouldNotEqual, types.EstimatedFetalWeight)
				So(m.InReferenceSet(), ShouldBeTrue)
			}
			So(types.EstimatedFetalWeight.InReferenceSet(), ShouldBeFalse)
		})

		Convey("Then every member has complete naming metadata", func() {
			for _, m := range types.Canonical() {
				So(m.Key(), ShouldNotBeEmpty)
				So(m.Label(), ShouldNotBeEmpty)
				So(m.Short(), ShouldNotBeEmpty)
			}
		})
	})
}

func TestParseSource(t *testing.T) {
	Convey("Given the source identifiers", t, func() {
		Convey("When parsing intergrowth variants", func() {
			for _, v := range []string{"intergrowth", "INTERGROWTH-21st", "intergrowth21"} {
				s, err := types.ParseSource(v)
				So(err, ShouldBeNil)
				So(s, ShouldEqual, types.Intergrowth)
			}
		})

		Convey("When parsing nichd including the common misspelling", func() {
			for _, v := range []string{"nichd", "NIHCD"} {
				s, err := types.ParseSource(v)
				So(err, ShouldBeNil)
				So(s, ShouldEqual, types.NICHD)
			}
		})

		Convey("When parsing an unknown source", func() {
			_, err := types.ParseSource("who")
			So(err, ShouldNotBeNil)
		})
	})
}
