package bins_test

import (
	"testing"

	"github.com/okian/fetalbio/internal/domain/bins"
	. "github.com/smartystreets/goconvey/convey"
)

// thresholds for biparietal diameter at 20w6d.
var bpdThresholds = []float64{145.25, 147.25, 150.37, 161.95, 174.41, 178.12, 180.56}

func TestClassifyPercentile(t *testing.T) {
	Convey("Given the canonical percentile partition", t, func() {
		Convey("Then interior percentiles land in their bins", func() {
			So(bins.ClassifyPercentile(1.2), ShouldEqual, bins.Below3P)
			So(bins.ClassifyPercentile(4.0), ShouldEqual, bins.Between3P5P)
			So(bins.ClassifyPercentile(7.5), ShouldEqual, bins.Between5P10P)
			So(bins.ClassifyPercentile(30), ShouldEqual, bins.Between10P50P)
			So(bins.ClassifyPercentile(75), ShouldEqual, bins.Between50P90P)
			So(bins.ClassifyPercentile(92), ShouldEqual, bins.Between90P95P)
			So(bins.ClassifyPercentile(96), ShouldEqual, bins.Between95P97P)
			So(bins.ClassifyPercentile(99), ShouldEqual, bins.Above97P)
		})

		Convey("Then boundaries are lower-inclusive", func() {
			So(bins.ClassifyPercentile(3.0), ShouldEqual, bins.Between3P5P)
			So(bins.ClassifyPercentile(5.0), ShouldEqual, bins.Between5P10P)
			So(bins.ClassifyPercentile(10.0), ShouldEqual, bins.Between10P50P)
			So(bins.ClassifyPercentile(50.0), ShouldEqual, bins.Between50P90P)
			So(bins.ClassifyPercentile(90.0), ShouldEqual, bins.Between90P95P)
			So(bins.ClassifyPercentile(95.0), ShouldEqual, bins.Between95P97P)
			So(bins.ClassifyPercentile(97.0), ShouldEqual, bins.Above97P)
		})

		Convey("Then the partition is total with no gaps or overlaps", func() {
			// Sweep [0,100] in tenths; each percentile must land in exactly
			// one bin and bins must be non-decreasing along the axis.
			prev := bins.Below3P
			for p := 0.0; p <= 100.0; p += 0.1 {
				b := bins.ClassifyPercentile(p)
				So(b, ShouldBeGreaterThanOrEqualTo, prev)
				So(b, ShouldBeLessThanOrEqualTo, bins.Above97P)
				prev = b
			}
			So(prev, ShouldEqual, bins.Above97P)
		})
	})
}

func TestClassifyThresholds(t *testing.T) {
	Convey("Given the 20w6d BPD threshold vector", t, func() {
		Convey("When the value is below the lowest threshold", func() {
			b, err := bins.ClassifyThresholds(bpdThresholds, 140.0)
			So(err, ShouldBeNil)
			So(b, ShouldEqual, bins.Below3P)
		})

		Convey("When the value is in the normal range", func() {
			b, err := bins.ClassifyThresholds(bpdThresholds, 155.0)
			So(err, ShouldBeNil)
			So(b, ShouldEqual, bins.Between10P50P)
		})

		Convey("When the value is above the highest threshold", func() {
			b, err := bins.ClassifyThresholds(bpdThresholds, 185.0)
			So(err, ShouldBeNil)
			So(b, ShouldEqual, bins.Above97P)
		})

		Convey("When the value equals a threshold it belongs to the upper interval", func() {
			b, err := bins.ClassifyThresholds(bpdThresholds, 145.25)
			So(err, ShouldBeNil)
			So(b, ShouldEqual, bins.Between3P5P)

			b, err = bins.ClassifyThresholds(bpdThresholds, 180.56)
			So(err, ShouldBeNil)
			So(b, ShouldEqual, bins.Above97P)
		})

		Convey("When the threshold vector is the wrong length", func() {
			_, err := bins.ClassifyThresholds(bpdThresholds[:5], 155.0)
			So(err, ShouldNotBeNil)
		})

		Convey("When the threshold vector is not monotonic", func() {
			bad := []float64{145.25, 147.25, 146.0, 161.95, 174.41, 178.12, 180.56}
			_, err := bins.ClassifyThresholds(bad, 155.0)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestPartitionConsistency(t *testing.T) {
	Convey("Given a reference row and its threshold vector", t, func() {
		Convey("Then the threshold path agrees with the percentile path for in-range values", func() {
			// Values at and between thresholds; the percentile path is fed
			// the exact cut point the value sits on.
			for i, v := range bpdThresholds {
				byValue, err := bins.ClassifyThresholds(bpdThresholds, v)
				So(err, ShouldBeNil)
				byPercentile := bins.ClassifyPercentile(bins.CutPoints[i])
				So(byValue, ShouldEqual, byPercentile)
			}
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given bin string labels", t, func() {
		Convey("Then every canonical key round-trips", func() {
			for _, b := range bins.All() {
				parsed, err := bins.Parse(b.Key())
				So(err, ShouldBeNil)
				So(parsed, ShouldEqual, b)
			}
		})

		Convey("Then unknown labels are rejected", func() {
			_, err := bins.Parse("between_97p_99p")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestNormal(t *testing.T) {
	Convey("Given the default normal range", t, func() {
		So(bins.Between10P50P.Normal(), ShouldBeTrue)
		So(bins.Between50P90P.Normal(), ShouldBeTrue)
		for _, b := range []bins.Bin{bins.Below3P, bins.Between3P5P, bins.Between5P10P, bins.Between90P95P, bins.Between95P97P, bins.Above97P} {
			So(b.Normal(), ShouldBeFalse)
		}
	})
}
