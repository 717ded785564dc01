package mapping_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/okian/fetalbio/internal/domain/bins"
	"github.com/okian/fetalbio/internal/domain/mapping"
	"github.com/okian/fetalbio/internal/domain/model"
	"github.com/okian/fetalbio/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefault(t *testing.T) {
	Convey("Given the embedded default mapping", t, func() {
		m, err := mapping.Default()
		So(err, ShouldBeNil)

		Convey("Then every canonical measurement is configured", func() {
			for _, mt := range types.Canonical() {
				mm, ok := m.Lookup(mt)
				So(ok, ShouldBeTrue)
				So(mm.Parent, ShouldNotBeNil)

				Convey("And the bin set for "+mt.Key()+" is total", func() {
					So(len(mm.Bins), ShouldEqual, 8)
					for _, b := range bins.All() {
						tb, ok := mm.Resolve(b)
						So(ok, ShouldBeTrue)
						So(tb.Bin, ShouldEqual, b)
					}
				})
			}
		})

		Convey("Then head circumference extremes resolve to micro/macrocephaly", func() {
			mm, _ := m.Lookup(types.HeadCircumference)
			lo, _ := mm.Resolve(bins.Below3P)
			So(lo.Term.ID, ShouldEqual, "HP:0000252")
			So(lo.Normal, ShouldBeFalse)

			hi, _ := mm.Resolve(bins.Above97P)
			So(hi.Term.ID, ShouldEqual, "HP:0000256")

			mid, _ := mm.Resolve(bins.Between10P50P)
			So(mid.Normal, ShouldBeTrue)
		})

		Convey("Then compact-form sections expand with shared central terms", func() {
			mm, _ := m.Lookup(types.BiparietalDiameter)
			lowMid, _ := mm.Resolve(bins.Between5P10P)
			highMid, _ := mm.Resolve(bins.Between90P95P)
			So(lowMid.Term, ShouldResemble, highMid.Term)

			for _, b := range []bins.Bin{bins.Between10P50P, bins.Between50P90P} {
				tb, _ := mm.Resolve(b)
				So(tb.Term, ShouldBeNil)
				So(tb.Normal, ShouldBeTrue)
			}
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given mapping documents on disk", t, func() {
		Convey("When the file does not exist", func() {
			_, err := mapping.Load(filepath.Join("testdata", "absent.yaml"))
			So(err, ShouldNotBeNil)
			So(errors.Is(err, mapping.ErrMappingFileNotFound), ShouldBeTrue)
		})

		Convey("When the file is valid", func() {
			m, err := mapping.Load(filepath.Join("testdata", "valid.yaml"))
			So(err, ShouldBeNil)
			mm, ok := m.Lookup(types.FemurLength)
			So(ok, ShouldBeTrue)
			So(len(mm.Bins), ShouldEqual, 8)
		})
	})
}

func TestParseValidation(t *testing.T) {
	Convey("Given malformed mapping documents", t, func() {
		Convey("When a measurement omits a bin", func() {
			doc := []byte(`
femur_length:
  below_3p: {id: "HP:0003097", label: "Short femur"}
  between_3p_5p: null
  between_5p_10p: null
  between_10p_50p: null
  between_50p_90p: null
  between_90p_95p: null
  between_95p_97p: null
`)
			_, err := mapping.Parse(doc)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, mapping.ErrMalformedMapping), ShouldBeTrue)
		})

		Convey("When the measurement type is unknown", func() {
			doc := []byte(`
crown_rump_length:
  terms:
    lower_extreme: null
    lower: null
    abnormal: null
    normal: null
    upper: null
    upper_extreme: null
`)
			_, err := mapping.Parse(doc)
			So(errors.Is(err, mapping.ErrMalformedMapping), ShouldBeTrue)
		})

		Convey("When a term entry lacks an id", func() {
			doc := []byte(`
femur_length:
  terms:
    lower_extreme: {label: "Short femur"}
    lower: null
    abnormal: null
    normal: null
    upper: null
    upper_extreme: null
`)
			_, err := mapping.Parse(doc)
			So(errors.Is(err, mapping.ErrMalformedMapping), ShouldBeTrue)
		})

		Convey("When the compact form omits a semantic term", func() {
			doc := []byte(`
femur_length:
  terms:
    lower_extreme: null
    lower: null
    abnormal: null
    upper: null
    upper_extreme: null
`)
			_, err := mapping.Parse(doc)
			So(errors.Is(err, mapping.ErrMalformedMapping), ShouldBeTrue)
		})

		Convey("When the compact form carries an unknown key", func() {
			doc := []byte(`
femur_length:
  terms:
    lower_extreme: null
    lower: null
    abnormal: null
    normal: null
    upper: null
    upper_extreme: null
    extreme: null
`)
			_, err := mapping.Parse(doc)
			So(errors.Is(err, mapping.ErrMalformedMapping), ShouldBeTrue)
		})
	})
}

func TestExpandStandard(t *testing.T) {
	Convey("Given six semantic terms", t, func() {
		micro := &model.Term{ID: "HP:0000252", Label: "Microcephaly"}
		macro := &model.Term{ID: "HP:0000256", Label: "Macrocephaly"}
		abn := &model.Term{ID: "HP:0000240", Label: "Abnormality of skull size"}

		expanded := mapping.ExpandStandard(mapping.StandardTerms{
			LowerExtreme: micro,
			Abnormal:     abn,
			UpperExtreme: macro,
		})

		Convey("Then the expansion covers all eight bins", func() {
			So(len(expanded), ShouldEqual, 8)
		})

		Convey("Then the abnormal term covers both moderate tails", func() {
			So(expanded[bins.Between5P10P].Term, ShouldEqual, abn)
			So(expanded[bins.Between90P95P].Term, ShouldEqual, abn)
		})

		Convey("Then the central bins are normal even with a nil term", func() {
			So(expanded[bins.Between10P50P].Normal, ShouldBeTrue)
			So(expanded[bins.Between50P90P].Normal, ShouldBeTrue)
			So(expanded[bins.Between10P50P].Term, ShouldBeNil)
		})

		Convey("Then the extremes keep their dedicated terms", func() {
			So(expanded[bins.Below3P].Term, ShouldEqual, micro)
			So(expanded[bins.Above97P].Term, ShouldEqual, macro)
		})
	})
}
