// Package factors holds the code-derived design factor tables and the
// capacity calculations built on them. Tables are immutable and versioned;
// a standards update is published as a new table, never edited in place,
// so concurrent calculations can share them without locking. New codes or
// regions are added by registering a new table, not by touching the
// solver.
package factors

import (
	"fmt"

	"Lintel/internal/catalog"
)

// Load duration classes, NZS3603 clause 2.4.1.1.
type LoadDuration string

const (
	DurationPermanent  LoadDuration = "permanent"
	DurationLongTerm   LoadDuration = "long_term"
	DurationMediumTerm LoadDuration = "medium_term"
	DurationShortTerm  LoadDuration = "short_term"
	DurationVeryShort  LoadDuration = "very_short"
)

// Member types recognised for deflection limits.
const (
	MemberFloorJoist = "floor_joist"
	MemberRafter     = "rafter"
	MemberBeam       = "beam"
)

// Conditions select the modification factors for one calculation.
type Conditions struct {
	Duration LoadDuration `json:"duration"`
	Wet      bool         `json:"wet"`      // moisture content > 15%
	HighTemp bool         `json:"high_temp"` // sustained > 65 degC
}

// Table is one immutable design factor set for one standard version.
type Table struct {
	Standard      string
	Version       string
	CertifiedDate string

	PhiBending float64
	PhiShear   float64

	K1 map[LoadDuration]float64 // load duration
	K4Dry, K4Wet     float64    // moisture condition
	K6Normal, K6High float64    // temperature

	// Span-to-deflection ratios by member type, NZS3603 table 2.3.
	DeflectionRatios map[string]float64
	DefaultRatio     float64
}

// Capacity is the factored capacity set for one candidate product under
// one standard version.
type Capacity struct {
	MomentKNM         float64 `json:"capacity_moment"`
	ShearKN           float64 `json:"capacity_shear"`
	DeflectionLimitMM float64 `json:"deflection_limit"`
	Standard          string  `json:"standard"`
	Version           string  `json:"version"`
}

// UnsupportedStandardError means no factor table is registered for the
// requested standard. This signals an incomplete deployment rather than
// bad user input and is surfaced differently by the HTTP layer.
type UnsupportedStandardError struct {
	Standard string
}

func (e *UnsupportedStandardError) Error() string {
	return fmt.Sprintf("no design factor table for standard %q", e.Standard)
}

// NZS3603 is the certified v1.0.0 table for NZS3603:1993 with AS/NZS1170
// load assumptions.
var NZS3603 = Table{
	Standard:      "NZS3603:1993",
	Version:       "1.0.0",
	CertifiedDate: "2024-11-27",
	PhiBending:    0.90,
	PhiShear:      0.90,
	K1: map[LoadDuration]float64{
		DurationPermanent:  0.57,
		DurationLongTerm:   0.57,
		DurationMediumTerm: 0.80,
		DurationShortTerm:  1.00,
		DurationVeryShort:  1.15,
	},
	K4Dry:    1.00,
	K4Wet:    0.80,
	K6Normal: 1.00,
	K6High:   0.85,
	DeflectionRatios: map[string]float64{
		MemberFloorJoist: 300,
		MemberBeam:       300,
		MemberRafter:     250,
	},
	DefaultRatio: 300,
}

var tables = map[string]Table{
	NZS3603.Standard: NZS3603,
}

// Lookup returns the factor table for a standard.
func Lookup(standard string) (Table, error) {
	t, ok := tables[standard]
	if !ok {
		return Table{}, &UnsupportedStandardError{Standard: standard}
	}
	return t, nil
}

// Capacities computes the factored bending and shear capacities for a
// section and the deflection limit for the span.
//
//	phiMn = phi * k1 * k4 * k6 * f_b * Z   (Nmm -> kNm)
//	phiVn = phi * k1 * k4 * k6 * f_s * As  (N -> kN)
//	limit = span / ratio(memberType)
func (t Table) Capacities(section catalog.SectionProperties, spanMM float64, memberType string, cond Conditions) (Capacity, error) {
	if spanMM <= 0 {
		return Capacity{}, fmt.Errorf("span must be positive")
	}
	k1, ok := t.K1[cond.Duration]
	if !ok {
		k1 = t.K1[DurationMediumTerm]
	}
	k4 := t.K4Dry
	if cond.Wet {
		k4 = t.K4Wet
	}
	k6 := t.K6Normal
	if cond.HighTemp {
		k6 = t.K6High
	}

	ratio, ok := t.DeflectionRatios[memberType]
	if !ok {
		ratio = t.DefaultRatio
	}

	return Capacity{
		MomentKNM:         t.PhiBending * k1 * k4 * k6 * section.FbMPa * section.SectionModulus / 1e6,
		ShearKN:           t.PhiShear * k1 * k4 * k6 * section.FsMPa * section.ShearAreaMM2 / 1e3,
		DeflectionLimitMM: spanMM / ratio,
		Standard:          t.Standard,
		Version:           t.Version,
	}, nil
}
