package catalog

import (
	"fmt"
	"strings"
)

// SectionProperties are the geometric and material values the capacity
// provider needs for one candidate product. The calculation engine treats
// these as opaque catalog data and never mutates them.
type SectionProperties struct {
	DepthMM         float64 `json:"depth_mm"`
	WidthMM         float64 `json:"width_mm"`
	SectionModulus  float64 `json:"section_modulus_mm3"`  // Z, mm^3
	MomentOfInertia float64 `json:"moment_of_inertia_mm4"` // I, mm^4
	ShearAreaMM2    float64 `json:"shear_area_mm2"`
	EMPa            float64 `json:"e_mpa"`  // modulus of elasticity
	FbMPa           float64 `json:"fb_mpa"` // characteristic bending strength
	FsMPa           float64 `json:"fs_mpa"` // characteristic shear strength
}

// EI returns the flexural rigidity in N*mm^2.
func (s SectionProperties) EI() float64 {
	return s.EMPa * s.MomentOfInertia
}

// Product is one catalog entry.
type Product struct {
	Code         string            `json:"code"`
	Name         string            `json:"name"`
	Manufacturer string            `json:"manufacturer"`
	ProductType  string            `json:"product_type"` // LVL, SG8, I-Beam, Glulam
	Grade        string            `json:"grade"`
	Regions      []string          `json:"regions"`
	Section      SectionProperties `json:"section"`
	IsActive     bool              `json:"is_active"`
}

// AvailableIn reports whether the product is sold in the given region code.
// An empty region list means no restriction.
func (p Product) AvailableIn(region string) bool {
	if len(p.Regions) == 0 {
		return true
	}
	for _, r := range p.Regions {
		if strings.EqualFold(r, region) {
			return true
		}
	}
	return false
}

// RectangularSection derives section properties for a solid rectangle:
// I = b*d^3/12, Z = b*d^2/6, shear area 2/3 of gross.
func RectangularSection(depthMM, widthMM, eMPa, fbMPa, fsMPa float64) (SectionProperties, error) {
	if depthMM <= 0 || widthMM <= 0 {
		return SectionProperties{}, fmt.Errorf("invalid section dimensions: depth=%.1f width=%.1f", depthMM, widthMM)
	}
	area := widthMM * depthMM
	return SectionProperties{
		DepthMM:         depthMM,
		WidthMM:         widthMM,
		SectionModulus:  widthMM * depthMM * depthMM / 6,
		MomentOfInertia: widthMM * depthMM * depthMM * depthMM / 12,
		ShearAreaMM2:    2.0 / 3.0 * area,
		EMPa:            eMPa,
		FbMPa:           fbMPa,
		FsMPa:           fsMPa,
	}, nil
}

// Characteristic strengths for the stock timber grades (MPa). Values carry
// over from the certified v1.0.0 factor data set.
const (
	ESG8  = 10000.0
	FbSG8 = 16.0
	FsSG8 = 2.0

	ELVL  = 13800.0
	FbLVL = 48.0
	FsLVL = 5.5
)

// SampleProducts returns the built-in seed catalog used for development
// databases and the catalogctl seed command.
func SampleProducts() []Product {
	lvl300x45, _ := RectangularSection(300, 45, ELVL, FbLVL, FsLVL)
	lvl240x45, _ := RectangularSection(240, 45, ELVL, FbLVL, FsLVL)
	sg8_290x45, _ := RectangularSection(290, 45, ESG8, FbSG8, FsSG8)
	sg8_190x45, _ := RectangularSection(190, 45, ESG8, FbSG8, FsSG8)

	return []Product{
		{Code: "LVL-300-45", Name: "LVL 300x45", Manufacturer: "Lumberbank", ProductType: "LVL", Grade: "LVL11", Regions: []string{"NZ", "AU"}, Section: lvl300x45, IsActive: true},
		{Code: "LVL-240-45", Name: "LVL 240x45", Manufacturer: "Lumberbank", ProductType: "LVL", Grade: "LVL11", Regions: []string{"NZ", "AU"}, Section: lvl240x45, IsActive: true},
		{Code: "SG8-290-45", Name: "SG8 290x45", Manufacturer: "Other", ProductType: "SG8", Grade: "SG8", Regions: []string{"NZ"}, Section: sg8_290x45, IsActive: true},
		{Code: "SG8-190-45", Name: "SG8 190x45", Manufacturer: "Other", ProductType: "SG8", Grade: "SG8", Regions: []string{"NZ"}, Section: sg8_190x45, IsActive: true},
	}
}
