package batch

import (
	"errors"
	"fmt"

	"Lintel/internal/calc/beamcheck"
	"Lintel/internal/calc/mechanics"
	"Lintel/internal/catalog"
)

// Input checks one beam against a set of candidate products. The engine is
// pure, so candidates are checked independently; order of results follows
// the order of candidates.
type Input struct {
	Beam       beamcheck.Input   `json:"beam"`
	Candidates []catalog.Product `json:"candidates"`
}

// Item is the verdict for one candidate. Error is set instead of Result
// when the candidate's section data was unusable.
type Item struct {
	ProductCode string            `json:"product_code"`
	Result      *beamcheck.Result `json:"result,omitempty"`
	Error       string            `json:"error,omitempty"`
}

type Output struct {
	Items []Item `json:"items"`
}

// Check runs the beam against every candidate. Geometry or load errors
// abort the whole batch since the beam itself is bad; a capacity error on
// one candidate only fails that candidate's entry.
func Check(in Input) (Output, error) {
	if len(in.Candidates) == 0 {
		return Output{}, fmt.Errorf("no candidate products")
	}
	out := Output{Items: make([]Item, 0, len(in.Candidates))}
	for _, product := range in.Candidates {
		res, err := beamcheck.Calculate(in.Beam, product.Section)
		if err != nil {
			var capErr *beamcheck.InvalidCapacityError
			var compErr *mechanics.ComputationError
			if errors.As(err, &capErr) || errors.As(err, &compErr) {
				out.Items = append(out.Items, Item{ProductCode: product.Code, Error: err.Error()})
				continue
			}
			return Output{}, fmt.Errorf("candidate %s: %w", product.Code, err)
		}
		res.ProductCode = product.Code
		out.Items = append(out.Items, Item{ProductCode: product.Code, Result: &res})
	}
	return out, nil
}

// MultiInput calculates many independent (beam, section) pairs in one
// request.
type MultiInput struct {
	Items []MultiItem `json:"items"`
}

type MultiItem struct {
	Beam    beamcheck.Input           `json:"beam"`
	Section catalog.SectionProperties `json:"section"`
}

type MultiOutput struct {
	Results []beamcheck.Result `json:"results"`
}

func CheckMany(in MultiInput) (MultiOutput, error) {
	if len(in.Items) == 0 {
		return MultiOutput{}, fmt.Errorf("no items")
	}
	out := MultiOutput{Results: make([]beamcheck.Result, 0, len(in.Items))}
	for i, item := range in.Items {
		res, err := beamcheck.Calculate(item.Beam, item.Section)
		if err != nil {
			return MultiOutput{}, fmt.Errorf("item %d: %w", i, err)
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}
