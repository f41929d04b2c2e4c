// Package taxonomy provides the CNPq knowledge-area hierarchy used to
// classify submissions. The dataset is embedded at build time and loaded
// once; all accessors are read-only.
package taxonomy

import (
	_ "embed"
	"encoding/json"
	"strings"
)

//go:embed cnpq_areas.json
var cnpqData []byte

// AreaOption is a single selectable area at any level of the hierarchy.
type AreaOption struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	NameEN string `json:"name_en"`
}

// AreaInfo is the result of a full-code lookup, including the level the
// code resolved to: grande_area, area or subarea.
type AreaInfo struct {
	Type   string `json:"type"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	NameEN string `json:"name_en"`
}

type area struct {
	Code     string       `json:"code"`
	Name     string       `json:"name"`
	NameEN   string       `json:"name_en"`
	Subareas []AreaOption `json:"subareas"`
}

type grandeArea struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	NameEN string `json:"name_en"`
	Areas  []area `json:"areas"`
}

type dataset struct {
	GrandeAreas []grandeArea `json:"grande_areas"`
}

var (
	grandeAreas []grandeArea
	areasByCode map[string]*area
	gaByCode    map[string]*grandeArea
)

func init() {
	var ds dataset
	if err := json.Unmarshal(cnpqData, &ds); err != nil {
		panic("taxonomy: invalid embedded cnpq_areas.json: " + err.Error())
	}
	grandeAreas = ds.GrandeAreas

	gaByCode = make(map[string]*grandeArea, len(grandeAreas))
	areasByCode = make(map[string]*area)
	for i := range grandeAreas {
		ga := &grandeAreas[i]
		gaByCode[ga.Code] = ga
		for j := range ga.Areas {
			areasByCode[ga.Areas[j].Code] = &ga.Areas[j]
		}
	}
}

// GrandeAreas returns the top-level areas.
func GrandeAreas() []AreaOption {
	out := make([]AreaOption, 0, len(grandeAreas))
	for _, ga := range grandeAreas {
		out = append(out, AreaOption{Code: ga.Code, Name: ga.Name, NameEN: ga.NameEN})
	}
	return out
}

// Areas returns the mid-level areas under a grande área code. The result is
// nil when the code is unknown.
func Areas(grandeAreaCode string) []AreaOption {
	ga, ok := gaByCode[grandeAreaCode]
	if !ok {
		return nil
	}
	out := make([]AreaOption, 0, len(ga.Areas))
	for _, a := range ga.Areas {
		out = append(out, AreaOption{Code: a.Code, Name: a.Name, NameEN: a.NameEN})
	}
	return out
}

// Subareas returns the leaf subareas under an área code. Some áreas have no
// subareas, so an empty (non-nil) slice is a valid answer for a known code.
func Subareas(areaCode string) []AreaOption {
	a, ok := areasByCode[areaCode]
	if !ok {
		return nil
	}
	if a.Subareas == nil {
		return []AreaOption{}
	}
	return a.Subareas
}

// Lookup resolves a full code of one, two or three segments
// (e.g. "1", "1.01", "1.01.02") to its entry. Returns nil when not found.
func Lookup(code string) *AreaInfo {
	parts := strings.Split(code, ".")

	switch len(parts) {
	case 1:
		if ga, ok := gaByCode[code]; ok {
			return &AreaInfo{Type: "grande_area", Code: code, Name: ga.Name, NameEN: ga.NameEN}
		}
	case 2:
		if a, ok := areasByCode[code]; ok {
			return &AreaInfo{Type: "area", Code: code, Name: a.Name, NameEN: a.NameEN}
		}
	case 3:
		areaCode := parts[0] + "." + parts[1]
		a, ok := areasByCode[areaCode]
		if !ok {
			return nil
		}
		for _, sa := range a.Subareas {
			if sa.Code == code {
				return &AreaInfo{Type: "subarea", Code: code, Name: sa.Name, NameEN: sa.NameEN}
			}
		}
	}

	return nil
}
