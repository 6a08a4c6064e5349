package cci

import (
	"fmt"
	"math"
	"strconv"

	"github.com/bytedance/sonic"
)

// jsonScore encodes non-finite scores as the strings "NaN", "+Inf" and
// "-Inf", which plain JSON numbers cannot represent.
type jsonScore float64

func (s jsonScore) MarshalJSON() ([]byte, error) {
	f := float64(s)
	switch {
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func (s *jsonScore) UnmarshalJSON(data []byte) error {
	text := string(data)
	if len(text) >= 2 && text[0] == '"' {
		text = text[1 : len(text)-1]
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("invalid score %s: %w", data, err)
	}
	*s = jsonScore(f)
	return nil
}

type resultJSON struct {
	Times      []float64     `json:"times"`
	Categories []Range       `json:"categories"`
	Scores     [][]jsonScore `json:"scores"`
}

// MarshalJSON writes scores parallel to times; JSON objects cannot carry
// float keys.
func (r Result) MarshalJSON() ([]byte, error) {
	doc := resultJSON{
		Times:      r.Times,
		Categories: r.Categories,
		Scores:     make([][]jsonScore, len(r.Times)),
	}
	for i, t := range r.Times {
		row := make([]jsonScore, len(r.Scores[t]))
		for j, v := range r.Scores[t] {
			row[j] = jsonScore(v)
		}
		doc.Scores[i] = row
	}
	return sonic.Marshal(doc)
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var doc resultJSON
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return err
	}
	if len(doc.Scores) != len(doc.Times) {
		return fmt.Errorf("result has %d score rows for %d time steps", len(doc.Scores), len(doc.Times))
	}
	r.Times = doc.Times
	r.Categories = doc.Categories
	r.Scores = make(map[float64][]float64, len(doc.Times))
	for i, t := range doc.Times {
		row := make([]float64, len(doc.Scores[i]))
		for j, v := range doc.Scores[i] {
			row[j] = float64(v)
		}
		r.Scores[t] = row
	}
	return nil
}
