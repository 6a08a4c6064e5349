package cci

import (
	"gonum.org/v1/gonum/floats"
)

// Dataset is a validated session: trial responses, their conditions and a
// condition index built once and shared by every category.
type Dataset struct {
	Records []ResponseRecord
	Trials  []int
	index   *ConditionIndex
}

func NewDataset(records []ResponseRecord, trials []int) (*Dataset, error) {
	if len(records) == 0 {
		return nil, malformed("no response records")
	}
	if len(records) != len(trials) {
		return nil, malformed("%d response records but %d trial conditions", len(records), len(trials))
	}

	times := records[0].Times
	if len(times) == 0 {
		return nil, malformed("empty time axis")
	}
	for i, rec := range records {
		if rec.Data == nil {
			return nil, malformed("record %d has no data", i)
		}
		rows, cols := rec.Data.Dims()
		if rows == 0 {
			return nil, malformed("record %d has no sources", i)
		}
		if firstRows, _ := records[0].Data.Dims(); rows != firstRows {
			return nil, malformed("record %d has %d sources, expected %d", i, rows, firstRows)
		}
		if cols != len(times) {
			return nil, malformed("record %d has %d time steps, expected %d", i, cols, len(times))
		}
		if !floats.Equal(rec.Times, times) {
			return nil, malformed("record %d has a different time axis", i)
		}
	}

	return &Dataset{
		Records: records,
		Trials:  trials,
		index:   NewConditionIndex(trials),
	}, nil
}

func (d *Dataset) Times() []float64 {
	return d.Records[0].Times
}

func (d *Dataset) Candidates(r Range) []int {
	return d.index.Candidates(r)
}

// ZData builds the response structure for one category.
func (d *Dataset) ZData(r Range) ZData {
	return BuildZData(d.Trials, d.Candidates(r), r, d.Records, d.Times())
}
