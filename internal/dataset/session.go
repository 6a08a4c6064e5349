package dataset

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/cci/internal/cci"
)

// SourceFile is the serialized form of a session's source estimates.
// Records is indexed trial, source, time step.
type SourceFile struct {
	Times   []float64     `json:"times"`
	Records [][][]float64 `json:"records"`
}

// Session is a loaded recording ready for the orchestrator.
type Session struct {
	Records []cci.ResponseRecord
	Trials  []int
}

// ToRecords converts the serialized trials into response records sharing one
// time axis.
func (f SourceFile) ToRecords() ([]cci.ResponseRecord, error) {
	records := make([]cci.ResponseRecord, len(f.Records))
	for i, trial := range f.Records {
		if len(trial) == 0 {
			return nil, fmt.Errorf("trial %d has no sources", i)
		}
		data := mat.NewDense(len(trial), len(f.Times), nil)
		for s, series := range trial {
			if len(series) != len(f.Times) {
				return nil, fmt.Errorf("trial %d source %d has %d time steps, expected %d", i, s, len(series), len(f.Times))
			}
			data.SetRow(s, series)
		}
		records[i] = cci.ResponseRecord{Data: data, Times: f.Times}
	}
	return records, nil
}

// FromRecords is the inverse of ToRecords.
func FromRecords(records []cci.ResponseRecord) SourceFile {
	var f SourceFile
	if len(records) == 0 {
		return f
	}
	f.Times = records[0].Times
	f.Records = make([][][]float64, len(records))
	for i, rec := range records {
		rows, _ := rec.Data.Dims()
		trial := make([][]float64, rows)
		for s := range rows {
			trial[s] = mat.Row(nil, s, rec.Data)
		}
		f.Records[i] = trial
	}
	return f
}

// LoadSession reads the source estimate and condition blobs of one session.
func LoadSession(dataDir, prefix string, key SessionKey) (*Session, error) {
	sourceData, sourcePath, err := readBlob(SourcePath(dataDir, prefix, key))
	if err != nil {
		return nil, fmt.Errorf("read source estimates: %w", err)
	}
	var sources SourceFile
	if err := Decode(sourceData, &sources); err != nil {
		return nil, fmt.Errorf("decode %s: %w", sourcePath, err)
	}

	condData, condPath, err := readBlob(ConditionPath(dataDir, prefix, key))
	if err != nil {
		return nil, fmt.Errorf("read conditions: %w", err)
	}
	var trials []int
	if err := Decode(condData, &trials); err != nil {
		return nil, fmt.Errorf("decode %s: %w", condPath, err)
	}

	records, err := sources.ToRecords()
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", sourcePath, err)
	}

	log.Info().
		Str("sources", sourcePath).
		Str("conditions", condPath).
		Int("trials", len(trials)).
		Int("time_steps", len(sources.Times)).
		Msg("loaded session")

	return &Session{Records: records, Trials: trials}, nil
}

// SaveSession writes a session in the layout LoadSession reads. Blobs are
// zstd compressed when compress is set.
func SaveSession(dataDir, prefix string, key SessionKey, s *Session, compress bool) error {
	ext := jsonExt
	if compress {
		ext += zstdExt
	}
	sourcePath := SourcePath(dataDir, prefix, key) + ext
	if err := mkdirFor(sourcePath); err != nil {
		return err
	}
	if err := writeBlob(sourcePath, FromRecords(s.Records)); err != nil {
		return fmt.Errorf("write source estimates: %w", err)
	}
	if err := writeBlob(ConditionPath(dataDir, prefix, key)+ext, s.Trials); err != nil {
		return fmt.Errorf("write conditions: %w", err)
	}
	return nil
}
