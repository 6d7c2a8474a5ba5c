package modlate

import "time"

// UnitStatus is the final outcome of one translation unit.
type UnitStatus string

const (
	// StatusCached means the translation was served from the cache.
	StatusCached UnitStatus = "cached"
	// StatusTranslated means the provider produced a new translation.
	StatusTranslated UnitStatus = "translated"
	// StatusFailed means translation failed; the source text was kept.
	StatusFailed UnitStatus = "failed"
	// StatusSkipped means the extractor judged the text untranslatable.
	StatusSkipped UnitStatus = "skipped"
)

// FileState is the stage a file reached in the pipeline.
type FileState string

const (
	StateExtracting    FileState = "extracting"
	StateLookupPending FileState = "lookup_pending"
	StateTranslating   FileState = "translating"
	StateMerging       FileState = "merging"
	StateDone          FileState = "done"
	StateFailed        FileState = "failed"
)

// UnitReport records the final status of one unit.
type UnitReport struct {
	UnitID string
	Status UnitStatus
	Error  string // error detail for failed units
}

// FileReport summarizes one file's run. Unit-level failures leave the file
// in StateDone with degraded content; only format errors, merge errors, and
// cancellation put a file in StateFailed.
type FileReport struct {
	Name  string
	State FileState
	Error string
	Units []UnitReport

	Cached     int
	Translated int
	Failed     int
	Skipped    int
}

// JobReport is the read-only summary of a pipeline run.
type JobReport struct {
	Files []FileReport

	Cached     int
	Translated int
	Failed     int
	Skipped    int

	FilesDone   int
	FilesFailed int

	// CacheWarning is set when cache persistence failed and the run
	// continued on an in-memory cache.
	CacheWarning string

	Elapsed time.Duration
}

// addUnit records a unit outcome and updates the counters.
func (f *FileReport) addUnit(id string, status UnitStatus, errDetail string) {
	f.Units = append(f.Units, UnitReport{UnitID: id, Status: status, Error: errDetail})
	switch status {
	case StatusCached:
		f.Cached++
	case StatusTranslated:
		f.Translated++
	case StatusFailed:
		f.Failed++
	case StatusSkipped:
		f.Skipped++
	}
}

// add folds a file report into the job totals.
func (r *JobReport) add(f FileReport) {
	r.Files = append(r.Files, f)
	r.Cached += f.Cached
	r.Translated += f.Translated
	r.Failed += f.Failed
	r.Skipped += f.Skipped
	if f.State == StateFailed {
		r.FilesFailed++
	} else {
		r.FilesDone++
	}
}
