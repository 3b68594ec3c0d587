package rollback

import "github.com/charmbracelet/log"

// Record is one completed rename.
type Record struct {
	From string
	To   string
}

// Journal is the ordered log of completed renames.
type Journal struct {
	records []Record

	fs  FileSystem
	log *log.Logger
}

// Record appends a rename that has already succeeded.
func (j *Journal) Record(from, to string) {
	j.records = append(j.records, Record{From: from, To: to})
}

// Records returns a copy of the journal in insertion order.
func (j *Journal) Records() []Record {
	out := make([]Record, len(j.records))
	copy(out, j.records)
	return out
}

// Len returns the number of journaled renames.
func (j *Journal) Len() int { return len(j.records) }

// Rollback renames every record back, newest first. A failure is logged,
// reported and skipped.
func (j *Journal) Rollback() []Warning {
	var warnings []Warning
	for i := len(j.records) - 1; i >= 0; i-- {
		rec := j.records[i]
		if err := j.fs.Rename(rec.To, rec.From); err != nil {
			j.log.Warn("could not roll back rename", "from", rec.To, "to", rec.From, "err", err)
			warnings = append(warnings, Warning{Op: OpRename, Path: rec.To, Target: rec.From, Err: err})
		}
	}
	j.records = nil
	return warnings
}
