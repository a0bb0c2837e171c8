package repo

import (
	"errors"
	"sort"
	"sync"

	"github.com/keshon/snapvcs/internal/errs"
	"github.com/keshon/snapvcs/internal/util"
)

// RecordStatus is the outcome of re-reading one commit record.
type RecordStatus int

const (
	RecordOK RecordStatus = iota
	RecordMalformed
	RecordUnreadable
)

func (s RecordStatus) String() string {
	switch s {
	case RecordOK:
		return "ok"
	case RecordMalformed:
		return "malformed"
	default:
		return "unreadable"
	}
}

// RecordCheck is the verification result for one commit record on disk.
type RecordCheck struct {
	ID       int
	Status   RecordStatus
	Reason   string
	Files    int
	Checksum string
}

// VerifyReport collects every record check plus repository level findings.
type VerifyReport struct {
	Records        []RecordCheck
	Contiguous     int   // highest id reachable from 1 without a gap
	Orphans        []int // ids on disk beyond the contiguous run
	MetadataFound  bool
	MetadataNextID int
	DerivedNextID  int
}

// Drift reports whether the metadata counter disagrees with the commits.
func (v *VerifyReport) Drift() bool {
	return v.MetadataFound && v.MetadataNextID != v.DerivedNextID
}

// OK reports whether nothing needs attention.
func (v *VerifyReport) OK() bool {
	if v.Drift() || len(v.Orphans) > 0 {
		return false
	}
	for _, rc := range v.Records {
		if rc.Status != RecordOK {
			return false
		}
	}
	return true
}

// CountRecords returns how many commit records are on disk.
func (r *Repository) CountRecords() (int, error) {
	ids, err := r.store.Scan()
	return len(ids), err
}

// VerifyStream re-reads every commit record found on disk and streams the
// results as workers finish, in no particular order.
func (r *Repository) VerifyStream(workers int) (<-chan RecordCheck, <-chan error) {
	out := make(chan RecordCheck, 128)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		ids, err := r.store.Scan()
		if err != nil {
			errCh <- err
			return
		}
		if workers <= 0 {
			workers = util.WorkerCount()
		}

		tasks := make(chan int, len(ids))
		for _, id := range ids {
			tasks <- id
		}
		close(tasks)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for id := range tasks {
					out <- r.checkRecord(id)
				}
			}()
		}
		wg.Wait()
	}()

	return out, errCh
}

func (r *Repository) checkRecord(id int) RecordCheck {
	c, err := r.store.LoadCommit(id)
	switch {
	case err == nil:
		return RecordCheck{ID: id, Status: RecordOK, Files: c.Len(), Checksum: c.Checksum()}
	case errors.Is(err, errs.ErrMalformedRecord):
		return RecordCheck{ID: id, Status: RecordMalformed, Reason: err.Error()}
	default:
		return RecordCheck{ID: id, Status: RecordUnreadable, Reason: err.Error()}
	}
}

// Verify runs VerifyStream to completion and summarizes the results.
// It works on an uninitialized instance too, since it only inspects the
// storage root.
func (r *Repository) Verify() (*VerifyReport, error) {
	out, errCh := r.VerifyStream(0)

	var records []RecordCheck
	for rc := range out {
		records = append(records, rc)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return r.Summarize(records)
}

// Summarize orders record checks by id and adds the gap and metadata
// findings.
func (r *Repository) Summarize(records []RecordCheck) (*VerifyReport, error) {
	rep := &VerifyReport{Records: records}
	sort.Slice(rep.Records, func(i, j int) bool { return rep.Records[i].ID < rep.Records[j].ID })

	ok := map[int]bool{}
	for _, rc := range rep.Records {
		ok[rc.ID] = rc.Status == RecordOK
	}
	for ok[rep.Contiguous+1] {
		rep.Contiguous++
	}
	for _, rc := range rep.Records {
		if rc.ID > rep.Contiguous {
			rep.Orphans = append(rep.Orphans, rc.ID)
		}
	}
	rep.DerivedNextID = rep.Contiguous + 1

	m, found, err := r.store.LoadMetadata()
	if err != nil {
		return nil, err
	}
	rep.MetadataFound = found
	rep.MetadataNextID = m.NextID

	r.log.Debug("verify finished", "records", len(rep.Records), "orphans", rep.Orphans)
	return rep, nil
}
