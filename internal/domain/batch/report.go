// Package batch carries per-item outcomes of batch ingestion so partial
// failures surface as data instead of logs.
package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK      ItemStatus = "ok"
	StatusSkipped ItemStatus = "skipped"
)

// Result is the outcome of processing one record in a batch operation.
type Result struct {
	id     string
	status ItemStatus
	reason string
}

// NewOK creates a successful batch result.
func NewOK(id string) Result { return Result{id: id, status: StatusOK} }

// NewSkipped creates a skipped batch result with the failure reason.
func NewSkipped(id, reason string) Result {
	return Result{id: id, status: StatusSkipped, reason: reason}
}

// ID returns the record identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Reason returns the skip reason, empty for successful items.
func (r Result) Reason() string { return r.reason }

// Report aggregates per-record outcomes of one batch ingestion call.
type Report struct {
	items []Result
}

// NewReport creates an empty report.
func NewReport() *Report { return &Report{} }

// Add appends a record outcome.
func (r *Report) Add(item Result) { r.items = append(r.items, item) }

// Items returns all outcomes in insertion order.
func (r *Report) Items() []Result { return r.items }

// Succeeded returns the count of successfully indexed records.
func (r *Report) Succeeded() int {
	n := 0
	for _, item := range r.items {
		if item.status == StatusOK {
			n++
		}
	}
	return n
}

// Skipped returns the count of records skipped due to per-record failures.
func (r *Report) Skipped() int {
	n := 0
	for _, item := range r.items {
		if item.status == StatusSkipped {
			n++
		}
	}
	return n
}

// SkippedItems returns only the skipped outcomes.
func (r *Report) SkippedItems() []Result {
	var skipped []Result
	for _, item := range r.items {
		if item.status == StatusSkipped {
			skipped = append(skipped, item)
		}
	}
	return skipped
}
