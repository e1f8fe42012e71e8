package batch

// FailedItem records one issue that exhausted its attempts, with the last
// error's message.
type FailedItem struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// Result is the aggregate outcome of a batch. Every issue in the working
// set lands in exactly one of Succeeded or Failed, so
// len(Succeeded)+len(Failed) == Total. The JSON shape is part of the
// command's machine-readable contract.
type Result struct {
	Succeeded []string     `json:"succeeded"`
	Failed    []FailedItem `json:"failed"`
	Total     int          `json:"total"`
}

// AllSucceeded reports whether no issue failed.
func (r *Result) AllSucceeded() bool {
	return len(r.Failed) == 0
}
