package models

// TableStats holds row-activity counters from pg_stat_user_tables.
// Values reflect the engine's current bookkeeping, which may lag
// behind reality until the next (auto)analyze.
type TableStats struct {
	LiveTuples int64 `json:"live_tuples"`
	DeadTuples int64 `json:"dead_tuples"`
	Inserts    int64 `json:"inserts"`
	Updates    int64 `json:"updates"`
	Deletes    int64 `json:"deletes"`
}

// StorageSizes holds human-readable relation sizes as reported by the
// engine's own size functions. ToastSize is empty when the table has
// no TOAST relation.
type StorageSizes struct {
	TotalSize string `json:"total_size"`
	TableSize string `json:"table_size"`
	IndexSize string `json:"index_size"`
	ToastSize string `json:"toast_size,omitempty"`
}

// Report pairs theoretical per-row estimates with the engine-reported
// statistics for one table. Plain data; rendering is the caller's job.
type Report struct {
	Table     string           `json:"table"`
	Estimates []*TupleEstimate `json:"estimates"`
	Stats     *TableStats      `json:"stats"`
	Sizes     *StorageSizes    `json:"sizes"`
}
