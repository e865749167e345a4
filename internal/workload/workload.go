package workload

// Snapshot is an employee's workload breakdown at one instant. It is always
// recomputed from the stored assignments and initiatives, never cached, so it
// cannot drift from what is persisted.
//
// The two pools are independent: over-beyond work is bounded by its own cap
// and does not subtract from AvailableCapacity. The >100% total is reported
// by the rule engine, not rejected at write time.
type Snapshot struct {
	EmployeeID          int64 `json:"employee_id"`
	ProjectWorkload     int   `json:"project_workload"`
	OverBeyondWorkload  int   `json:"over_beyond_workload"`
	TotalWorkload       int   `json:"total_workload"`
	AvailableCapacity   int   `json:"available_capacity"`
	OverBeyondAvailable int   `json:"over_beyond_available"`
}
