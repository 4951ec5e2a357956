package board

import "math"

// Stats are the aggregate numbers shown above the board.
type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	InProgress     int `json:"inProgress"`
	Pending        int `json:"pending"`
	CompletionRate int `json:"completionRate"`
}

// ComputeStats derives Stats from a board state.
func ComputeStats(state State) Stats {
	stats := Stats{
		Total:      state.Len(),
		Completed:  len(state.Done),
		InProgress: len(state.InProgress),
		Pending:    len(state.Todo),
	}
	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(100 * float64(stats.Completed) / float64(stats.Total)))
	}
	return stats
}
