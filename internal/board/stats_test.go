package board

import "testing"

func TestComputeStats(t *testing.T) {
	task := func(id string) Task { return Task{ID: id, Content: id} }

	tests := []struct {
		name  string
		state State
		want  Stats
	}{
		{
			name:  "empty board",
			state: State{},
			want:  Stats{},
		},
		{
			name:  "one of three done",
			state: State{Todo: []Task{task("A"), task("B")}, Done: []Task{task("C")}},
			want:  Stats{Total: 3, Completed: 1, InProgress: 0, Pending: 2, CompletionRate: 33},
		},
		{
			name:  "two of three done rounds up",
			state: State{InProgress: []Task{task("A")}, Done: []Task{task("B"), task("C")}},
			want:  Stats{Total: 3, Completed: 2, InProgress: 1, Pending: 0, CompletionRate: 67},
		},
		{
			name:  "half rounds away from zero",
			state: State{Todo: []Task{task("A")}, Done: []Task{task("B")}},
			want:  Stats{Total: 2, Completed: 1, Pending: 1, CompletionRate: 50},
		},
		{
			name:  "one of eight is 12.5 percent",
			state: State{Todo: []Task{task("1"), task("2"), task("3"), task("4"), task("5"), task("6"), task("7")}, Done: []Task{task("8")}},
			want:  Stats{Total: 8, Completed: 1, Pending: 7, CompletionRate: 13},
		},
		{
			name:  "all done",
			state: State{Done: []Task{task("A")}},
			want:  Stats{Total: 1, Completed: 1, CompletionRate: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeStats(tt.state); got != tt.want {
				t.Errorf("ComputeStats: got %+v, want %+v", got, tt.want)
			}
		})
	}
}
