// Package messages holds the short notices shown after board actions.
package messages

import (
	"math/rand"
	"sync"
	"time"
)

// Kind selects a message pool.
type Kind string

const (
	Success Kind = "success"
	Warning Kind = "warning"
	Error   Kind = "error"
)

var pools = map[Kind][]string{
	Success: {
		"🎉 Great job completing that task!",
		"🌟 You're on fire! Another task down!",
		"💪 You're making great progress!",
		"🎯 Nailed it! Task complete!",
		"⭐ Awesome work! Keep it up!",
		"🚀 You're crushing it today!",
		"🏆 Victory! Task accomplished!",
		"✨ Brilliant work! Task done!",
		"💫 You're doing amazing!",
		"🌈 Success! Keep the momentum going!",
	},
	Warning: {
		"⚠️ Task due soon!",
		"⏰ Don't forget this task!",
	},
	Error: {
		"❌ Task removal failed",
		"⚠️ Couldn't update task",
	},
}

// Error pool entries by purpose.
const (
	RemoveFailed = "❌ Task removal failed"
	UpdateFailed = "⚠️ Couldn't update task"
)

// All returns a copy of the pool for kind. Unknown kinds use Success.
func All(kind Kind) []string {
	pool, ok := pools[kind]
	if !ok {
		pool = pools[Success]
	}
	return append([]string(nil), pool...)
}

// Picker draws random messages from the pools.
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker returns a picker using rng, or a time-seeded source if nil.
func NewPicker(rng *rand.Rand) *Picker {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Picker{rng: rng}
}

// Pick returns a random message of the given kind.
func (p *Picker) Pick(kind Kind) string {
	pool, ok := pools[kind]
	if !ok {
		pool = pools[Success]
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return pool[p.rng.Intn(len(pool))]
}

var defaultPicker = NewPicker(nil)

// Random returns a random message of the given kind.
func Random(kind Kind) string {
	return defaultPicker.Pick(kind)
}
