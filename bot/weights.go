package bot

// taskWeights accumulates weighted votes for candidate tasks across the
// decision loop's branches. Insertion order is preserved and the argmax
// uses a strict comparison, so on a tie the first-inserted task wins.
// That tie-break is load-bearing: changing it changes bot behavior.
type taskWeights struct {
	order   []Task
	weights map[Task]float64
}

func newTaskWeights() *taskWeights {
	return &taskWeights{weights: make(map[Task]float64)}
}

// add records a vote for t. Re-adding a task replaces its weight but
// keeps its original position in the tie-break order.
func (tw *taskWeights) add(t Task, w float64) {
	if _, seen := tw.weights[t]; !seen {
		tw.order = append(tw.order, t)
	}
	tw.weights[t] = w
}

// argmax returns the highest-weighted task, or fallback when no task
// beats a zero weight.
func (tw *taskWeights) argmax(fallback Task) Task {
	best := fallback
	max := 0.0
	for _, t := range tw.order {
		if tw.weights[t] > max {
			max = tw.weights[t]
			best = t
		}
	}
	return best
}
