package mlmodel

// Classifier produces an irrigation class id for a scaled feature vector.
type Classifier interface {
	Predict(features []float64) int
}

// TreeNode is one node of a decision tree in array form. Feature < 0 marks a
// leaf carrying the class.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Class     int     `json:"class"`
}

// DecisionTree walks its node array from the root at index 0.
type DecisionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

func (t *DecisionTree) Predict(x []float64) int {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature < 0 {
			return n.Class
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Forest is a tree ensemble classifying by majority vote. Ties break toward
// the lower class id so predictions stay deterministic.
type Forest struct {
	Trees []DecisionTree `json:"trees"`
}

func (f *Forest) Predict(x []float64) int {
	votes := make(map[int]int, 4)
	for i := range f.Trees {
		votes[f.Trees[i].Predict(x)]++
	}
	best, bestVotes := 0, -1
	for class, n := range votes {
		if n > bestVotes || (n == bestVotes && class < best) {
			best, bestVotes = class, n
		}
	}
	return best
}
