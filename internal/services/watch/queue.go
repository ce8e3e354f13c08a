package watch

import "sync"

// Queue is an append-only, de-duplicated list of branch names in insertion order.
type Queue struct {
	mutex       sync.Mutex
	branchNames []string
	seen        map[string]struct{}
}

// NewQueue returns a Queue holding branchNames, duplicates dropped.
func NewQueue(branchNames ...string) *Queue {
	queue := &Queue{seen: map[string]struct{}{}}
	for _, branchName := range branchNames {
		queue.Add(branchName)
	}
	return queue
}

// Add appends branchName and reports whether it was not queued before.
func (queue *Queue) Add(branchName string) bool {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()
	if queue.seen == nil {
		queue.seen = map[string]struct{}{}
	}
	if _, exists := queue.seen[branchName]; exists {
		return false
	}
	queue.seen[branchName] = struct{}{}
	queue.branchNames = append(queue.branchNames, branchName)
	return true
}

// Branches returns a copy of the queued names.
func (queue *Queue) Branches() []string {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()
	return append([]string(nil), queue.branchNames...)
}

// Len reports the number of queued branches.
func (queue *Queue) Len() int {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()
	return len(queue.branchNames)
}
