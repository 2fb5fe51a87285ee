package tasks

import (
	"github.com/kelsos/timecamp-cli/internal/models"
)

// Principal identifies who a visibility query runs for. TargetID is the
// numeric user id as a string; it stays empty when the caller-supplied
// identifier could not be resolved to a concrete user.
type Principal struct {
	IsSelf   bool
	TargetID string
}

// FilterOptions control a visibility query.
type FilterOptions struct {
	Principal             Principal
	IncludeFullBreadcrumb bool
}

// query holds the per-invocation lookup structures. Nothing here outlives a
// single PrepareTasks call.
type query struct {
	opts     FilterOptions
	byID     map[int]*models.Task
	children map[int][]int
	memo     map[int]bool
}

// PrepareTasks filters an id-keyed task map down to the tasks the principal
// may see and annotates each with its trackability. Archived tasks are
// always excluded. Result order is unspecified.
func PrepareTasks(taskMap models.TaskMap, opts FilterOptions) []models.Task {
	q := &query{
		opts: opts,
		byID: make(map[int]*models.Task, len(taskMap)),
		memo: make(map[int]bool),
	}

	for key := range taskMap {
		task := taskMap[key]
		q.byID[task.TaskID.Int()] = &task
	}

	// Subtree reachability is only consulted for other-principal breadcrumb
	// queries, so the adjacency map is built just for those.
	if !opts.Principal.IsSelf && opts.IncludeFullBreadcrumb {
		q.children = make(map[int][]int, len(q.byID))
		for id, task := range q.byID {
			parentID := task.ParentID.Int()
			q.children[parentID] = append(q.children[parentID], id)
		}
	}

	result := make([]models.Task, 0, len(q.byID))
	for _, task := range q.byID {
		canTrack := q.canTrackTime(task)
		if !q.shouldInclude(task, canTrack) {
			continue
		}

		out := *task
		out.Tags = nil
		if opts.IncludeFullBreadcrumb {
			trackable := canTrack
			out.CanTrackTime = &trackable
		} else if canTrack {
			trackable := true
			out.CanTrackTime = &trackable
		} else {
			out.CanTrackTime = nil
		}
		result = append(result, out)
	}

	return result
}

func (q *query) shouldInclude(task *models.Task, canTrack bool) bool {
	if task.Archived.Int() != 0 {
		return false
	}

	if !q.opts.IncludeFullBreadcrumb {
		return canTrack
	}

	if q.opts.Principal.IsSelf {
		return true
	}

	// Other-principal breadcrumb mode: keep ancestors of reachable tasks for
	// context even when not directly trackable.
	return canTrack || q.userInSubtree(task.TaskID.Int())
}

// canTrackTime determines direct trackability per principal kind.
func (q *query) canTrackTime(task *models.Task) bool {
	if q.opts.Principal.IsSelf {
		accessType := task.UserAccessType.Int()
		return accessType == models.AccessTypeWrite || accessType == models.AccessTypeAdmin
	}

	if q.opts.Principal.TargetID == "" {
		return false
	}

	return q.userInAncestry(task)
}

// userInAncestry walks parent links from task to its root, looking for the
// target user in any access list along the way. The walk keeps a visited set
// so cyclic parent data terminates as "no access".
func (q *query) userInAncestry(task *models.Task) bool {
	userID := q.opts.Principal.TargetID
	visited := make(map[int]bool)

	for current := task; current != nil; {
		id := current.TaskID.Int()
		if visited[id] {
			return false
		}
		visited[id] = true

		if _, ok := current.Users[userID]; ok {
			return true
		}

		parentID := current.ParentID.Int()
		if parentID == 0 {
			return false
		}
		current = q.byID[parentID]
	}

	// Parent pointed at a task missing from the mapping; treat as a root.
	return false
}

// userInSubtree reports whether the target user appears in any access list
// within the subtree rooted at rootID. Results are memoized per query so
// overlapping subtree checks across siblings are computed once. The walk is
// an explicit-stack DFS guarded against cyclic parent data.
func (q *query) userInSubtree(rootID int) bool {
	if v, ok := q.memo[rootID]; ok {
		return v
	}

	userID := q.opts.Principal.TargetID

	type frame struct {
		id   int
		next int
	}

	stack := []frame{{id: rootID}}
	onStack := map[int]bool{rootID: true}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]

		if f.next == 0 {
			task := q.byID[f.id]
			if task != nil {
				if _, ok := task.Users[userID]; ok {
					// Every frame below is an ancestor of this hit.
					for _, fr := range stack {
						q.memo[fr.id] = true
					}
					stack = nil
					continue
				}
			}
		}

		children := q.children[f.id]
		descended := false
		for f.next < len(children) {
			childID := children[f.next]
			f.next++

			if v, ok := q.memo[childID]; ok {
				if v {
					for _, fr := range stack {
						q.memo[fr.id] = true
					}
					stack = nil
					descended = true
				}
				if descended {
					break
				}
				continue
			}

			if onStack[childID] {
				continue
			}

			stack = append(stack, frame{id: childID})
			onStack[childID] = true
			descended = true
			break
		}
		if descended {
			continue
		}

		q.memo[f.id] = false
		delete(onStack, f.id)
		stack = stack[:len(stack)-1]
	}

	return q.memo[rootID]
}
