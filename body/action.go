package body

// ActionKind is the next thing a scheduler must do with a Task.
type ActionKind int

const (
	// ActionContinue: no I/O is pending, call Step again immediately.
	ActionContinue ActionKind = iota
	// ActionWaitRetry: the runtime must poll Waiter for readiness, then
	// call Step again. Waiter is whatever Source or Sink the task was
	// blocked on; the runtime, not this package, knows how to poll it.
	ActionWaitRetry
	// ActionAwaitSubtask: drive Child to ActionFinish first, then resume
	// this task via Step, passing Child's terminal error.
	ActionAwaitSubtask
	// ActionFinish: the task is done. Err is nil on success.
	ActionFinish
)

// Action is the value a Task's Step returns, describing the next
// scheduling step.
type Action struct {
	Kind   ActionKind
	Waiter interface{} // Source or Sink; set only for ActionWaitRetry
	Child  Task        // set only for ActionAwaitSubtask
	Err    error       // set only for ActionFinish
}

func actionContinue() Action                { return Action{Kind: ActionContinue} }
func actionWaitRetry(waiter interface{}) Action { return Action{Kind: ActionWaitRetry, Waiter: waiter} }
func actionAwaitSubtask(child Task) Action  { return Action{Kind: ActionAwaitSubtask, Child: child} }
func actionFinish(err error) Action         { return Action{Kind: ActionFinish, Err: err} }

// Task is a resumable cooperative decode step. All per-decode state lives
// in the concrete Task's fields, never on a call stack spanning
// suspensions, so a Task can be safely parked between calls to Step.
//
// Step advances the task by exactly one suspension point. childErr is nil
// unless the runtime is resuming this task after an ActionAwaitSubtask
// child reached ActionFinish, in which case it carries that child's
// terminal error (nil on success).
type Task interface {
	Step(childErr error) Action
}

// Run is a reference trampoline scheduler: it drives task to completion by
// itself, polling nothing (ActionWaitRetry is treated as "try again"),
// collapsed into a single synchronous loop. Real cooperative runtimes
// integrate Task differently, typically by registering Waiter with an
// event loop instead of spinning; Run exists so this package's own tests,
// and callers with no external scheduler, have a usable default.
func Run(task Task) error {
	var childErr error
	for {
		action := task.Step(childErr)
		childErr = nil
		switch action.Kind {
		case ActionContinue:
			continue
		case ActionWaitRetry:
			// No external readiness notification available here; spin.
			// A real runtime replaces this branch with an epoll/kqueue
			// wait keyed on action.Waiter.
			continue
		case ActionAwaitSubtask:
			childErr = Run(action.Child)
		case ActionFinish:
			return action.Err
		}
	}
}
