// Package dispatch validates, authorizes, and executes structured intents
// against the entity store. Execute is total: every path, including store
// failures, terminates in a DispatchResult. The dispatcher never raises
// past its boundary.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/catalog"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/logging"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/store"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

// Dispatcher executes catalog operations against the entity store.
type Dispatcher struct {
	store   store.EntityStore
	timeout time.Duration
	now     func() time.Time // injectable for tests
}

// New creates a dispatcher over the given entity store.
func New(st store.EntityStore) *Dispatcher {
	return &Dispatcher{
		store:   st,
		timeout: 15 * time.Second,
		now:     time.Now,
	}
}

// WithTimeout overrides the per-call store timeout.
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	d.timeout = timeout
	return d
}

// Execute runs one structured intent through the state machine:
// received → validated → authorized → executed. Arguments arrive as the
// untyped mapping produced by the provider and are validated here against
// the catalog contract before any store call.
func (d *Dispatcher) Execute(ctx context.Context, name string, args map[string]any) types.DispatchResult {
	start := time.Now()
	logging.Dispatch("execute %s", name)

	spec, found := catalog.Lookup(name)
	if !found {
		logging.DispatchWarn("rejected unknown operation %q", name)
		return fail(opError{kind: ErrUnknownOperation, msg: fmt.Sprintf("Невідома операція %q.", name)})
	}

	if missing := spec.MissingArgs(args); len(missing) > 0 {
		logging.DispatchWarn("%s: missing required arguments: %v", name, missing)
		return fail(opError{kind: ErrValidation,
			msg: fmt.Sprintf("Відсутні обов'язкові параметри: %s.", strings.Join(missing, ", "))})
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	var msg string
	var err error
	switch name {
	case catalog.OpUpdateTaskTime:
		msg, err = d.updateTaskTime(ctx, args)
	case catalog.OpUpdateTaskInfo:
		msg, err = d.updateTaskInfo(ctx, args)
	case catalog.OpManageAssignments:
		msg, err = d.manageAssignments(ctx, args)
	case catalog.OpShowAssignments:
		msg, err = d.showAssignments(ctx, args)
	default:
		// Unreachable while the switch covers the catalog; kept as a
		// guard so a new catalog entry without a handler fails closed.
		err = opError{kind: ErrUnknownOperation, msg: fmt.Sprintf("Невідома операція %q.", name)}
	}

	if err != nil {
		logging.DispatchWarn("%s failed after %v: %v", name, time.Since(start), err)
		return fail(err)
	}

	logging.Dispatch("%s completed in %v", name, time.Since(start))
	return types.DispatchResult{Success: true, Message: msg}
}

// opError couples a failure class with its localized user-facing message.
type opError struct {
	kind error // one of the sentinel errors
	msg  string
}

func (e opError) Error() string { return e.msg }
func (e opError) Unwrap() error { return e.kind }

func validationErr(format string, args ...any) error {
	return opError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func authorizationErr() error {
	return opError{kind: ErrAuthorization, msg: "Недостатньо прав для цієї операції."}
}

func notFoundErr(format string, args ...any) error {
	return opError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// wrapStoreErr converts an entity store failure into a tagged error,
// preserving the missing-record class when the store reports it.
func wrapStoreErr(err error, notFoundMsg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return opError{kind: ErrNotFound, msg: notFoundMsg}
	}
	logging.Get(logging.CategoryDispatch).Error("store failure: %v", err)
	return opError{kind: ErrStore, msg: "Помилка сховища даних, спробуйте пізніше."}
}

// isNotFound reports whether the entity store signalled a missing record.
func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// fail converts a handler error into the opaque result. Unclassified
// errors (context timeouts and the like) get a generic store message.
func fail(err error) types.DispatchResult {
	var oe opError
	if errors.As(err, &oe) {
		return types.DispatchResult{Success: false, Message: oe.msg}
	}
	return types.DispatchResult{Success: false, Message: "Помилка сховища даних, спробуйте пізніше."}
}
