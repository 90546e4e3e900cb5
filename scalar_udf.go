package sqlite

// Related issues: https://golang.org/issue/19835, https://golang.org/issue/19837.

/*
void scalar_func_callback(void *, int, void *);
void scalar_func_destroy_callback(void *);

typedef void (*scalar_func_callback_t)(void *, int, void *);
typedef void (*scalar_func_destroy_callback_t)(void *);
*/
import "C"

import (
	"fmt"
	"unsafe"

	m "github.com/marcboeker/go-sqlite/mapping"
)

// ScalarFunc is a user-defined scalar SQL function.
type ScalarFunc interface {
	// Invoke computes the result of one call and sets it on ctx. A returned
	// error makes the calling statement fail with the error's message.
	Invoke(ctx *FuncContext, args []Value) error
}

// ScalarFuncFunc adapts a function to ScalarFunc.
type ScalarFuncFunc func(ctx *FuncContext, args []Value) error

func (f ScalarFuncFunc) Invoke(ctx *FuncContext, args []Value) error {
	return f(ctx, args)
}

// RowFunc returns a ScalarFunc whose result is the value fn returns.
// The value must be of a type accepted by FuncContext.Result.
func RowFunc(fn func(args []Value) (any, error)) ScalarFunc {
	return ScalarFuncFunc(func(ctx *FuncContext, args []Value) error {
		v, err := fn(args)
		if err != nil {
			return err
		}
		return ctx.Result(v)
	})
}

type scalarFunc struct {
	table *callbackTable
	key   funcKey
	fn    ScalarFunc
}

// CreateScalarFunction registers fn as the SQL function name taking arity
// arguments, or any number of them if arity is -1. Registering a function
// under an existing name and arity replaces it, and a nil fn removes it.
// The flags are passed to the engine unmodified.
func (c *Conn) CreateScalarFunction(name string, arity int, flags FuncFlag, fn ScalarFunc) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if name == "" {
		return getError(ErrCallback, wrapperError(noFuncNameErrMsg, ""))
	}

	if fn == nil {
		if rc := m.CreateFunctionV2(c.db, name, arity, int(flags), nil, nil, nil); rc != m.ResultOK {
			return getError(ErrCallback, dbError(c.db, rc, ""))
		}
		return nil
	}

	f := &scalarFunc{
		table: c.callbacks,
		key:   newFuncKey(name, arity),
		fn:    fn,
	}

	// The engine calls the destroy callback on failure, too.
	callbackPtr := unsafe.Pointer(C.scalar_func_callback_t(C.scalar_func_callback))
	destroyPtr := unsafe.Pointer(C.scalar_func_destroy_callback_t(C.scalar_func_destroy_callback))
	rc := m.CreateFunctionV2(c.db, name, arity, int(flags), pin(f), callbackPtr, destroyPtr)
	if rc != m.ResultOK {
		return getError(ErrCallback, dbError(c.db, rc, ""))
	}
	c.callbacks.addFunc(f)
	return nil
}

//export scalar_func_callback
func scalar_func_callback(ctxPtr unsafe.Pointer, argc C.int, argv unsafe.Pointer) {
	ctx := &FuncContext{ctx: m.ContextFromPtr(ctxPtr)}
	f := getPinned[*scalarFunc](m.UserData(ctx.ctx))

	// A panic must not unwind into the engine.
	defer func() {
		if r := recover(); r != nil {
			ctx.ResultError(fmt.Sprintf("%s: panic in function %s: %v", ErrCallback, f.key.name, r))
		}
	}()

	args := make([]Value, int(argc))
	for i := range args {
		args[i] = Value{v: m.ValueAt(argv, i)}
	}

	if err := f.fn.Invoke(ctx, args); err != nil {
		ctx.setError(err)
	}
}

//export scalar_func_destroy_callback
func scalar_func_destroy_callback(app unsafe.Pointer) {
	f := getPinned[*scalarFunc](app)
	f.table.removeFunc(f)
	release(app)
}
