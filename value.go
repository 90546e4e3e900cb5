package sqlite

import (
	"errors"
	"time"

	m "github.com/marcboeker/go-sqlite/mapping"
)

// Value is an argument of a scalar function call. It is only valid until
// the function returns; copy what you need to keep.
type Value struct {
	v m.Value
}

// Type returns the storage class of the value.
func (v Value) Type() Type {
	return Type(m.ValueType(v.v))
}

// NumericType returns the storage class after applying numeric affinity,
// e.g. TYPE_INTEGER for the text '42'.
func (v Value) NumericType() Type {
	return Type(m.ValueNumericType(v.v))
}

func (v Value) IsNull() bool {
	return v.Type() == TYPE_NULL
}

func (v Value) Int() int {
	return int(m.ValueInt64(v.v))
}

func (v Value) Int64() int64 {
	return m.ValueInt64(v.v)
}

func (v Value) Float() float64 {
	return m.ValueDouble(v.v)
}

func (v Value) Text() string {
	return m.ValueText(v.v)
}

// Blob returns a copy of the value's bytes, nil for NULL.
func (v Value) Blob() []byte {
	return m.ValueBlob(v.v)
}

// Interface returns the value as int64, float64, string, []byte or nil.
func (v Value) Interface() any {
	switch v.Type() {
	case TYPE_INTEGER:
		return v.Int64()
	case TYPE_FLOAT:
		return v.Float()
	case TYPE_TEXT:
		return v.Text()
	case TYPE_BLOB:
		b := v.Blob()
		if b == nil {
			b = []byte{}
		}
		return b
	}
	return nil
}

// FuncContext sets the result of a scalar function call. Like Value, it is
// only valid until the function returns.
type FuncContext struct {
	ctx m.Context
}

func (c *FuncContext) ResultNull() {
	m.ResultNull(c.ctx)
}

func (c *FuncContext) ResultInt(v int) {
	m.ResultInt64(c.ctx, int64(v))
}

func (c *FuncContext) ResultInt64(v int64) {
	m.ResultInt64(c.ctx, v)
}

func (c *FuncContext) ResultDouble(v float64) {
	m.ResultDouble(c.ctx, v)
}

func (c *FuncContext) ResultText(v string) {
	m.ResultText(c.ctx, v)
}

func (c *FuncContext) ResultBlob(v []byte) {
	m.ResultBlob(c.ctx, v)
}

// ResultZeroBlob sets a blob of n zero bytes as the result.
func (c *FuncContext) ResultZeroBlob(n int) {
	m.ResultZeroblob(c.ctx, n)
}

// ResultValue sets a copy of an argument as the result.
func (c *FuncContext) ResultValue(v Value) {
	m.ResultValue(c.ctx, v.v)
}

// ResultError makes the calling statement fail with msg.
func (c *FuncContext) ResultError(msg string) {
	m.ResultErrorMsg(c.ctx, msg)
}

// ResultErrorCode makes the calling statement fail with code.
func (c *FuncContext) ResultErrorCode(code ErrorCode) {
	m.ResultErrorCode(c.ctx, int(code))
}

// Result sets v as the result. It accepts the types Stmt.Bind accepts.
func (c *FuncContext) Result(v any) error {
	switch v := v.(type) {
	case nil:
		c.ResultNull()
	case bool:
		if v {
			c.ResultInt64(1)
		} else {
			c.ResultInt64(0)
		}
	case int:
		c.ResultInt64(int64(v))
	case int8:
		c.ResultInt64(int64(v))
	case int16:
		c.ResultInt64(int64(v))
	case int32:
		c.ResultInt64(int64(v))
	case int64:
		c.ResultInt64(v)
	case uint8:
		c.ResultInt64(int64(v))
	case uint16:
		c.ResultInt64(int64(v))
	case uint32:
		c.ResultInt64(int64(v))
	case float32:
		c.ResultDouble(float64(v))
	case float64:
		c.ResultDouble(v)
	case string:
		c.ResultText(v)
	case []byte:
		if v == nil {
			c.ResultNull()
		} else {
			c.ResultBlob(v)
		}
	case time.Time:
		c.ResultText(v.Format(time.RFC3339Nano))
	case Value:
		c.ResultValue(v)
	default:
		return unsupportedTypeError(typeName(v))
	}
	return nil
}

// setError reports err as the failure of the function call. The code of an
// *Error is kept.
func (c *FuncContext) setError(err error) {
	c.ResultError(err.Error())
	var sqliteErr *Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode > 0 {
		c.ResultErrorCode(sqliteErr.ExtendedCode)
	}
}
