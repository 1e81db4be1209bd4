package store

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DBType is the database type a parameter is bound as.
type DBType int

const (
	Char      DBType = iota + 1 // fixed length text
	NChar                       // fixed length unicode text
	VarChar                     // variable length text
	NVarChar                    // variable length unicode text
	Int                         // 64-bit integer
	DateTime                    // timestamp truncated to whole seconds
	DateTime2                   // timestamp truncated to microseconds
	Money                       // decimal with four fractional digits
)

func (t DBType) String() string {
	switch t {
	case Char:
		return "CHAR"
	case NChar:
		return "NCHAR"
	case VarChar:
		return "VARCHAR"
	case NVarChar:
		return "NVARCHAR"
	case Int:
		return "INT"
	case DateTime:
		return "DATETIME"
	case DateTime2:
		return "DATETIME2"
	case Money:
		return "MONEY"
	default:
		return "DBType(" + strconv.Itoa(int(t)) + ")"
	}
}

func (t DBType) isText() bool {
	return t == Char || t == NChar || t == VarChar || t == NVarChar
}

// Direction tells whether a parameter carries a value into the call, out of it, or both.
type Direction int

// Directions a parameter can take.
const (
	Input Direction = iota
	Output
	InputOutput
	ReturnValue
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "Input"
	case Output:
		return "Output"
	case InputOutput:
		return "InputOutput"
	case ReturnValue:
		return "ReturnValue"
	default:
		return "Direction(" + strconv.Itoa(int(d)) + ")"
	}
}

const returnValueName = "@RETURN_VALUE"

var paramNamePattern = regexp.MustCompile(`^@[A-Za-z_][A-Za-z0-9_]*$`)

// Param is one argument of a stored procedure call.
//
// Input parameters are sent as positional arguments. Every other direction is
// bound to a session variable named after the parameter and read back once the
// call returns; see Result and Int64.
type Param struct {
	Name      string
	Type      DBType
	Direction Direction
	// Size is the declared length of a text parameter, 0 when undeclared.
	Size int
	// Value is the driver-ready value, nil for SQL NULL.
	Value any

	result any
	err    error
}

// ParamAny binds value as typ. A nil value or nil pointer binds as SQL NULL.
// Binding problems are kept on the parameter and reported by the call using it.
func ParamAny(name string, value any, typ DBType, size int, direction Direction) *Param {
	p := &Param{
		Name:      normalizeName(name),
		Type:      typ,
		Direction: direction,
		Size:      size,
	}
	if p.Name == "" && direction == ReturnValue {
		p.Name = returnValueName
	}
	if direction != Input && !paramNamePattern.MatchString(p.Name) {
		p.err = fmt.Errorf("%w: %q", ErrInvalidParamName, p.Name)
		return p
	}
	if direction == Output || direction == ReturnValue {
		return p
	}
	p.Value, p.err = bindValue(typ, size, value)
	return p
}

// ParamInt binds an integer input.
func ParamInt(name string, value int64) *Param {
	return ParamAny(name, value, Int, 0, Input)
}

// ParamNullInt binds a nil value as NULL.
func ParamNullInt(name string, value *int64) *Param {
	return ParamAny(name, value, Int, 0, Input)
}

// ParamChar binds fixed length text of at most size characters.
func ParamChar(name, value string, size int) *Param {
	return ParamAny(name, value, Char, size, Input)
}

// ParamNChar binds fixed length unicode text of at most size characters.
func ParamNChar(name, value string, size int) *Param {
	return ParamAny(name, value, NChar, size, Input)
}

// ParamVarChar binds text of at most size characters.
func ParamVarChar(name, value string, size int) *Param {
	return ParamAny(name, value, VarChar, size, Input)
}

// ParamNVarChar binds unicode text of at most size characters.
func ParamNVarChar(name, value string, size int) *Param {
	return ParamAny(name, value, NVarChar, size, Input)
}

// ParamDateTime binds a timestamp at second precision. nil binds as NULL.
func ParamDateTime(name string, value *time.Time) *Param {
	return ParamAny(name, value, DateTime, 0, Input)
}

// ParamDateTime2 binds a timestamp at microsecond precision. nil binds as NULL.
func ParamDateTime2(name string, value *time.Time) *Param {
	return ParamAny(name, value, DateTime2, 0, Input)
}

// ParamMoney binds an amount with four decimal places. nil binds as NULL.
func ParamMoney(name string, value *float64) *Param {
	return ParamAny(name, value, Money, 0, Input)
}

// ParamOutput declares a named slot the procedure writes to.
func ParamOutput(name string, typ DBType) *Param {
	return ParamAny(name, nil, typ, 0, Output)
}

// ParamReturn declares the procedure's return slot.
func ParamReturn(typ DBType) *Param {
	return ParamAny("", nil, typ, 0, ReturnValue)
}

// Result returns the value the call left in a non-input parameter.
func (p *Param) Result() any {
	return p.result
}

func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "@") {
		return name
	}
	return "@" + name
}

func bindValue(typ DBType, size int, value any) (any, error) {
	v, null, err := indirect(value)
	if err != nil || null {
		return nil, err
	}

	switch {
	case typ.isText():
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %T as %s", ErrUnsupportedValue, v, typ)
		}
		if size > 0 && utf8.RuneCountInString(s) > size {
			return nil, fmt.Errorf("%w: %d characters as %s(%d)", ErrValueTooLong, utf8.RuneCountInString(s), typ, size)
		}
		return s, nil
	case typ == Int:
		return toInt64(v)
	case typ == DateTime || typ == DateTime2:
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("%w: %T as %s", ErrUnsupportedValue, v, typ)
		}
		if typ == DateTime {
			return t.Truncate(time.Second), nil
		}
		return t.Truncate(time.Microsecond), nil
	case typ == Money:
		switch m := v.(type) {
		case float64:
			return strconv.FormatFloat(m, 'f', 4, 64), nil
		case float32:
			return strconv.FormatFloat(float64(m), 'f', 4, 32), nil
		}
		n, err := toInt64(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %T as %s", ErrUnsupportedValue, v, typ)
		}
		return strconv.FormatInt(n, 10) + ".0000", nil
	default:
		return nil, fmt.Errorf("%w: type %s", ErrUnsupportedValue, typ)
	}
}

// indirect unwraps pointers and driver.Valuer values, reporting NULL along the way.
func indirect(value any) (any, bool, error) {
	if value == nil {
		return nil, true, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, true, nil
	}
	if valuer, ok := value.(driver.Valuer); ok {
		v, err := valuer.Value()
		if err != nil {
			return nil, false, err
		}
		return v, v == nil, nil
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, true, nil
		}
		rv = rv.Elem()
	}
	return rv.Interface(), false, nil
}
