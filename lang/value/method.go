package value

import "github.com/mna/dicelang/lang/symbol"

// surfaceMethods maps the user-facing method-call name (the identifier
// written after a `.` in source, e.g. `.length()`) to the well-known
// operator symbol its implementation is filed under in a type's Methods
// table. This lets List/String/Range expose builtins like length() through
// the same method table operators already use, instead of needing a second
// dispatch mechanism for "real" methods versus operators.
var surfaceMethods = map[string]symbol.Symbol{
	"length": symbol.OpLength,
}

// BindMethod resolves recv.name as a callable, per spec.md §8 scenario
// `[1,2,3].length()`: recv is not an Object (Objects resolve `.name` as a
// plain field read, handled separately by GetField), so name is translated
// to its operator symbol and looked up on recv's type descriptor. The
// method table stores unbound natives expecting the receiver as args[0]
// (see lang/value/list.go), so the result is wrapped to supply it.
func BindMethod(recv Value, name string) (Value, bool) {
	sym, ok := surfaceMethods[name]
	if !ok {
		return nil, false
	}
	fn, ok := recv.Type().Method(sym)
	if !ok {
		return nil, false
	}
	native, ok := fn.(*NativeFunction)
	if !ok {
		return nil, false
	}
	bound := native
	return NativeFunc(name, func(args []Value) (Value, error) {
		full := make([]Value, 0, len(args)+1)
		full = append(full, recv)
		full = append(full, args...)
		return bound.Fn(full)
	}), true
}
