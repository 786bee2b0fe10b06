package spark

import (
	"sort"
)

func (c *evalCtx) evalFunctionBehaviour(t FunctionBehaviour, v any) (any, *ValidationError) {
	if ref, ok := c.resolveModule(t.Behaviour, t.Builtins, v); ok {
		return ref, nil
	}
	if n, ok := funcArity(v); ok && n == t.Shape.Arity {
		return ModuleRef{Module: t.Shape.Module, Opts: Keyword{{Key: "fun", Value: v}}}, nil
	}
	return nil, newError(KindTypeMismatch, v, "function_behaviour", map[string]string{
		"behaviour": Inspect(t.Behaviour),
		"builtins":  builtinNames(t.Builtins),
		"arity":     itoa(t.Shape.Arity),
		"value":     Inspect(v),
	})
}

func (c *evalCtx) evalBehaviour(t Behaviour, v any) (any, *ValidationError) {
	if ref, ok := c.resolveModule(t.Behaviour, t.Builtins, v); ok {
		return ref, nil
	}
	return nil, newError(KindTypeMismatch, v, "behaviour", map[string]string{
		"behaviour": Inspect(t.Behaviour),
		"builtins":  builtinNames(t.Builtins),
		"value":     Inspect(v),
	})
}

// resolveModule accepts, in order, a builtin shorthand, a {module, opts} pair
// whose module implements behaviour, and a bare module implementing it.
func (c *evalCtx) resolveModule(behaviour Atom, builtins map[Atom]ModuleRef, v any) (ModuleRef, bool) {
	if a, ok := v.(Atom); ok {
		if ref, ok := builtins[a]; ok {
			return ref, true
		}
	}
	if ref, ok := asModuleRef(v); ok {
		if c.registry.ImplementsBehaviour(ref.Module, behaviour) {
			return ref, true
		}
		return ModuleRef{}, false
	}
	if a, ok := v.(Atom); ok && c.registry.ImplementsBehaviour(a, behaviour) {
		return ModuleRef{Module: a}, true
	}
	return ModuleRef{}, false
}

// asModuleRef accepts a ModuleRef or a two element sequence {module, opts}.
func asModuleRef(v any) (ModuleRef, bool) {
	switch t := v.(type) {
	case ModuleRef:
		return t, t.Module != ""
	case []any:
		if len(t) != 2 {
			return ModuleRef{}, false
		}
		m, ok := t[0].(Atom)
		if !ok {
			return ModuleRef{}, false
		}
		opts, ok := asKeyword(t[1])
		if !ok {
			return ModuleRef{}, false
		}
		return ModuleRef{Module: m, Opts: opts}, true
	}
	return ModuleRef{}, false
}

func builtinNames(builtins map[Atom]ModuleRef) string {
	keys := make([]Atom, 0, len(builtins))
	for k := range builtins {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return inspectKeys(keys)
}

// evalImpl checks the protocol name before looking at the value, so a
// misnamed protocol is reported whatever value is supplied.
func (c *evalCtx) evalImpl(t ImplOf, v any) (any, *ValidationError) {
	if !c.registry.IsProtocol(t.Protocol) {
		return nil, newError(KindNotAProtocol, v, "not_a_protocol", map[string]string{"protocol": Inspect(t.Protocol)})
	}
	if !c.registry.HasImplementation(v, t.Protocol) {
		return nil, newError(KindProtocolNotImplemented, v, "protocol_not_implemented", map[string]string{
			"protocol": Inspect(t.Protocol),
			"value":    Inspect(v),
		})
	}
	return v, nil
}
