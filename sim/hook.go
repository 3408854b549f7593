package sim

// HookPos names the site at which a hook is triggered.
type HookPos struct {
	Name string
}

// Hook positions fired by PriorityResource after each mutation.
var (
	HookPosGrant   = &HookPos{Name: "Grant"}
	HookPosEnqueue = &HookPos{Name: "Enqueue"}
	HookPosRelease = &HookPos{Name: "Release"}
	HookPosCancel  = &HookPos{Name: "Cancel"}
)

// HookCtx holds the information about the site that triggered a hook.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Now    float64
	Item   any
}

// Hookable defines an object that accepts hooks.
type Hookable interface {
	AcceptHook(hook Hook)
}

// Hook is invoked synchronously by a Hookable. Hooks observe only; they must
// not schedule events or mutate the domain that invoked them.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

func (f HookFunc) Func(ctx HookCtx) { f(ctx) }

// HookableBase provides the bookkeeping for types implementing Hookable.
type HookableBase struct {
	Hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// InvokeHook triggers the registered hooks in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}
