package condition

import dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"

func init() {
	registerFunc("present", func(ectx *EvalContext, field string, value interface{}) bool {
		return !dctx.IsAbsent(ectx.Get(field))
	})
	registerFunc("absent", func(ectx *EvalContext, field string, value interface{}) bool {
		return dctx.IsAbsent(ectx.Get(field))
	})
}
