package condition

import (
	"strings"

	"github.com/dlclark/regexp2"
)

func init() {
	registerFunc("contains", func(ectx *EvalContext, field string, value interface{}) bool {
		s, sok := asString(ectx.Get(field))
		v, vok := value.(string)
		return sok && vok && strings.Contains(s, v)
	})
	registerFunc("starts_with", func(ectx *EvalContext, field string, value interface{}) bool {
		s, sok := asString(ectx.Get(field))
		v, vok := value.(string)
		return sok && vok && strings.HasPrefix(s, v)
	})
	registerFunc("ends_with", func(ectx *EvalContext, field string, value interface{}) bool {
		s, sok := asString(ectx.Get(field))
		v, vok := value.(string)
		return sok && vok && strings.HasSuffix(s, v)
	})
	registerFunc("matches", func(ectx *EvalContext, field string, value interface{}) bool {
		s, sok := asString(ectx.Get(field))
		pattern, vok := value.(string)
		if !sok || !vok {
			return false
		}
		re, err := regexp2.Compile(pattern, regexp2.None)
		if err != nil {
			// Invalid regex returns false, never raises (§4.2).
			return false
		}
		matched, err := re.MatchString(s)
		if err != nil {
			return false
		}
		return matched
	})
}
