package pipeline

import (
	"fmt"

	"github.com/glimte/hookable-go/contracts"
	"github.com/glimte/hookable-go/future"
)

// Advice runs a side effect before or after a call. A non-nil future
// suspends the call until it settles.
type Advice func(self contracts.Instance, args []any) (*future.Future, error)

// ParamsFunc rewrites the arguments of a call
type ParamsFunc func(self contracts.Instance, args []any) ([]any, error)

// AroundFunc fully controls invocation; original is the rest of the pipeline
type AroundFunc func(self contracts.Instance, original contracts.Func, args []any) (any, error)

// ResultFunc rewrites the return value of a call
type ResultFunc func(self contracts.Instance, result any) (any, error)

// Sync adapts a synchronous side effect to an Advice
func Sync(fn func(self contracts.Instance, args []any) error) Advice {
	return func(self contracts.Instance, args []any) (*future.Future, error) {
		return nil, fn(self, args)
	}
}

// Stage names a phase of the pipeline
type Stage string

const (
	StageBefore   Stage = "before"
	StageParams   Stage = "params"
	StageMethod   Stage = "method"
	StageOriginal Stage = "original"
	StageResult   Stage = "result"
	StageAfter    Stage = "after"
)

// Step is one entry of the execution plan
type Step struct {
	Stage Stage
	Index int
}

func (s Step) String() string {
	if s.Stage == StageOriginal {
		return string(s.Stage)
	}
	return fmt.Sprintf("%s#%d", s.Stage, s.Index)
}

// Pipeline is an immutable composition around one bound callable
type Pipeline struct {
	self     contracts.Instance
	key      contracts.Key
	original contracts.Func

	before []Advice
	params []ParamsFunc
	around []AroundFunc
	result []ResultFunc
	after  []Advice
}

// New creates an empty pipeline over original
func New(self contracts.Instance, key contracts.Key, original contracts.Func) *Pipeline {
	return &Pipeline{self: self, key: key, original: original}
}

// From returns v if it already is a pipeline, or a new pipeline over v if v
// is callable
func From(v any, self contracts.Instance, key contracts.Key) (*Pipeline, bool) {
	if p, ok := v.(*Pipeline); ok && p != nil {
		return p, true
	}
	fn, ok := contracts.AsFunc(v)
	if !ok {
		return nil, false
	}
	return New(self, key, fn), true
}

// Self returns the instance the pipeline is bound to
func (p *Pipeline) Self() contracts.Instance {
	return p.self
}

// Key returns the member key
func (p *Pipeline) Key() contracts.Key {
	return p.key
}

// Original returns the wrapped callable
func (p *Pipeline) Original() contracts.Func {
	return p.original
}

// Len returns the number of composed steps, not counting the original
func (p *Pipeline) Len() int {
	return len(p.before) + len(p.params) + len(p.around) + len(p.result) + len(p.after)
}

func (p *Pipeline) clone() *Pipeline {
	c := *p
	c.before = append([]Advice(nil), p.before...)
	c.params = append([]ParamsFunc(nil), p.params...)
	c.around = append([]AroundFunc(nil), p.around...)
	c.result = append([]ResultFunc(nil), p.result...)
	c.after = append([]Advice(nil), p.after...)
	return &c
}

// Before appends a before advice
func (p *Pipeline) Before(a Advice) *Pipeline {
	c := p.clone()
	c.before = append(c.before, a)
	return c
}

// Params appends a params transform
func (p *Pipeline) Params(fn ParamsFunc) *Pipeline {
	c := p.clone()
	c.params = append(c.params, fn)
	return c
}

// Around appends a method step. Earlier steps wrap later ones.
func (p *Pipeline) Around(fn AroundFunc) *Pipeline {
	c := p.clone()
	c.around = append(c.around, fn)
	return c
}

// Result appends a result transform
func (p *Pipeline) Result(fn ResultFunc) *Pipeline {
	c := p.clone()
	c.result = append(c.result, fn)
	return c
}

// After appends an after advice
func (p *Pipeline) After(a Advice) *Pipeline {
	c := p.clone()
	c.after = append(c.after, a)
	return c
}

// Steps lists the composition in execution order
func (p *Pipeline) Steps() []Step {
	steps := make([]Step, 0, p.Len()+1)
	add := func(stage Stage, n int) {
		for i := 0; i < n; i++ {
			steps = append(steps, Step{Stage: stage, Index: i})
		}
	}
	add(StageBefore, len(p.before))
	add(StageParams, len(p.params))
	add(StageMethod, len(p.around))
	steps = append(steps, Step{Stage: StageOriginal})
	add(StageResult, len(p.result))
	add(StageAfter, len(p.after))
	return steps
}

// Func returns the pipeline as a callable
func (p *Pipeline) Func() contracts.Func {
	return p.Invoke
}
