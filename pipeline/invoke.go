package pipeline

import "github.com/glimte/hookable-go/future"

// Invoke runs the pipeline. The result is a *future.Future whenever an
// advice suspended the call or the callable itself returned one.
func (p *Pipeline) Invoke(args ...any) (any, error) {
	return p.runBefore(0, args)
}

func (p *Pipeline) runBefore(i int, args []any) (any, error) {
	for ; i < len(p.before); i++ {
		f, err := p.before[i](p.self, args)
		if err != nil {
			return nil, err
		}
		if f != nil {
			next := i + 1
			return f.Then(func(any) (any, error) {
				return p.runBefore(next, args)
			}), nil
		}
	}
	return p.body(args)
}

func (p *Pipeline) body(args []any) (any, error) {
	params := args
	for _, fn := range p.params {
		var err error
		if params, err = fn(p.self, params); err != nil {
			return nil, err
		}
	}

	result, err := p.call(0, params)
	if err != nil {
		return nil, err
	}
	return p.transform(0, args, result)
}

// call runs method step i, or the original once every step has been entered
func (p *Pipeline) call(i int, args []any) (any, error) {
	if i == len(p.around) {
		return p.original(args...)
	}
	next := func(a ...any) (any, error) {
		return p.call(i+1, a)
	}
	return p.around[i](p.self, next, args)
}

func (p *Pipeline) transform(i int, args []any, result any) (any, error) {
	for ; i < len(p.result); i++ {
		if f, ok := result.(*future.Future); ok && f != nil {
			next := i
			return f.Then(func(v any) (any, error) {
				return p.transform(next, args, v)
			}), nil
		}
		var err error
		if result, err = p.result[i](p.self, result); err != nil {
			return nil, err
		}
	}
	return p.runAfter(0, args, result)
}

func (p *Pipeline) runAfter(i int, args []any, result any) (any, error) {
	if i >= len(p.after) {
		return result, nil
	}
	if f, ok := result.(*future.Future); ok && f != nil {
		return f.Then(func(v any) (any, error) {
			return p.runAfter(i, args, v)
		}), nil
	}
	for ; i < len(p.after); i++ {
		f, err := p.after[i](p.self, args)
		if err != nil {
			return nil, err
		}
		if f != nil {
			next := i + 1
			return f.Then(func(any) (any, error) {
				return p.runAfter(next, args, result)
			}), nil
		}
	}
	return result, nil
}
