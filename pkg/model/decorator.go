package model

// Decorator enriches a form model after the OpenAPI-derived structure has been
// built.
type Decorator interface {
	Decorate(*FormModel) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormModel) error

// Decorate calls fn.
func (fn DecoratorFunc) Decorate(form *FormModel) error {
	return fn(form)
}
