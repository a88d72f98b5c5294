package actions

import (
	"context"

	"github.com/vk/launchgo/internal/launch"
	"github.com/vk/launchgo/internal/substitution"
)

// SetConfiguration writes a key into the innermost configuration scope when
// executed. Both name and value are resolved lazily.
type SetConfiguration struct {
	base

	Name  []launch.Substitution
	Value []launch.Substitution
}

// NewSetConfiguration builds a configuration write.
func NewSetConfiguration(name, value []launch.Substitution, opts ...Option) *SetConfiguration {
	return &SetConfiguration{base: newBase(opts), Name: name, Value: value}
}

// Visit implements launch.Entity.
func (a *SetConfiguration) Visit(ctx context.Context, lc *launch.Context) ([]launch.Entity, error) {
	name, err := launch.Resolve(lc, a.Name)
	if err != nil {
		return nil, err
	}
	value, err := launch.Resolve(lc, a.Value)
	if err != nil {
		return nil, err
	}
	lc.SetConfiguration(name, value)
	return nil, nil
}

// DeclareArgument declares a launch argument and materializes it as a
// configuration on first declaration: an already-set configuration wins over
// the default, otherwise the default is evaluated and stored. Re-declaring
// with an identical default is a no-op; a differing default is an
// argument-conflict error.
type DeclareArgument struct {
	base

	Name string

	// Default is evaluated lazily; nil means the argument is required and a
	// lookup without an override fails with a missing-reference error.
	Default []launch.Substitution

	Description string
}

// NewDeclareArgument builds an argument declaration.
func NewDeclareArgument(name string, opts ...Option) *DeclareArgument {
	return &DeclareArgument{base: newBase(opts), Name: name}
}

// WithDefault attaches a literal default value.
func (a *DeclareArgument) WithDefault(value string) *DeclareArgument {
	a.Default = substitution.TextList(value)
	return a
}

// Visit implements launch.Entity.
func (a *DeclareArgument) Visit(ctx context.Context, lc *launch.Context) ([]launch.Entity, error) {
	hasDefault := a.Default != nil
	err := lc.DeclareArgument(a.Name, launch.DescribeAll(a.Default), hasDefault, a.Description)
	if err != nil {
		return nil, err
	}
	if _, ok := lc.LookupConfiguration(a.Name); ok || !hasDefault {
		return nil, nil
	}
	value, err := launch.Resolve(lc, a.Default)
	if err != nil {
		return nil, err
	}
	lc.SetConfiguration(a.Name, value)
	return nil, nil
}
