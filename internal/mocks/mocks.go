// Package mocks holds testify mocks for the interfaces shared across packages.
package mocks

import "github.com/stretchr/testify/mock"

// TestingT is what the constructors need from *testing.T.
type TestingT interface {
	mock.TestingT
	Cleanup(func())
}

func register(m *mock.Mock, t TestingT) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}
