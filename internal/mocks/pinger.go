package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/recipes-server/internal/model"
)

// Pinger is a mock of model.Pinger.
type Pinger struct {
	mock.Mock
}

var _ model.Pinger = (*Pinger)(nil)

func NewPinger(t TestingT) *Pinger {
	m := &Pinger{}
	register(&m.Mock, t)
	return m
}

func (m *Pinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
